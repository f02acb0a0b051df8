package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, email, code_hash, status, role, created_by, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Email,
		inv.CodeHash,
		string(inv.Status),
		string(inv.Role),
		inv.CreatedBy,
		mapOptionalTime(inv.ExpiresAt),
		inv.CreatedAt.UTC(),
		inv.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetPendingInviteByCodeHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, code_hash, status, role, created_by, expires_at, accepted_by, accepted_at, created_at, updated_at
		FROM invites
		WHERE code_hash = ?
		  AND status = 'pending'
		  AND (expires_at IS NULL OR expires_at > ?)`,
		hash, time.Now().UTC())

	var (
		inv        domain.Invite
		status     string
		role       string
		expiresAt  sql.NullTime
		acceptedBy sql.NullString
		acceptedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.CodeHash,
		&status,
		&role,
		&inv.CreatedBy,
		&expiresAt,
		&acceptedBy,
		&acceptedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.Status = domain.InviteStatus(status)
	inv.Role = domain.Role(role)
	inv.ExpiresAt = mapNullTimePtr(expiresAt)
	inv.AcceptedBy = mapNullString(acceptedBy)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return inv, nil
}

// AcceptInvite performs the pending → accepted transition as a
// compare-and-swap. When another request already flipped the invite the
// guarded UPDATE matches zero rows and ErrNotFound is returned, so only
// one of two racing acceptances can win.
func (r *invitesRepo) AcceptInvite(ctx context.Context, inviteID, acceptedBy string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET status = 'accepted', accepted_by = ?, accepted_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		mapStringNull(acceptedBy), at.UTC(), at.UTC(), inviteID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM invites
		WHERE status = 'pending'
		  AND expires_at IS NOT NULL
		  AND expires_at <= ?`,
		time.Now().UTC())
	return err
}

// requireRowChanged maps a zero-row UPDATE/DELETE to ErrNotFound.
func requireRowChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
