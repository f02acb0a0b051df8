package store

import (
	"context"
	"errors"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement
// it; today that is sqlite. It exposes sub-repositories per collection
// to keep concerns separated and mockable.
type Store interface {
	Users() Users
	Invites() Invites
	Projects() Projects

	ApplyMigrations() error

	// Tx starts a read/write transaction scoped Store. The caller MUST
	// call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for multi-step
	// operations that must be atomic, like invite acceptance.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store with commit/rollback control.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user document by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when the id or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ApplyInviteAcceptance merge-writes the user document for userID:
	// role, email and onboarded=true are set, everything else on a
	// pre-existing document is preserved. Creates the document when the
	// user has not registered yet.
	ApplyInviteAcceptance(ctx context.Context, userID, email string, role domain.Role, at time.Time) error

	// UpdatePasswordHash replaces the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string, at time.Time) error

	// IsEmpty reports whether no users exist (bootstrap gate).
	IsEmpty(ctx context.Context) (bool, error)
}

type Invites interface {
	// CreateInvite writes a new pending invite. The code fingerprint is
	// UNIQUE; a duplicate yields ErrAlreadyExists.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetPendingInviteByCodeHash returns the pending, unexpired invite
	// carrying this code fingerprint.
	GetPendingInviteByCodeHash(ctx context.Context, hash string) (domain.Invite, error)

	// AcceptInvite transitions pending → accepted as a compare-and-swap:
	// it fails with ErrNotFound when the invite is no longer pending, so
	// two racing acceptances cannot both succeed.
	AcceptInvite(ctx context.Context, inviteID, acceptedBy string, at time.Time) error

	// DeleteExpiredInvites removes pending invites past their expiry
	// (housekeeping).
	DeleteExpiredInvites(ctx context.Context) error
}

type Projects interface {
	// GetProjectByID returns a project with its member set.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjects returns every project, newest first.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// ListProjectsByMember returns projects whose member set contains
	// userID, newest first.
	ListProjectsByMember(ctx context.Context, userID string) ([]domain.Project, error)

	// ListProjectIDsByMember returns just the ids of the projects a
	// user belongs to.
	ListProjectIDsByMember(ctx context.Context, userID string) ([]string, error)

	// CreateProject inserts the project document and its member rows.
	CreateProject(ctx context.Context, p domain.Project) error

	// UpdateProject applies a partial update plus a fresh updated_at.
	// Member replacement, when requested, swaps the whole member set.
	UpdateProject(ctx context.Context, id string, upd domain.ProjectUpdate, at time.Time) error

	// DeleteProject removes the project; membership rows cascade.
	DeleteProject(ctx context.Context, id string) error
}
