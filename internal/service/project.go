package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/pkg/idx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

var (
	ErrProjectNameRequired    = errors.New("project name is required")
	ErrProjectMembersRequired = errors.New("project must have at least one member")
	ErrCreatorNotMember       = errors.New("project creator must be included in the members list")
	ErrProjectIDRequired      = errors.New("project id is required")
	ErrEmptyProjectUpdate     = errors.New("updates object is required")
	ErrProjectNotFound        = errors.New("project not found")
)

type ProjectService struct {
	Store store.Store
	Authz *AuthorizeService
}

// CreateProject creates a project owned by callerID. Administrators
// only; the creator must appear in the member list.
func (s *ProjectService) CreateProject(ctx context.Context, callerID, name, description string, members []string) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Authorization comes before validation here: non-admins learn
	// nothing about what a valid request looks like.
	if err := s.Authz.RequireAdministrator(ctx, callerID); err != nil {
		return "", err
	}

	// 2. Validate input.
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrProjectNameRequired
	}
	if len(members) == 0 {
		return "", ErrProjectMembersRequired
	}
	if !slices.Contains(members, callerID) {
		return "", ErrCreatorNotMember
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:          idx.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Members:     dedupe(members),
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Projects().CreateProject(ctx, project)
	})
	if err != nil {
		log.Error("failed to create project",
			slog.String("project_id", project.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("created_by", callerID),
	)
	return project.ID, nil
}

// ListProjects returns the projects visible to callerID, newest first.
// Administrators see everything; everyone else sees only projects whose
// member set contains them.
func (s *ProjectService) ListProjects(ctx context.Context, callerID string) ([]domain.Project, error) {
	if s.Authz.IsAdministrator(ctx, callerID) {
		return s.Store.Projects().ListProjects(ctx)
	}
	return s.Store.Projects().ListProjectsByMember(ctx, callerID)
}

// UpdateProject applies a partial update. Administrators only. The
// project id, creator and creation time cannot be changed; the update
// type cannot even express them. A zero upd is a valid no-op that only
// refreshes the updated_at timestamp, which is what a request carrying
// nothing but immutable fields reduces to after stripping.
func (s *ProjectService) UpdateProject(ctx context.Context, callerID, projectID string, upd domain.ProjectUpdate) error {
	log := slogx.FromContext(ctx)

	if err := s.Authz.RequireAdministrator(ctx, callerID); err != nil {
		return err
	}

	if strings.TrimSpace(projectID) == "" {
		return ErrProjectIDRequired
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return ErrProjectNameRequired
		}
		upd.Name = &trimmed
	}
	if upd.Description != nil {
		trimmed := strings.TrimSpace(*upd.Description)
		upd.Description = &trimmed
	}
	if upd.Members != nil {
		if len(upd.Members) == 0 {
			return ErrProjectMembersRequired
		}
		upd.Members = dedupe(upd.Members)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Projects().UpdateProject(ctx, projectID, upd, time.Now().UTC())
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		log.Error("failed to update project",
			slog.String("project_id", projectID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("project updated",
		slog.String("project_id", projectID),
		slog.String("updated_by", callerID),
	)
	return nil
}

// DeleteProject removes a project. Administrators only. Membership
// rows cascade with the project; no other dependent state is cleaned
// up.
func (s *ProjectService) DeleteProject(ctx context.Context, callerID, projectID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Authz.RequireAdministrator(ctx, callerID); err != nil {
		return err
	}

	if strings.TrimSpace(projectID) == "" {
		return ErrProjectIDRequired
	}

	if err := s.Store.Projects().DeleteProject(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		log.Error("failed to delete project",
			slog.String("project_id", projectID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("project deleted",
		slog.String("project_id", projectID),
		slog.String("deleted_by", callerID),
	)
	return nil
}

// dedupe returns ids with duplicates removed, first occurrence wins.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
