package service

import (
	"context"
	"testing"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"

	"github.com/stretchr/testify/require"
)

func newProjectService(t *testing.T) (*ProjectService, store.Store, domain.User) {
	t.Helper()

	st := newTestStore(t)
	admin := seedUser(t, st, "admin@example.com", domain.RoleAdministrator)
	svc := &ProjectService{
		Store: st,
		Authz: &AuthorizeService{Store: st},
	}
	return svc, st, admin
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates with deduplicated members", func(t *testing.T) {
		svc, st, admin := newProjectService(t)

		id, err := svc.CreateProject(ctx, admin.ID, "  Launch  ", " lift off ", []string{admin.ID, "u2", admin.ID, "u2"})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		p, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Launch", p.Name)
		require.Equal(t, "lift off", p.Description)
		require.Equal(t, []string{admin.ID, "u2"}, p.Members)
		require.Equal(t, admin.ID, p.CreatedBy)
		require.False(t, p.CreatedAt.IsZero())
		require.Equal(t, p.CreatedAt, p.UpdatedAt)
	})

	t.Run("non-administrator denied before validation", func(t *testing.T) {
		svc, st, _ := newProjectService(t)
		regular := seedUser(t, st, "user@example.com", domain.RoleUser)

		_, err := svc.CreateProject(ctx, regular.ID, "", "", nil)
		require.ErrorIs(t, err, ErrNotAdministrator)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _, admin := newProjectService(t)
		_, err := svc.CreateProject(ctx, admin.ID, "   ", "", []string{admin.ID})
		require.ErrorIs(t, err, ErrProjectNameRequired)
	})

	t.Run("no members", func(t *testing.T) {
		svc, _, admin := newProjectService(t)
		_, err := svc.CreateProject(ctx, admin.ID, "Launch", "", nil)
		require.ErrorIs(t, err, ErrProjectMembersRequired)
	})

	t.Run("creator must be a member", func(t *testing.T) {
		svc, _, admin := newProjectService(t)
		_, err := svc.CreateProject(ctx, admin.ID, "Launch", "", []string{"someone-else"})
		require.ErrorIs(t, err, ErrCreatorNotMember)
	})
}

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, st, admin := newProjectService(t)
	member := seedUser(t, st, "member@example.com", domain.RoleUser)

	first, err := svc.CreateProject(ctx, admin.ID, "First", "", []string{admin.ID, member.ID})
	require.NoError(t, err)
	second, err := svc.CreateProject(ctx, admin.ID, "Second", "", []string{admin.ID})
	require.NoError(t, err)

	t.Run("administrator sees all, newest first", func(t *testing.T) {
		projects, err := svc.ListProjects(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		require.Equal(t, second, projects[0].ID)
		require.Equal(t, first, projects[1].ID)
	})

	t.Run("regular user sees only their projects", func(t *testing.T) {
		projects, err := svc.ListProjects(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.Equal(t, first, projects[0].ID)
	})

	t.Run("non-member sees nothing", func(t *testing.T) {
		outsider := seedUser(t, st, "outsider@example.com", domain.RoleUser)
		projects, err := svc.ListProjects(ctx, outsider.ID)
		require.NoError(t, err)
		require.Empty(t, projects)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	strp := func(s string) *string { return &s }

	t.Run("partial update preserves immutable fields", func(t *testing.T) {
		svc, st, admin := newProjectService(t)

		id, err := svc.CreateProject(ctx, admin.ID, "Before", "old", []string{admin.ID})
		require.NoError(t, err)
		before, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)

		err = svc.UpdateProject(ctx, admin.ID, id, domain.ProjectUpdate{Name: strp("After")})
		require.NoError(t, err)

		after, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "After", after.Name)
		require.Equal(t, "old", after.Description)
		require.Equal(t, before.CreatedBy, after.CreatedBy)
		require.Equal(t, before.CreatedAt, after.CreatedAt)
		require.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("member replacement changes visibility", func(t *testing.T) {
		svc, st, admin := newProjectService(t)
		b := seedUser(t, st, "b@example.com", domain.RoleUser)

		id, err := svc.CreateProject(ctx, admin.ID, "Launch", "", []string{admin.ID})
		require.NoError(t, err)

		visible, err := svc.ListProjects(ctx, b.ID)
		require.NoError(t, err)
		require.Empty(t, visible)

		err = svc.UpdateProject(ctx, admin.ID, id, domain.ProjectUpdate{Members: []string{admin.ID, b.ID}})
		require.NoError(t, err)

		visible, err = svc.ListProjects(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		require.Equal(t, id, visible[0].ID)
	})

	t.Run("non-administrator denied", func(t *testing.T) {
		svc, st, admin := newProjectService(t)
		regular := seedUser(t, st, "user@example.com", domain.RoleUser)

		id, err := svc.CreateProject(ctx, admin.ID, "Launch", "", []string{admin.ID})
		require.NoError(t, err)

		err = svc.UpdateProject(ctx, regular.ID, id, domain.ProjectUpdate{Name: strp("X")})
		require.ErrorIs(t, err, ErrNotAdministrator)
	})

	t.Run("zero update touches updated_at only", func(t *testing.T) {
		svc, st, admin := newProjectService(t)

		id, err := svc.CreateProject(ctx, admin.ID, "Touched", "desc", []string{admin.ID})
		require.NoError(t, err)
		before, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateProject(ctx, admin.ID, id, domain.ProjectUpdate{}))

		after, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, before.Name, after.Name)
		require.Equal(t, before.Description, after.Description)
		require.Equal(t, before.Members, after.Members)
		require.Equal(t, before.CreatedAt, after.CreatedAt)
		require.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("empty member list rejected", func(t *testing.T) {
		svc, _, admin := newProjectService(t)
		err := svc.UpdateProject(ctx, admin.ID, "some-id", domain.ProjectUpdate{Members: []string{}})
		require.ErrorIs(t, err, ErrProjectMembersRequired)
	})

	t.Run("unknown project", func(t *testing.T) {
		svc, _, admin := newProjectService(t)
		err := svc.UpdateProject(ctx, admin.ID, "missing", domain.ProjectUpdate{Name: strp("X")})
		require.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func TestProjectService_DeleteProject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delete removes project and memberships", func(t *testing.T) {
		svc, st, admin := newProjectService(t)

		id, err := svc.CreateProject(ctx, admin.ID, "Doomed", "", []string{admin.ID})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProject(ctx, admin.ID, id))

		_, err = st.Projects().GetProjectByID(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)

		ids, err := st.Projects().ListProjectIDsByMember(ctx, admin.ID)
		require.NoError(t, err)
		require.NotContains(t, ids, id)
	})

	t.Run("second delete fails not found", func(t *testing.T) {
		svc, _, admin := newProjectService(t)

		id, err := svc.CreateProject(ctx, admin.ID, "Twice", "", []string{admin.ID})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProject(ctx, admin.ID, id))
		require.ErrorIs(t, svc.DeleteProject(ctx, admin.ID, id), ErrProjectNotFound)
	})

	t.Run("non-administrator denied", func(t *testing.T) {
		svc, st, admin := newProjectService(t)
		regular := seedUser(t, st, "user@example.com", domain.RoleUser)

		id, err := svc.CreateProject(ctx, admin.ID, "Safe", "", []string{admin.ID})
		require.NoError(t, err)

		require.ErrorIs(t, svc.DeleteProject(ctx, regular.ID, id), ErrNotAdministrator)
	})
}
