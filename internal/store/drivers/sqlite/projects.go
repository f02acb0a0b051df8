package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
)

type projectsRepo struct {
	db dbtx
}

const projectColumns = `id, name, description, created_by, created_at, updated_at`

func scanProjectRows(rows *sql.Rows) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		p.Members = []string{}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// attachMembers fills in the member sets for the given projects with a
// single membership query, avoiding a query per project.
func (r *projectsRepo) attachMembers(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	idx := make(map[string]int, len(projects))
	placeholders := make([]string, 0, len(projects))
	args := make([]any, 0, len(projects))
	for i, p := range projects {
		idx[p.ID] = i
		placeholders = append(placeholders, "?")
		args = append(args, p.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT project_id, user_id FROM project_members
		WHERE project_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY rowid`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID string
		if err := rows.Scan(&projectID, &userID); err != nil {
			return err
		}
		if i, ok := idx[projectID]; ok {
			projects[i].Members = append(projects[i].Members, userID)
		}
	}
	return rows.Err()
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.Members = []string{}

	projects := []domain.Project{p}
	if err := r.attachMembers(ctx, projects); err != nil {
		return domain.Project{}, err
	}
	return projects[0], nil
}

func (r *projectsRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := scanProjectRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachMembers(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectsRepo) ListProjectsByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = ?
		ORDER BY p.created_at DESC, p.id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := scanProjectRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachMembers(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectsRepo) ListProjectIDsByMember(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT project_id FROM project_members WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.CreatedBy, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return mapConstraint(err)
	}
	return r.replaceMembers(ctx, p.ID, p.Members)
}

func (r *projectsRepo) UpdateProject(ctx context.Context, id string, upd domain.ProjectUpdate, at time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{at.UTC()}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if err := requireRowChanged(res); err != nil {
		return err
	}

	if upd.Members != nil {
		return r.replaceMembers(ctx, id, upd.Members)
	}
	return nil
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// replaceMembers swaps the whole member set for a project. Insertion
// order is preserved by rowid when reading the set back.
func (r *projectsRepo) replaceMembers(ctx context.Context, projectID string, members []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ?`, projectID); err != nil {
		return err
	}
	for _, userID := range members {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO project_members (project_id, user_id) VALUES (?, ?)`,
			projectID, userID); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

var _ store.Projects = (*projectsRepo)(nil)
