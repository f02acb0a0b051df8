package collabsdk

import (
	"context"
	"net/http"
)

// CreateProject creates a project. Requires an administrator token and
// the caller's own user id in members.
func (c *Client) CreateProject(ctx context.Context, name, description string, members []string) (CreateProjectResponse, error) {
	var out CreateProjectResponse
	err := c.do(ctx, http.MethodPost, "/v1/projects", CreateProjectRequest{
		Name:        name,
		Description: description,
		Members:     members,
	}, &out)
	return out, err
}

// ListProjects returns the projects visible to the caller, newest
// first.
func (c *Client) ListProjects(ctx context.Context) (ListProjectsResponse, error) {
	var out ListProjectsResponse
	err := c.do(ctx, http.MethodGet, "/v1/projects", nil, &out)
	return out, err
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, updates ProjectUpdates) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodPatch, "/v1/projects/"+projectID, UpdateProjectRequest{
		Updates: updates,
	}, &out)
	return out, err
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, projectID string) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodDelete, "/v1/projects/"+projectID, nil, &out)
	return out, err
}
