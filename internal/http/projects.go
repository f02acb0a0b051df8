package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/service"
	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/httpx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

// projectValidationError maps the project service's validation
// sentinels; ok is false for errors that are not validation failures.
func projectValidationError(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrProjectNameRequired),
		errors.Is(err, service.ErrProjectMembersRequired),
		errors.Is(err, service.ErrCreatorNotMember),
		errors.Is(err, service.ErrProjectIDRequired):
		return err.Error(), true
	}
	return "", false
}

// HandleCreate godoc
//
//	@Summary		Create Project Endpoint
//	@Description	Create a project. Administrators only; the creator must be in the member list.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.CreateProjectRequest	true	"Project definition"
//	@Success		200		{object}	collabsdk.CreateProjectResponse	"success, project_id, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	callerID := httpx.UserIDFromContext(ctx)
	projectID, err := h.ProjectService.CreateProject(ctx, callerID, req.Name, req.Description, req.Members)
	if err != nil {
		if msg, ok := projectValidationError(err); ok {
			writeError(w, collabsdk.CodeInvalidArgument, msg)
			return
		}
		if errors.Is(err, service.ErrNotAdministrator) {
			writeError(w, collabsdk.CodePermissionDenied, "Only administrators can create projects.")
			return
		}
		log.Error("failed to create project", "err", err)
		writeInternal(w, "An internal error occurred while creating the project.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.CreateProjectResponse{
		Success:   true,
		ProjectID: projectID,
		Message:   "Project created successfully.",
	})
}

// HandleList godoc
//
//	@Summary		List Projects Endpoint
//	@Description	List projects visible to the caller, newest first. Administrators see all projects; everyone else sees only projects they are a member of.
//	@Tags			Projects
//	@Produce		json
//	@Success		200	{object}	collabsdk.ListProjectsResponse	"success, projects, message"
//	@Failure		401	{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	callerID := httpx.UserIDFromContext(ctx)
	projects, err := h.ProjectService.ListProjects(ctx, callerID)
	if err != nil {
		log.Error("failed to list projects", "err", err)
		writeInternal(w, "An internal error occurred while retrieving projects.")
		return
	}

	out := make([]collabsdk.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, wireProject(p))
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.ListProjectsResponse{
		Success:  true,
		Projects: out,
		Message:  "Projects retrieved successfully.",
	})
}

// HandleUpdate godoc
//
//	@Summary		Update Project Endpoint
//	@Description	Apply a partial update to a project. Administrators only. The project id, creator and creation time cannot be changed.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project id"
//	@Param			request	body		collabsdk.UpdateProjectRequest	true	"Fields to update"
//	@Success		200		{object}	collabsdk.StatusResponse		"success, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/projects/{id} [patch].
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The updates object is kept raw so that "absent or empty" can be
	// told apart from "carried only immutable fields". The former is
	// invalid; the latter strips down to a timestamp-only update.
	var req struct {
		Updates json.RawMessage `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	var fields map[string]json.RawMessage
	if len(req.Updates) == 0 || json.Unmarshal(req.Updates, &fields) != nil || len(fields) == 0 {
		writeError(w, collabsdk.CodeInvalidArgument, service.ErrEmptyProjectUpdate.Error())
		return
	}

	// The wire update type has no project_id, created_by or created_at
	// fields; immutable-field stripping is structural, not procedural.
	var updates collabsdk.ProjectUpdates
	if err := json.Unmarshal(req.Updates, &updates); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}
	upd := domain.ProjectUpdate{
		Name:        updates.Name,
		Description: updates.Description,
		Members:     updates.Members,
	}

	callerID := httpx.UserIDFromContext(ctx)
	err := h.ProjectService.UpdateProject(ctx, callerID, r.PathValue("id"), upd)
	if err != nil {
		if msg, ok := projectValidationError(err); ok {
			writeError(w, collabsdk.CodeInvalidArgument, msg)
			return
		}
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			writeError(w, collabsdk.CodePermissionDenied, "Only administrators can update projects.")
		case errors.Is(err, service.ErrProjectNotFound):
			writeError(w, collabsdk.CodeNotFound, "Project not found.")
		default:
			log.Error("failed to update project", "err", err)
			writeInternal(w, "An internal error occurred while updating the project.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.StatusResponse{
		Success: true,
		Message: "Project updated successfully.",
	})
}

// HandleDelete godoc
//
//	@Summary		Delete Project Endpoint
//	@Description	Delete a project and its membership rows. Administrators only.
//	@Tags			Projects
//	@Produce		json
//	@Param			id	path		string						true	"Project id"
//	@Success		200	{object}	collabsdk.StatusResponse	"success, message"
//	@Failure		401	{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	callerID := httpx.UserIDFromContext(ctx)
	err := h.ProjectService.DeleteProject(ctx, callerID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdministrator):
			writeError(w, collabsdk.CodePermissionDenied, "Only administrators can delete projects.")
		case errors.Is(err, service.ErrProjectNotFound):
			writeError(w, collabsdk.CodeNotFound, "Project not found.")
		case errors.Is(err, service.ErrProjectIDRequired):
			writeError(w, collabsdk.CodeInvalidArgument, err.Error())
		default:
			log.Error("failed to delete project", "err", err)
			writeInternal(w, "An internal error occurred while deleting the project.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.StatusResponse{
		Success: true,
		Message: "Project deleted successfully.",
	})
}

func wireProject(p domain.Project) collabsdk.Project {
	return collabsdk.Project{
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Members:     p.Members,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
