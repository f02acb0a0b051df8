package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/collabflow/collabflow/internal/service"
	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/httpx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Profile Endpoint
//	@Description	Return the authenticated user's profile plus the ids of the projects they belong to.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	collabsdk.MeResponse	"user_id, email, role, assigned_projects"
//	@Failure		401	{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, collabsdk.CodeUnauthenticated, "Authentication required.")
		return
	}

	profile, err := h.UserService.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, collabsdk.CodeNotFound, "User not found.")
			return
		}
		log.Error("failed to load profile", "err", err)
		writeInternal(w, "An internal error occurred while loading the profile.")
		return
	}

	projectIDs := profile.ProjectIDs
	if projectIDs == nil {
		projectIDs = []string{}
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.MeResponse{
		UserID:           profile.User.ID,
		Email:            profile.User.Email,
		DisplayName:      profile.User.DisplayName,
		Role:             profile.User.Role.String(),
		Onboarded:        profile.User.Onboarded,
		AssignedProjects: projectIDs,
		CreatedAt:        profile.User.CreatedAt.Format(time.RFC3339),
	})
}
