package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/collabflow/collabflow/internal/service"
	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/httpx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP godoc
//
//	@Summary		Bootstrap Endpoint
//	@Description	Create the first Administrator on an empty deployment. Guarded by the configured bootstrap token and refused once any user exists.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.BootstrapRequest	true	"Bootstrap request"
//	@Success		200		{object}	collabsdk.BootstrapResponse	"success, user_id, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	admin, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapNotEnabled),
			errors.Is(err, service.ErrBootstrapForbidden),
			errors.Is(err, service.ErrAlreadyBootstrapped):
			// One message for all three; the endpoint doesn't reveal
			// whether bootstrap is enabled or already done.
			writeError(w, collabsdk.CodePermissionDenied, "Bootstrap is not available.")
		case errors.Is(err, service.ErrInvalidRegistration):
			writeError(w, collabsdk.CodeInvalidArgument, err.Error())
		default:
			log.Error("failed to bootstrap", "err", err)
			writeInternal(w, "An internal error occurred while bootstrapping.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.BootstrapResponse{
		Success: true,
		UserID:  admin.ID,
		Message: "Administrator created successfully.",
	})
}
