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

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Create Invite Endpoint
//	@Description	Mint an opaque invite code for an email address, granting the given role on acceptance. Administrators only.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.CreateInviteRequest	true	"Invite request"
//	@Success		200		{object}	collabsdk.CreateInviteResponse	"success, invite_code, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	callerID := httpx.UserIDFromContext(ctx)
	if callerID == "" {
		writeError(w, collabsdk.CodeUnauthenticated, "The operation must be called while authenticated.")
		return
	}

	minted, err := h.InviteService.CreateInvite(ctx, callerID, req.Email, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			writeError(w, collabsdk.CodeInvalidArgument, err.Error())
		case errors.Is(err, service.ErrNotAdministrator):
			writeError(w, collabsdk.CodePermissionDenied, "Only administrators can create invites.")
		default:
			log.Error("failed to create invite", "err", err)
			writeInternal(w, "An internal error occurred while creating the invite.")
		}
		return
	}

	resp := collabsdk.CreateInviteResponse{
		Success:    true,
		InviteCode: minted.Code,
		Message:    "Invite created successfully.",
	}
	if minted.ExpiresAt != nil {
		resp.ExpiresAt = minted.ExpiresAt.Format(time.RFC3339)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invite Endpoint
//	@Description	Redeem an invite code on behalf of a user. No bearer token required; trust is the code plus a matching email.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.AcceptInviteRequest	true	"Accept request"
//	@Success		200		{object}	collabsdk.AcceptInviteResponse	"success, role, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	role, err := h.InviteService.AcceptInvite(ctx, req.InviteCode, req.UserID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAcceptRequest):
			writeError(w, collabsdk.CodeInvalidArgument, "Missing invite code, user id, or email.")
		case errors.Is(err, service.ErrInviteNotFound):
			writeError(w, collabsdk.CodeNotFound, "Invalid, expired, or already used invite code.")
		case errors.Is(err, service.ErrInviteEmailMismatch):
			writeError(w, collabsdk.CodePermissionDenied, "Invite code is not associated with this email address.")
		default:
			log.Error("failed to accept invite", "err", err)
			writeInternal(w, "An internal error occurred while processing the invite.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.AcceptInviteResponse{
		Success: true,
		Role:    role.String(),
		Message: "Invite accepted successfully. User role assigned.",
	})
}
