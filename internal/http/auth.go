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

type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Self-service account creation with the base User role. Accounts start un-onboarded until an invite is accepted.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.RegisterRequest	true	"Registration request"
//	@Success		200		{object}	collabsdk.RegisterResponse	"success, user_id, message"
//	@Failure		400		{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	user, err := h.UserService.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRegistration):
			writeError(w, collabsdk.CodeInvalidArgument, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, collabsdk.CodeInvalidArgument, "Email is already registered.")
		default:
			log.Error("failed to register user", "err", err)
			writeInternal(w, "An internal error occurred while registering.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.RegisterResponse{
		Success: true,
		UserID:  user.ID,
		Message: "Account created successfully.",
	})
}

type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Password grant: exchange email and password for a signed access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.TokenRequest	true	"Grant request"
//	@Success		200		{object}	collabsdk.TokenResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	collabsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req collabsdk.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, collabsdk.CodeInvalidArgument, "Invalid JSON body")
		return
	}

	if req.GrantType != "password" {
		writeError(w, collabsdk.CodeInvalidArgument, "Unsupported grant_type; only 'password' is available.")
		return
	}

	token, err := h.TokenService.ExchangePassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, collabsdk.CodeUnauthenticated, "Invalid email or password.")
			return
		}
		log.Error("failed to exchange password", "err", err)
		writeInternal(w, "An internal error occurred while issuing the token.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	})
}
