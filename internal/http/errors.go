package http

import (
	"net/http"

	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/httpx"
)

// statusFor maps the five stable error codes to HTTP statuses.
func statusFor(code string) int {
	switch code {
	case collabsdk.CodeUnauthenticated:
		return http.StatusUnauthorized
	case collabsdk.CodeInvalidArgument:
		return http.StatusBadRequest
	case collabsdk.CodePermissionDenied:
		return http.StatusForbidden
	case collabsdk.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError emits a tagged error response. Every handler failure path
// funnels through here so clients only ever see the five codes.
func writeError(w http.ResponseWriter, code, description string) {
	httpx.WriteJSON(w, statusFor(code), collabsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// writeInternal hides the underlying failure from the client.
func writeInternal(w http.ResponseWriter, description string) {
	writeError(w, collabsdk.CodeInternal, description)
}
