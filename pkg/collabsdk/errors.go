package collabsdk

import "fmt"

// Stable error codes shared between server and client.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidArgument  = "invalid-argument"
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeInternal         = "internal"
)

// APIError is the typed error returned by the client for any non-2xx
// response. Callers branch on Code, never on the description text.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("collabsdk: %s (%d): %s", e.Code, e.StatusCode, e.Description)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}
