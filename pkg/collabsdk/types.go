package collabsdk

// ErrorResponse is the wire shape of every error the service emits.
// Error carries one of the five stable codes: unauthenticated,
// invalid-argument, permission-denied, not-found, internal.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateInviteResponse struct {
	Success    bool   `json:"success"`
	InviteCode string `json:"invite_code"`
	ExpiresAt  string `json:"expires_at,omitempty"` // RFC3339, absent when the invite never expires
	Message    string `json:"message"`
}

type AcceptInviteRequest struct {
	InviteCode string `json:"invite_code"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
}

type AcceptInviteResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

type CreateProjectResponse struct {
	Success   bool   `json:"success"`
	ProjectID string `json:"project_id"`
	Message   string `json:"message"`
}

// Project is the wire representation of a project. Timestamps are
// RFC3339 strings.
type Project struct {
	ProjectID   string   `json:"project_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type ListProjectsResponse struct {
	Success  bool      `json:"success"`
	Projects []Project `json:"projects"`
	Message  string    `json:"message"`
}

// ProjectUpdates is the updatable subset of a project. The project id,
// creator and creation time have no fields here, so an update payload
// cannot carry them.
type ProjectUpdates struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Members     []string `json:"members,omitempty"`
}

type UpdateProjectRequest struct {
	Updates ProjectUpdates `json:"updates"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type TokenRequest struct {
	GrantType string `json:"grant_type"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type MeResponse struct {
	UserID           string   `json:"user_id"`
	Email            string   `json:"email"`
	DisplayName      string   `json:"display_name"`
	Role             string   `json:"role"`
	Onboarded        bool     `json:"onboarded"`
	AssignedProjects []string `json:"assigned_projects"`
	CreatedAt        string   `json:"created_at"`
}

type BootstrapRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type BootstrapResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
