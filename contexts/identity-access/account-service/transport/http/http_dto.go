package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization,omitempty"`
}

type AccountResponse struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Organization string   `json:"organization,omitempty"`
	IsActive     bool     `json:"is_active"`
	IsSuperuser  bool     `json:"is_superuser"`
	ProjectIDs   []string `json:"project_ids"`
	WorksiteIDs  []string `json:"worksite_ids"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UpdateAccountRequest struct {
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	Organization *string `json:"organization,omitempty"`
}

type SetRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SetRoleResponse struct {
	Changed bool `json:"changed"`
}

type SetAccessRequest struct {
	UserID       string   `json:"user_id"`
	ResourceType string   `json:"resource_type"`
	ResourceIDs  []string `json:"resource_ids"`
	Access       string   `json:"access"`
}
