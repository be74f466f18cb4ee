package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type WorksiteResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id"`
	CreatedAt   string `json:"created_at"`
}

type CreateWorksiteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id"`
}

type UpdateWorksiteRequest struct {
	Description *string `json:"description,omitempty"`
}

type ZoneResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FeedURI     string `json:"feed_uri,omitempty"`
	WorksiteID  string `json:"worksite_id"`
	ProjectID   string `json:"project_id"`
	CreatedAt   string `json:"created_at"`
}

type CreateZoneRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FeedURI     string `json:"feed_uri,omitempty"`
	WorksiteID  string `json:"worksite_id"`
}

type UpdateZoneRequest struct {
	Description *string `json:"description,omitempty"`
	FeedURI     *string `json:"feed_uri,omitempty"`
}
