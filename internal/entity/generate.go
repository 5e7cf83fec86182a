package entity

// GenerateRequest is the body of the template generation endpoints.
type GenerateRequest struct {
	Prompt  string         `json:"prompt" validate:"required,min=1,max=4000"`
	Options map[string]any `json:"options,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	AppName string `json:"app_name"`
	Version string `json:"version"`
	Model   string `json:"model"`
}
