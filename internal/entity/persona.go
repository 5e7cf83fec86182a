package entity

// Metadata types accepted by the persona indexing endpoint.
var MetadataTypes = []string{"form", "view", "entity", "projection", "relationship", "workflow"}

// PersonaRequest asks the persona agent to resolve a natural-language
// request against indexed metadata and data.
type PersonaRequest struct {
	UserRequest string         `json:"user_request" validate:"required,min=1,max=4000"`
	Context     map[string]any `json:"context,omitempty"`
}

// FormViewResolution names the form or view a user request resolves to.
type FormViewResolution struct {
	Type      string `json:"type"` // "form" or "view"
	ID        string `json:"id"`
	Name      string `json:"name"`
	Operation string `json:"operation"` // create, read, update, delete
}

// DataChange is a suggested modification to an existing record.
type DataChange struct {
	Field          string `json:"field"`
	CurrentValue   any    `json:"current_value,omitempty"`
	SuggestedValue any    `json:"suggested_value"`
	Reason         string `json:"reason,omitempty"`
}

// PersonaResponse is the persona agent's resolution of a user request.
type PersonaResponse struct {
	Resolution       FormViewResolution `json:"resolution"`
	ExistingData     map[string]any     `json:"existing_data,omitempty"`
	SuggestedChanges []DataChange       `json:"suggested_changes"`
	Explanation      string             `json:"explanation"`
}

// MetadataIndexRequest stores a metadata document in the metadata index.
type MetadataIndexRequest struct {
	Metadata     map[string]any `json:"metadata" validate:"required"`
	MetadataType string         `json:"metadata_type" validate:"required,oneof=form view entity projection relationship workflow"`
}

// MetadataIndexResponse reports the result of metadata indexing.
type MetadataIndexResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	MetadataID string `json:"metadata_id"`
}

// DataIndexRequest stores a data record in the data index.
type DataIndexRequest struct {
	Data       map[string]any `json:"data" validate:"required"`
	EntityType string         `json:"entity_type" validate:"required,min=1"`
}

// DataIndexResponse reports the result of data indexing.
type DataIndexResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DataID  string `json:"data_id"`
}

// MetadataTypesResponse lists the metadata types the index accepts.
type MetadataTypesResponse struct {
	Types []string `json:"types"`
}
