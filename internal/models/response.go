package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ModelListResponse lists the registered forecast models
type ModelListResponse struct {
	Models []string `json:"models"`
}

// RatiosResponse holds one ratio map per submitted statement.
// A ratio whose inputs are missing is omitted; an undefined ratio is null.
type RatiosResponse struct {
	Results []map[string]*float64 `json:"results"`
}

// JobAcceptedResponse is returned when a job is queued
type JobAcceptedResponse struct {
	JobID     string `json:"job_id"`
	State     string `json:"state"`
	StatusURL string `json:"status_url"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
