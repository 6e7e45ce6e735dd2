package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Response Types ---

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"no model provider configured"`
}

// ReadinessResponse represents a readiness check response.
type ReadinessResponse struct {
	Status    string   `json:"status" example:"ok"`
	Providers []string `json:"providers" example:"gemini,claude"`
}

// NoDataResponseBody is returned with 422 when no document produced a table.
// Data still carries the per-document outcomes.
type NoDataResponseBody struct {
	Success bool        `json:"success" example:"false"`
	Data    interface{} `json:"data"`
	Error   *APIError   `json:"error"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
