package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// IDResponse is the envelope for mutations that return an entity id.
type IDResponse struct {
	ID uint `json:"id"`
}
