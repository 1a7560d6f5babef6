package api

// ErrorResponse is the uniform error body for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// MessageResponse acknowledges operations that return no entity.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
