package handler

// ErrorResponse is the common error payload
type ErrorResponse struct {
	Error string `json:"error"`
}
