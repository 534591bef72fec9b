package dto

// APIResponse is the standard response envelope. Either Data or Error is
// set, never both.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success message body
type SuccessResponse struct {
	Message string `json:"message"`
}
