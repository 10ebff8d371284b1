package types

// APIResponse is the standard envelope returned by every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a stable machine-readable code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope with a code and message.
func NewErrorResponse(code, message string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails builds an error envelope carrying extra context.
func NewErrorResponseWithDetails(code, message string, details map[string]interface{}) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Error codes. FETCH_FAILED and SAVE_FAILED map to document-store read and
// write errors, DUPLICATE_NAME to a property rename collision, and
// RELAY_UNAVAILABLE to an assistant upstream failure.
const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeUnauthorized     = "UNAUTHORIZED"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeInvalidToken     = "INVALID_TOKEN"
	ErrorCodeInvalidRequest   = "INVALID_REQUEST"
	ErrorCodeFetchFailed      = "FETCH_FAILED"
	ErrorCodeSaveFailed       = "SAVE_FAILED"
	ErrorCodeDuplicateName    = "DUPLICATE_NAME"
	ErrorCodeRelayUnavailable = "RELAY_UNAVAILABLE"
)
