package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the wire representation of a single error
type ErrorDetail struct {
	Display       string                 `json:"display,omitempty"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope returned by the API
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the wire representation for an error. The display
// message prefers the hint when one was attached; the raw error string is
// always included under internal_error for debugging.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display:       err.Error(),
			InternalError: err.Error(),
		},
	}

	var ierr *InternalError
	if errors.As(err, &ierr) {
		if ierr.Hint() != "" {
			resp.Error.Display = ierr.Hint()
		}
		resp.Error.Details = ierr.ReportableDetails()
	}

	return resp
}

// HTTPStatusFromErr maps a marked error to an HTTP status code
func HTTPStatusFromErr(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusForbidden
	case IsInvalidOperation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
