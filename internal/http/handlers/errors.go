// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them, not on
// messages. Every non-2xx response carries exactly one.
//
//	{
//	  "requestId": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_failed",
//	  "message": "request failed validation",
//	  "details": [{"field": "servings", "message": "must be greater than 0"}]
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// ErrCodeValidation accompanies a details list of field errors.
	ErrCodeValidation = "validation_failed"
	// ErrCodeTimeout means the request ran out of time inside the API.
	ErrCodeTimeout = "timeout"
	// ErrCodeUpstream means a supermarket search failed on the retailer side.
	ErrCodeUpstream = "upstream_error"
	// ErrCodeUpstreamTimeout means the retailer did not answer in time.
	ErrCodeUpstreamTimeout = "upstream_timeout"
)
