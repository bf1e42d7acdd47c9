// Package response defines the error taxonomy and the JSON error envelope.
//
// Handlers return predefined HTTPError values, customized as needed:
//
//	return response.ErrConflict.WithMessage("email already registered")
//
// The boundary error handler produced by JSONErrorHandler maps every error
// reaching it (HTTPError, validation failures, decode failures, routing
// sentinels, unknown errors) into a stable envelope:
//
//	{
//	  "success": false,
//	  "error": {
//	    "status": 422,
//	    "code": "validation_failed",
//	    "message": "validation failed",
//	    "details": {"fields": {"email": "invalid email format"}},
//	    "timestamp": "2025-01-02T15:04:05Z"
//	  }
//	}
//
// In production mode internal (5xx) messages are replaced by the generic
// status text so implementation details never leak to clients.
package response
