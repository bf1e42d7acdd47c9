package validator

import (
	"errors"
	"strings"
)

// ValidationError describes a single failed rule on a single field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field errors collected during a single
// ValidateStruct pass. It implements the error interface so callers can
// propagate it like any other error and recover the per-field details later.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsEmpty reports whether no errors were collected.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Add appends a field error.
func (e *ValidationErrors) Add(err ValidationError) {
	*e = append(*e, err)
}

// Fields returns the errors as a field→message map, suitable for embedding
// in an error response payload. Later rules on the same field do not
// overwrite earlier ones.
func (e ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = fe.Message
		}
	}
	return fields
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err,
// or nil if err does not carry any.
func ExtractValidationErrors(err error) ValidationErrors {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
