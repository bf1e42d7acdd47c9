// Package validator provides struct tag-based validation with a pluggable
// rule registry and detailed per-field error reporting.
//
// Rules are declared in a `validate` tag, separated by semicolons, with
// parameters after a colon:
//
//	type CreateUserRequest struct {
//		Name  string `json:"name" validate:"required;min:2;max:50"`
//		Email string `json:"email" validate:"required;email"`
//		Role  string `json:"role" validate:"in:admin,member,viewer"`
//	}
//
//	if err := validator.ValidateStruct(&req); err != nil {
//		for _, fe := range validator.ExtractValidationErrors(err) {
//			fmt.Printf("%s: %s\n", fe.Field, fe.Message)
//		}
//	}
//
// All rules except `required` treat an empty string as passing, so optional
// fields validate only when present. Custom rules can be added with
// RegisterValidator.
package validator
