package binder

import "net/http"

// Query returns a binder that maps URL query parameters into a struct.
//
// Supported struct tags:
//   - `query:"name"` binds to parameter "name"
//   - `query:"-"` skips the field
//
// Supported field types: string, signed/unsigned integers, floats, bool,
// slices of those for multi-value parameters, and pointers for optional
// fields. Untagged fields bind by their lowercased name.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return BindValues(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
