// Package binder extracts and maps HTTP request data into Go values.
//
// Typed binding decodes into tagged structs:
//
//	type SearchRequest struct {
//		Query string   `query:"q"`
//		Page  int      `query:"page"`
//		Tags  []string `query:"tags"`
//	}
//
//	var req SearchRequest
//	if err := binder.Query()(r, &req); err != nil { ... }
//
// Body binding selects a decoder by Content-Type (JSON or form), and
// ParseAny produces an untyped value for handlers that want the raw parsed
// body: JSON documents, url.Values for forms, *MultipartBody with file
// metadata for multipart uploads, and plain strings for text.
package binder
