package binder

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Binder binds HTTP request data to a Go value. It provides a unified
// interface for extracting and mapping data from different parts of a
// request (JSON body, form data, query parameters) into typed structs.
type Binder func(r *http.Request, v any) error

// DefaultMaxBodySize caps request bodies read by the binders (1MB).
const DefaultMaxBodySize = 1 << 20

// DefaultMaxMemory is the in-memory budget for multipart parsing (10MB).
const DefaultMaxMemory = 10 << 20

// MultipartBody holds the parsed content of a multipart/form-data request:
// regular field values plus uploaded file metadata. File contents are not
// read; open the headers on demand.
type MultipartBody struct {
	Values url.Values
	Files  map[string][]*multipart.FileHeader
}

// Body returns a binder that decodes the request body into v based on the
// Content-Type header. application/json and form media types are supported;
// anything else yields ErrUnsupportedMediaType.
func Body() Binder {
	jsonBind := JSON()
	formBind := Form()
	return func(r *http.Request, v any) error {
		switch mediaType(r) {
		case "application/json", "":
			return jsonBind(r, v)
		case "application/x-www-form-urlencoded", "multipart/form-data":
			return formBind(r, v)
		default:
			return ErrUnsupportedMediaType
		}
	}
}

// ParseAny parses the request body into an untyped value keyed on the
// Content-Type header:
//
//   - application/json → any (map, slice, or scalar)
//   - application/x-www-form-urlencoded → url.Values
//   - multipart/form-data → *MultipartBody with file metadata preserved
//   - text/plain → string
//   - anything else → best-effort JSON, falling back to the raw string
//
// An empty body parses to nil.
func ParseAny(r *http.Request) (any, error) {
	switch mediaType(r) {
	case "application/json":
		raw, err := readBody(r)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		return decodeJSONAny(raw)

	case "application/x-www-form-urlencoded":
		raw, err := readBody(r)
		if err != nil {
			return nil, err
		}
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, errFormParse(err)
		}
		return values, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return nil, errFormParse(err)
		}
		body := &MultipartBody{Values: r.MultipartForm.Value, Files: r.MultipartForm.File}
		return body, nil

	case "text/plain":
		raw, err := readBody(r)
		if err != nil {
			return nil, err
		}
		return string(raw), nil

	default:
		raw, err := readBody(r)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		if v, err := decodeJSONAny(raw); err == nil {
			return v, nil
		}
		return string(raw), nil
	}
}

// mediaType returns the request's media type with parameters stripped,
// or "" when the header is missing or malformed.
func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// Fall back to a manual strip so a sloppy header still routes.
		if idx := strings.Index(ct, ";"); idx != -1 {
			return strings.TrimSpace(strings.ToLower(ct[:idx]))
		}
		return strings.TrimSpace(strings.ToLower(ct))
	}
	return mt
}

// readBody reads the whole body enforcing the size cap. Reading one byte
// past the limit distinguishes "exactly at the cap" from "over it".
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxBodySize+1))
	if err != nil {
		return nil, errBodyRead(err)
	}
	if len(raw) > DefaultMaxBodySize {
		return nil, ErrBodyTooLarge
	}
	return raw, nil
}
