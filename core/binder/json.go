package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// JSON returns a binder that decodes an application/json request body into v.
// A missing Content-Type header is tolerated; any other media type is
// rejected with ErrUnsupportedMediaType. Trailing data after the JSON value
// is rejected.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if mt := mediaType(r); mt != "" && mt != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mt)
		}

		raw, err := readBody(r)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		// Anything after the first JSON value means a malformed request.
		if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}

		return nil
	}
}

func decodeJSONAny(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}
	return v, nil
}
