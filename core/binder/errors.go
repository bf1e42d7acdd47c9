package binder

import (
	"errors"
	"fmt"
)

// Error variables define common binding failures that occur during request
// processing. Callers can match them with errors.Is.
var (
	// ErrUnsupportedMediaType indicates the Content-Type header specifies a
	// media type the binder doesn't support.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON indicates the request body contains invalid JSON
	// or doesn't match the target struct schema.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrFailedToParseForm indicates form data parsing failed due to
	// malformed multipart boundaries or invalid URL-encoded data.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrFailedToParseQuery indicates query parameter binding failed,
	// typically due to type conversion errors.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToReadBody indicates the request body could not be read.
	ErrFailedToReadBody = errors.New("failed to read request body")

	// ErrBodyTooLarge indicates the request body exceeds DefaultMaxBodySize.
	ErrBodyTooLarge = errors.New("request body too large")
)

func errBodyRead(err error) error {
	return fmt.Errorf("%w: %v", ErrFailedToReadBody, err)
}

func errFormParse(err error) error {
	return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
}
