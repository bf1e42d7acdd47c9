package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
)

// Form returns a binder for application/x-www-form-urlencoded and
// multipart/form-data request bodies.
//
// Supported struct tags:
//   - `form:"name"` binds to form field "name" (`form:"-"` skips)
//   - `file:"name"` binds uploaded file metadata; the field must be
//     *multipart.FileHeader or []*multipart.FileHeader
//
// Fields without a tag bind by their lowercased name.
func Form() Binder {
	return func(r *http.Request, v any) error {
		switch mediaType(r) {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return errFormParse(err)
			}
			return BindValues(v, "form", r.PostForm, ErrFailedToParseForm)

		case "multipart/form-data":
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return errFormParse(err)
			}
			if err := BindValues(v, "form", r.MultipartForm.Value, ErrFailedToParseForm); err != nil {
				return err
			}
			return bindFiles(v, r.MultipartForm.File)

		default:
			return fmt.Errorf("%w: expected form media type", ErrUnsupportedMediaType)
		}
	}
}

var (
	fileHeaderType      = reflect.TypeOf((*multipart.FileHeader)(nil))
	fileHeaderSliceType = reflect.TypeOf([]*multipart.FileHeader(nil))
)

// bindFiles assigns uploaded file headers to `file`-tagged struct fields.
func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", ErrFailedToParseForm)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		tag, ok := sf.Tag.Lookup("file")
		if !ok || tag == "-" {
			continue
		}

		headers := files[tag]
		if len(headers) == 0 {
			continue
		}

		switch sf.Type {
		case fileHeaderType:
			field.Set(reflect.ValueOf(headers[0]))
		case fileHeaderSliceType:
			field.Set(reflect.ValueOf(headers))
		default:
			return fmt.Errorf("%w: field %s must be *multipart.FileHeader or []*multipart.FileHeader", ErrFailedToParseForm, sf.Name)
		}
	}

	return nil
}
