package router

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"github.com/dmitrymomot/restkit/core/binder"
	"github.com/dmitrymomot/restkit/core/validator"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	contextType   = reflect.TypeOf((*Context)(nil))
	urlValuesType = reflect.TypeOf(url.Values(nil))
	headerType    = reflect.TypeOf(http.Header(nil))
	stringMapType = reflect.TypeOf(map[string]string(nil))
)

// invoker calls a route handler through reflection. The handler shape is
// validated once at registration so that a bad signature fails at startup,
// not on the first request.
type invoker struct {
	fn         reflect.Value
	bindings   []Binding
	paramTypes []reflect.Type
	valueIndex int
	errIndex   int
}

func newInvoker(rt Route) (*invoker, error) {
	if rt.Handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", ErrInvalidHandler)
	}
	fn := reflect.ValueOf(rt.Handler)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: handler must be a function, got %T", ErrInvalidHandler, rt.Handler)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic handlers are not supported", ErrInvalidHandler)
	}

	in := &invoker{fn: fn, bindings: rt.Params, valueIndex: -1, errIndex: -1}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0).Implements(errorType) {
			in.errIndex = 0
		} else {
			in.valueIndex = 0
		}
	case 2:
		if !ft.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("%w: second return value must be error", ErrInvalidHandler)
		}
		in.valueIndex, in.errIndex = 0, 1
	default:
		return nil, fmt.Errorf("%w: handlers return at most (value, error)", ErrInvalidHandler)
	}

	if len(rt.Params) > ft.NumIn() {
		return nil, fmt.Errorf("%w: %d bindings for %d handler parameters", ErrInvalidBinding, len(rt.Params), ft.NumIn())
	}

	in.paramTypes = make([]reflect.Type, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		in.paramTypes[i] = ft.In(i)
	}

	for i, b := range rt.Params {
		pt := in.paramTypes[i]
		switch b.Source {
		case SourceContext:
			if !contextType.AssignableTo(pt) {
				return nil, fmt.Errorf("%w: parameter %d cannot receive *Context", ErrInvalidBinding, i)
			}
		case SourceCustom:
			if b.Extract == nil {
				return nil, fmt.Errorf("%w: custom binding at parameter %d has no extractor", ErrInvalidBinding, i)
			}
		}
	}

	return in, nil
}

// call resolves handler arguments from the request, invokes the handler, and
// converts its result into a Response. Any resolution or validation failure
// aborts before the handler runs.
func (in *invoker) call(ctx *Context) (Response, error) {
	args := make([]reflect.Value, len(in.paramTypes))
	for i, pt := range in.paramTypes {
		var b Binding
		if i < len(in.bindings) {
			b = in.bindings[i]
		}
		v, err := resolveArg(ctx, b, pt)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out := in.fn.Call(args)

	if in.errIndex >= 0 && !out[in.errIndex].IsNil() {
		return nil, out[in.errIndex].Interface().(error)
	}
	if in.valueIndex < 0 {
		return ctx.NoContent(), nil
	}
	return convertResult(ctx, out[in.valueIndex].Interface())
}

// convertResult maps a handler return value to a Response: a Response passes
// through untouched, nil renders no content, a string renders text, and
// everything else renders JSON. The context status override applies in all
// cases.
func convertResult(ctx *Context, v any) (Response, error) {
	if isNilValue(v) {
		return ctx.NoContent(), nil
	}
	switch r := v.(type) {
	case Response:
		return r, nil
	case string:
		return ctx.String(r), nil
	default:
		return ctx.JSON(r), nil
	}
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func resolveArg(ctx *Context, b Binding, pt reflect.Type) (reflect.Value, error) {
	v, err := resolveValue(ctx, b, pt)
	if err != nil {
		return reflect.Value{}, err
	}

	if b.Validated {
		if err := validateValue(v); err != nil {
			return reflect.Value{}, err
		}
	}
	if b.Transform != nil {
		if v, err = b.Transform(v); err != nil {
			return reflect.Value{}, err
		}
	}

	return assignTo(v, pt)
}

func resolveValue(ctx *Context, b Binding, pt reflect.Type) (any, error) {
	switch b.Source {
	case SourceNone:
		return nil, nil

	case SourceContext:
		return ctx, nil

	case SourceBody:
		return resolveBody(ctx, pt)

	case SourceQuery:
		if b.Key != "" {
			return convertScalar(ctx.Query(b.Key), pt, binder.ErrFailedToParseQuery)
		}
		if pt == urlValuesType {
			return ctx.QueryValues(), nil
		}
		return bindStruct(pt, "query", ctx.QueryValues(), binder.ErrFailedToParseQuery)

	case SourcePath:
		if b.Key != "" {
			return convertScalar(ctx.Param(b.Key), pt, binder.ErrFailedToParseQuery)
		}
		if pt == stringMapType {
			return ctx.Params(), nil
		}
		return bindStruct(pt, "path", singleValues(ctx.Params()), binder.ErrFailedToParseQuery)

	case SourceHeader:
		if b.Key != "" {
			return convertScalar(ctx.Header(b.Key), pt, binder.ErrFailedToParseQuery)
		}
		if pt == headerType {
			return ctx.Headers(), nil
		}
		return bindStruct(pt, "header", ctx.Headers(), binder.ErrFailedToParseQuery)

	case SourcePrincipal:
		return ctx.Principal(), nil

	case SourceCustom:
		return b.Extract(ctx)

	default:
		return nil, fmt.Errorf("%w: unknown source %d", ErrInvalidBinding, b.Source)
	}
}

// resolveBody decodes the request body for a body binding. Struct-typed
// parameters get a typed decode through the content-type binder; anything
// else receives the raw parsed body.
func resolveBody(ctx *Context, pt reflect.Type) (any, error) {
	target := pt
	ptr := false
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
		ptr = true
	}

	if target.Kind() == reflect.Struct {
		switch ctx.Method() {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return nil, nil
		}
		dst := reflect.New(target)
		if err := binder.Body()(ctx.Request(), dst.Interface()); err != nil {
			return nil, err
		}
		if ptr {
			return dst.Interface(), nil
		}
		return dst.Elem().Interface(), nil
	}

	return ctx.Body()
}

// convertScalar converts a single request value to the handler parameter
// type. Missing values resolve to nil, which assigns the zero value.
func convertScalar(value string, pt reflect.Type, bindErr error) (any, error) {
	if value == "" {
		return nil, nil
	}
	if pt.Kind() == reflect.Interface || pt.Kind() == reflect.String {
		return value, nil
	}
	v, err := binder.Convert(value, pt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bindErr, err)
	}
	return v, nil
}

func bindStruct(pt reflect.Type, tag string, values map[string][]string, bindErr error) (any, error) {
	target := pt
	ptr := false
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
		ptr = true
	}
	if target.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: parameter type %s cannot receive %s values", ErrInvalidBinding, pt, tag)
	}

	dst := reflect.New(target)
	if err := binder.BindValues(dst.Interface(), tag, values, bindErr); err != nil {
		return nil, err
	}
	if ptr {
		return dst.Interface(), nil
	}
	return dst.Elem().Interface(), nil
}

func singleValues(m map[string]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = []string{v}
	}
	return out
}

// validateValue runs struct validation on struct and pointer-to-struct
// values; scalars pass through unchecked.
func validateValue(v any) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validator.ValidateStruct(rv.Interface())
}

// assignTo converts a resolved value into a reflect.Value assignable to the
// handler parameter type.
func assignTo(v any, pt reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(pt), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(pt) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(pt) && pt.Kind() != reflect.String {
		return rv.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot assign %s to parameter type %s", ErrInvalidBinding, rv.Type(), pt)
}
