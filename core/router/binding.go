package router

// Source identifies where a bound handler parameter comes from.
type Source uint8

const (
	// SourceNone produces the parameter's zero value.
	SourceNone Source = iota
	// SourceContext injects the request *Context itself.
	SourceContext
	// SourceBody decodes the request body.
	SourceBody
	// SourceQuery reads query parameters.
	SourceQuery
	// SourcePath reads bound path parameters.
	SourcePath
	// SourceHeader reads request headers.
	SourceHeader
	// SourcePrincipal injects the authenticated principal.
	SourcePrincipal
	// SourceCustom runs a user-supplied extractor.
	SourceCustom
)

// Binding declares how one handler parameter is resolved from the request.
// Bindings map to handler parameters positionally: the first binding feeds
// the first parameter, and parameters beyond the declared bindings receive
// zero values.
type Binding struct {
	Source Source

	// Key selects a single named value (query parameter, path parameter,
	// header). Empty means "everything": the whole query set, all path
	// parameters, the full header map, or the entire decoded body.
	Key string

	// Validated runs struct validation on the resolved value before the
	// handler is invoked. A failure aborts the request with the collected
	// field errors.
	Validated bool

	// Transform post-processes the resolved (and validated) value.
	Transform func(v any) (any, error)

	// Extract resolves the value for SourceCustom bindings.
	Extract func(ctx *Context) (any, error)
}

// Ctx binds the request *Context.
func Ctx() Binding { return Binding{Source: SourceContext} }

// Body binds the decoded request body. With a struct-typed handler parameter
// the body is decoded directly into the struct; with an untyped parameter the
// raw parsed body is passed through.
func Body() Binding { return Binding{Source: SourceBody} }

// Query binds a query parameter by name, converted to the handler parameter
// type. Query("") binds the whole query set, either as url.Values or decoded
// into a `query`-tagged struct.
func Query(name string) Binding { return Binding{Source: SourceQuery, Key: name} }

// Path binds a path parameter by name, converted to the handler parameter
// type. Path("") binds all path parameters as map[string]string.
func Path(name string) Binding { return Binding{Source: SourcePath, Key: name} }

// Header binds a request header by name. Header("") binds the full
// http.Header map.
func Header(name string) Binding { return Binding{Source: SourceHeader, Key: name} }

// Principal binds the authenticated principal set by auth middleware. The
// parameter receives its zero value for anonymous requests.
func Principal() Binding { return Binding{Source: SourcePrincipal} }

// Custom binds the result of fn.
func Custom(fn func(ctx *Context) (any, error)) Binding {
	return Binding{Source: SourceCustom, Extract: fn}
}

// WithValidation returns a copy of the binding with struct validation
// enabled.
func (b Binding) WithValidation() Binding {
	b.Validated = true
	return b
}

// WithTransform returns a copy of the binding with a post-processing step.
func (b Binding) WithTransform(fn func(v any) (any, error)) Binding {
	b.Transform = fn
	return b
}
