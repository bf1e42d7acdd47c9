package openapi

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/restkit/core/router"
)

// Info describes the API for the document header.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Document is an OpenAPI 3.0 description built from the router's route
// projection. It is assembled on demand and never consulted for request
// dispatch.
type Document struct {
	OpenAPI string                          `json:"openapi"`
	Info    Info                            `json:"info"`
	Paths   map[string]map[string]Operation `json:"paths"`
}

// Operation describes a single method on a path.
type Operation struct {
	OperationID string                  `json:"operationId,omitempty"`
	Summary     string                  `json:"summary,omitempty"`
	Description string                  `json:"description,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Parameters  []Parameter             `json:"parameters,omitempty"`
	RequestBody *RequestBody            `json:"requestBody,omitempty"`
	Responses   map[string]ResponseSpec `json:"responses"`
}

// Parameter describes a path parameter.
type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema,omitempty"`
}

// RequestBody describes the expected request payload.
type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

// ResponseSpec describes one response status.
type ResponseSpec struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType wraps a schema under a content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Generate builds the OpenAPI document from the registered routes.
func Generate(info Info, routes []router.RouteInfo) Document {
	doc := Document{
		OpenAPI: "3.0.3",
		Info:    info,
		Paths:   map[string]map[string]Operation{},
	}

	for _, rt := range routes {
		path := toOpenAPIPath(rt.Pattern)
		if doc.Paths[path] == nil {
			doc.Paths[path] = map[string]Operation{}
		}
		doc.Paths[path][strings.ToLower(rt.Method)] = buildOperation(rt)
	}

	return doc
}

func buildOperation(rt router.RouteInfo) Operation {
	op := Operation{
		OperationID: operationID(rt),
		Summary:     rt.Summary,
		Description: rt.Description,
		Tags:        rt.Tags,
		Responses:   map[string]ResponseSpec{},
	}

	for _, name := range patternParams(rt.Pattern) {
		op.Parameters = append(op.Parameters, Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string"},
		})
	}

	if rt.Request != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: SchemaOf(rt.Request)},
			},
		}
	}

	if rt.Response != nil {
		op.Responses["200"] = ResponseSpec{
			Description: http.StatusText(http.StatusOK),
			Content: map[string]MediaType{
				"application/json": {Schema: SchemaOf(rt.Response)},
			},
		}
	} else {
		op.Responses["204"] = ResponseSpec{Description: http.StatusText(http.StatusNoContent)}
	}

	return op
}

// toOpenAPIPath rewrites ":name" segments to "{name}" and the wildcard to
// "{path}".
func toOpenAPIPath(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			segments[i] = "{" + seg[1:] + "}"
		case seg == "*":
			segments[i] = "{path}"
		}
	}
	return strings.Join(segments, "/")
}

func patternParams(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		switch {
		case strings.HasPrefix(seg, ":"):
			names = append(names, seg[1:])
		case seg == "*":
			names = append(names, "path")
		}
	}
	return names
}

func operationID(rt router.RouteInfo) string {
	if rt.Handler == "" {
		return ""
	}
	if rt.Controller == "" {
		return rt.Handler
	}
	return strings.Trim(rt.Controller, "/") + "." + rt.Handler
}
