// Package openapi projects registered routes into an OpenAPI 3.0 document.
//
// The document is built entirely from the router's route metadata: path
// patterns (":id" becomes "{id}"), summaries, tags, and the Request/Response
// samples attached to route declarations. Generation never touches the
// routing trie and has no effect on dispatch.
package openapi
