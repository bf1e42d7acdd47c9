package router

import (
	"fmt"
	"strings"
)

// node is a segment of the routing trie. Each node holds its static children
// by literal segment, at most one parameter child (":name" patterns), at most
// one wildcard child ("*" patterns), and the routes terminating at this node
// keyed by HTTP method.
type node struct {
	static   map[string]*node
	param    *node
	paramKey string
	wildcard *node
	routes   map[string]*CompiledRoute
}

func newNode() *node {
	return &node{
		static: make(map[string]*node),
		routes: make(map[string]*CompiledRoute),
	}
}

// insert registers rt under the given pattern segments and returns the route
// it displaced for the same method, if any.
func (n *node) insert(method string, segments []string, rt *CompiledRoute) (*CompiledRoute, error) {
	cur := n
	for i, seg := range segments {
		switch {
		case seg == "*":
			if i != len(segments)-1 {
				return nil, fmt.Errorf("%w: wildcard must be the last segment", ErrInvalidPattern)
			}
			if cur.wildcard == nil {
				cur.wildcard = newNode()
			}
			cur = cur.wildcard

		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: parameter segment must be named", ErrInvalidPattern)
			}
			if cur.param == nil {
				cur.param = newNode()
				cur.paramKey = name
			} else if cur.paramKey != name {
				return nil, fmt.Errorf("%w: %q vs %q", ErrParamConflict, cur.paramKey, name)
			}
			cur = cur.param

		default:
			child, ok := cur.static[seg]
			if !ok {
				child = newNode()
				cur.static[seg] = child
			}
			cur = child
		}
	}

	prev := cur.routes[method]
	cur.routes[method] = rt
	return prev, nil
}

// lookup walks the trie for the given path segments and returns the first
// route-bearing terminal node, binding path parameters into params.
//
// At every node the candidates are tried in fixed precedence: an exact static
// child first, then the parameter child, then the wildcard. A dead end in one
// branch backtracks into the next candidate, restoring any parameter value
// the failed branch had bound. The wildcard consumes the entire remaining
// path under the key "*" and requires at least one remaining segment.
func (n *node) lookup(segments []string, params map[string]string) *node {
	if len(segments) == 0 {
		if len(n.routes) > 0 {
			return n
		}
		return nil
	}

	seg, rest := segments[0], segments[1:]

	if child, ok := n.static[seg]; ok {
		if m := child.lookup(rest, params); m != nil {
			return m
		}
	}

	if n.param != nil {
		prev, had := params[n.paramKey]
		params[n.paramKey] = seg
		if m := n.param.lookup(rest, params); m != nil {
			return m
		}
		if had {
			params[n.paramKey] = prev
		} else {
			delete(params, n.paramKey)
		}
	}

	if n.wildcard != nil && len(n.wildcard.routes) > 0 {
		params["*"] = strings.Join(segments, "/")
		return n.wildcard
	}

	return nil
}

// normalizePath collapses duplicate slashes, guarantees a single leading
// slash, and strips the trailing slash so that "/users/", "users" and
// "//users" all address the same route.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}

	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			if !prevSlash {
				b.WriteByte('/')
			}
			prevSlash = true
			continue
		}
		b.WriteByte(p[i])
		prevSlash = false
	}

	out := b.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return out
}

// splitPath returns the segments of a normalized path. The root path has no
// segments.
func splitPath(p string) []string {
	p = normalizePath(p)
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}

// joinPaths concatenates pattern fragments (router prefix, controller prefix,
// route path) into one normalized pattern.
func joinPaths(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(part)
	}
	return normalizePath(b.String())
}
