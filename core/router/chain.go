package router

import "fmt"

// Next advances the middleware chain. A middleware calls it at most once; the
// chain rejects re-entry with ErrNextCalledTwice.
type Next func() (Response, error)

// Middleware processes a request before or after the rest of the chain. It
// may short-circuit by returning without calling next, or wrap the
// downstream result.
type Middleware func(ctx *Context, next Next) (Response, error)

// chain executes middleware in registration order, ending at the terminal
// handler. One chain instance serves one request; last tracks the furthest
// stage already entered so a repeated next() fails loudly instead of running
// downstream stages twice.
type chain struct {
	middleware []Middleware
	terminal   func(*Context) (Response, error)
	last       int
}

func newChain(middleware []Middleware, terminal func(*Context) (Response, error)) *chain {
	return &chain{middleware: middleware, terminal: terminal, last: -1}
}

func (c *chain) run(ctx *Context) (Response, error) {
	return c.dispatch(ctx, 0)
}

func (c *chain) dispatch(ctx *Context, i int) (Response, error) {
	if i <= c.last {
		return nil, fmt.Errorf("%w: middleware at index %d", ErrNextCalledTwice, i-1)
	}
	c.last = i

	if i < len(c.middleware) {
		return c.middleware[i](ctx, func() (Response, error) {
			return c.dispatch(ctx, i+1)
		})
	}
	return c.terminal(ctx)
}
