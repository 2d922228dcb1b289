package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware so the first argument is the outermost wrapper:
// Chain(a, b)(h) == a(b(h)). Nil entries are skipped, so optional layers can
// be passed unconditionally.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] == nil {
				continue
			}
			final = mws[i](final)
		}
		return final
	}
}

// ThenFunc wraps a handler function, for route tables.
func (m Middleware) ThenFunc(fn http.HandlerFunc) http.Handler {
	if m == nil {
		return fn
	}
	return m(fn)
}
