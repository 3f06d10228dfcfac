// Package router is a thin method-aware layer over http.ServeMux for the
// storefront API.
//
// Global middleware runs inside the mux, after the route is matched, so
// middleware can read r.Pattern. Requests no route matches still pass
// through the global chain when an Unmatched handler is set.
package router

import (
	"net/http"
	"slices"
)

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// UnmatchedFunc answers a request no route matched. status is 404, or 405
// when the path is routed for other methods; the Allow header is already set.
type UnmatchedFunc func(w http.ResponseWriter, req *http.Request, status int)

// Router registers method-scoped routes on a shared mux. Groups share the
// mux and extend the middleware chain.
type Router struct {
	mux       *http.ServeMux
	chain     []Middleware
	unmatched *UnmatchedFunc
}

// New creates a Router. middleware wraps every route, in the order given.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:       http.NewServeMux(),
		chain:     middleware,
		unmatched: new(UnmatchedFunc),
	}
}

// ServeHTTP dispatches to the matching route. Unmatched requests go to the
// Unmatched handler when one is set and to the mux's plain-text replies
// otherwise.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	fn := *r.unmatched
	if fn == nil {
		r.mux.ServeHTTP(w, req)
		return
	}

	h, pattern := r.mux.Handler(req)
	if pattern != "" {
		r.mux.ServeHTTP(w, req)
		return
	}

	// Run the mux's own reply against a capture to learn its status. Only
	// 404 and 405 are replaced; redirects to a cleaned path pass through.
	capture := &statusCapture{header: make(http.Header)}
	h.ServeHTTP(capture, req)
	status := capture.statusCode()
	if status != http.StatusNotFound && status != http.StatusMethodNotAllowed {
		r.mux.ServeHTTP(w, req)
		return
	}
	if allow := capture.header.Get("Allow"); allow != "" {
		w.Header().Set("Allow", allow)
	}

	r.wrap(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fn(w, req, status)
	}), nil).ServeHTTP(w, req)
}

// Unmatched sets the handler for requests no route matches.
func (r *Router) Unmatched(fn UnmatchedFunc) {
	*r.unmatched = fn
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Handle registers handler for method and pattern behind the group's chain
// and any route-specific middleware.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(handler, middleware))
}

// wrap builds chain[0](chain[1](...(handler))) so middleware runs in the
// order it was declared.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)

	result := handler
	for i := len(combined) - 1; i >= 0; i-- {
		result = combined[i](result)
	}
	return result
}

// Group returns a router on the same mux whose routes also run middleware.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:       r.mux,
		chain:     append(slices.Clone(r.chain), middleware...),
		unmatched: r.unmatched,
	}
}

// statusCapture records the status the mux would send and drops the body.
type statusCapture struct {
	header http.Header
	status int
}

func (c *statusCapture) Header() http.Header { return c.header }

func (c *statusCapture) WriteHeader(status int) {
	if c.status == 0 {
		c.status = status
	}
}

func (c *statusCapture) Write(b []byte) (int, error) {
	c.WriteHeader(http.StatusOK)
	return len(b), nil
}

func (c *statusCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusNotFound
	}
	return c.status
}
