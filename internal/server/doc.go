// Package server provides HTTP routing, middleware, and the request handlers
// for the playlist generation API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Identity
//
// Identity resolution is deliberately narrow: [IdentityMiddleware] maps a
// bearer token to a user id and stores it on the request context. Requests
// without a resolvable identity are not rejected; the pipeline simply runs
// ephemeral and skips persistence. Playlist read endpoints do require an
// identified caller.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
