// Package server hosts the offline caching intermediary over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [RequestID], [Logging] and [Recover] are the stack used by the serve command.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// [ProxyHandler] forwards every request to the upstream origin through an [offline.Registration], so the active
// worker answers from cache when it can. [ControlHandler] exposes the worker's control surface under
// [ControlPrefix]:
//
//	POST /__sonora/sw/message            {"type":"SKIP_WAITING"|"GET_VERSION"}
//	POST /__sonora/sw/sync?tag=<tag>
//	POST /__sonora/sw/push               optional notification JSON
//	POST /__sonora/sw/notificationclick  notification JSON
//
// [Server] runs the router until its context is cancelled and then shuts down gracefully.
package server
