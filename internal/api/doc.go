// Package api exposes the blog post collection over HTTP.
//
// # Separation of Concerns
//
// The api package defines public JSON types (decoupled from post), maps
// posts to JSON, and hosts an HTTP server. Routing and middleware are
// provided by echo; the net/http Server, its timeouts and graceful shutdown
// stay under this package's control. The post package remains unaware of
// HTTP or JSON.
//
// # Server
//
// NewServer wires handlers onto an echo router and configures timeouts.
// Start() runs ListenAndServe() in a goroutine; Stop() performs graceful
// shutdown. Middleware assigns a request id, logs method/path/status/latency
// through slog, recovers panics, allows cross-origin requests (any origin
// by default), caps body size, and optionally rate-limits per client IP.
//
// # Error Model
//
// APIError carries a message, an optional list of missing fields, and an
// RFC3339 timestamp. Handlers write expected failures (400 validation,
// 404 unknown id) directly; routing errors and panics go through a custom
// echo.HTTPErrorHandler that produces the same shape. An empty collection
// is not an error: GET /api/posts answers 200 with success=false.
//
// # Current Endpoints
//
// - GET    /api/posts              list, optional sort=title|content, direction=asc|desc
// - POST   /api/posts              create from {title, content}
// - PUT    /api/posts/{id}         update supplied fields
// - DELETE /api/posts/{id}         delete
// - GET    /api/posts/search       filter by title/content substrings
// - GET    /api/docs               Swagger UI over /static/swagger.json
// - GET    /api/healthz            liveness
// - GET    /api/status             uptime and collection counters
package api
