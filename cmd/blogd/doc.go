// Command blogd runs the blog post HTTP API.
//
// Usage:
//
//	blogd -listen 0.0.0.0:5002 -shutdown-timeout 5s
//
// Flags:
//
//	-env              path to an optional .env file (default .env)
//	-listen           HTTP bind address (default 0.0.0.0:5002)
//	-shutdown-timeout graceful shutdown timeout (default 5s)
//	-log-level        debug, info, warn or error (default info)
//	-log-format       text or json (default text)
//	-rate-limit       per-IP requests per second, 0 disables (default 0)
//	-rate-burst       per-IP burst size
//	-no-seed          start with an empty post collection
//
// Every flag except -env can also be set through BLOG_* environment
// variables or the .env file; flags win.
//
// Behavior:
//
// Seeds the in-memory store with two posts, starts the API server, and
// blocks on SIGINT/SIGTERM for graceful shutdown. Posts live only as long as
// the process.
package main
