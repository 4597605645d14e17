// Package blog runs the per-request flow shared by the HTTP server, CGI mode
// and the CLI: scan the data directory, resolve the request path and render
// the result with the current template library.
package blog
