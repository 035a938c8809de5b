// Package controller contains HTTP middlewares and helper handlers used by the agent server.
//
// Provided middlewares:
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithBearerAuth: Rejects requests that do not present the configured bearer token.
//   - WithCORS: Adds CORS headers for an allow-list of origins and handles OPTIONS preflight.
//
// Provided helpers:
//   - Pprof: Returns a handler exposing net/http/pprof handlers.
//   - WriteJSON, WriteError: Encode responses and map error kinds to status codes.
package controller
