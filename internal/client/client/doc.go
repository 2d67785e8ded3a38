// Package client talks to the TaskLane backend on behalf of the CLI.
//
// GRPCClient carries the access token in request metadata through a unary
// interceptor and refreshes it once when the server reports it expired.
// Uploads, contact messages and logout go over the HTTP API.
//
// Transport failures are mapped to the sentinel errors in errors.go so
// callers can match them with errors.Is.
package client
