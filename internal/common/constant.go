// Package common contains shared constants, sentinel errors and small helpers
// used across TaskLane server and client components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// BearerScheme prefixes the access token in the HTTP Authorization header.
const BearerScheme = "Bearer "

// TokenExpiredMessage is the client-facing message for an expired access
// token. Clients refresh their session when they see it.
const TokenExpiredMessage = "Token expired"
