// Package common contains shared constants and sentinel errors used across
// DISCERA client and dev-server components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"

// RequestIDHeaderName tags every collaborator request with a unique id.
const RequestIDHeaderName = "X-Request-ID"

// Keys of the client-durable key/value store.
const (
	TokenKey         = "discera_token"
	RememberMeKey    = "discera_remember_me"
	RememberEmailKey = "discera_remember_email"
)
