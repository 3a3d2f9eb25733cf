// Package client talks to the DISCERA auth server.
//
// Client is the transport-agnostic contract used by the session manager;
// HTTPClient implements it over the server's JSON API:
//
//	POST /login           {email, password}          -> {access_token, token_type, user}
//	POST /register        {email, username, ...}     -> user
//	GET  /me              Authorization: Bearer ...  -> user
//	POST /password-reset  {email}                    -> 202
//	GET  /health                                     -> 200
//
// When /login answers with the token only, Login fetches the user with /me.
//
// # Error Handling
//
// Every failure matches exactly one of ErrUnauthorized, ErrValidation or
// ErrUnavailable with errors.Is. Non-2xx answers are *APIError values that
// also carry the status code and the server's detail message.
package client
