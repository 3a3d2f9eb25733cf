// Package cli provides the interactive DISCERA command-line client.
//
// It wires configuration, the local session store, the auth server client
// and the session manager, then runs a line-oriented REPL standing in for
// the login, registration and password-reset forms.
//
// On start the stored session is re-validated and the remembered email, if
// any, is offered as the default on the login prompt. Session changes are
// echoed as they happen.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
