// Package services holds the client's session manager: the single owner of
// "who is logged in" for one running client.
//
// A SessionManager moves through three phases:
//
//	Initializing ──CheckAuth──► Authenticated | Anonymous
//	Anonymous ──Login / Register──► Authenticated
//	Authenticated ──Logout / failed CheckAuth──► Anonymous
//
// Each call that can change state is numbered when it starts. Only calls
// that actually change state (a successful login or check, a logout, a
// check that drops the token) record their number as committed. When an
// answer arrives after a later-numbered call has committed, it is dropped
// and the call reports ErrSuperseded, so a slow response never overwrites a
// newer outcome. A rejected login commits nothing and supersedes nothing.
//
// Listeners registered with Subscribe are invoked after every committed
// change, outside the manager lock.
package services
