package services

import (
	"context"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession returns a context carrying m, for code that is handed a
// context rather than the manager itself.
func WithSession(ctx context.Context, m *SessionManager) context.Context {
	return context.WithValue(ctx, sessionKey, m)
}

func FromContext(ctx context.Context) (*SessionManager, bool) {
	m, ok := ctx.Value(sessionKey).(*SessionManager)
	return m, ok && m != nil
}

// MustFromContext panics when ctx carries no session manager; that is a
// wiring bug, not a runtime condition.
func MustFromContext(ctx context.Context) *SessionManager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("services: no SessionManager in context")
	}
	return m
}
