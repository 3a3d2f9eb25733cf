package cli

import (
	"context"
	"fmt"

	"github.com/discera/discera-client/internal/client/services"
)

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if snap.User != nil {
		return fmt.Sprintf("(%s) ", snap.User.Email)
	}
	return ""
}

// announce prints session transitions as they happen.
func (a *App) announce(s services.Snapshot) {
	switch {
	case s.Phase == services.PhaseAuthenticated && s.User != nil:
		a.printf("[session] signed in as %s (%s)\n", s.User.Email, s.User.Role)
	case s.Phase == services.PhaseAnonymous:
		a.println("[session] signed out")
	}
}

// Root validates the stored session, then runs the REPL until the user
// exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to DISCERA (type 'help' for commands)")

	unsubscribe := a.session.Subscribe(a.announce)
	defer unsubscribe()

	if err := a.session.Init(ctx); err != nil {
		a.log.Error(ctx, "session init failed", "error", err)
		return
	}
	if !a.isLoggedIn() {
		if email, _ := a.session.RememberedEmail(ctx); email != "" {
			a.printf("Last signed in as %s; type 'login' to continue.\n", email)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
