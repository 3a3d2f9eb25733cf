package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/discera/discera-client/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_InitThenREPL(t *testing.T) {
	captureOutput(t)
	stubPasswords(t, "secret1")

	s := &fakeSession{loginUser: ann, remembered: "ann@school.edu"}
	a, out := newTestApp(s, "login\n\ny\nlogout\nexit\n")

	a.Root(context.Background())

	assert.Equal(t, 1, s.initCalls)
	assert.Equal(t, 1, s.loginCalls)
	assert.Equal(t, 1, s.logoutCalls)
	assert.Equal(t, "ann@school.edu", s.lastEmail)
	assert.Contains(t, out.String(), "Last signed in as ann@school.edu")
	assert.Contains(t, out.String(), "[session] signed in as ann@school.edu (student)")
	assert.Contains(t, out.String(), "[session] signed out")
	assert.Empty(t, s.listeners, "listener removed on exit")
}

func TestRoot_InitFailureStops(t *testing.T) {
	captureOutput(t)
	s := &fakeSession{initErr: services.ErrClosed}
	a, _ := newTestApp(s, "login\n")

	a.Root(context.Background())
	assert.Zero(t, s.loginCalls)
}

func TestGetStatus(t *testing.T) {
	s := &fakeSession{}
	a, _ := newTestApp(s, "")
	assert.Equal(t, "", a.getStatus())

	s.snap = services.Snapshot{Phase: services.PhaseAuthenticated, User: ann}
	assert.Equal(t, "(ann@school.edu) ", a.getStatus())
}

func TestClose(t *testing.T) {
	s := &fakeSession{}
	a, _ := newTestApp(s, "")
	boom := errors.New("boom")
	var closed []string
	a.closers = []func() error{
		func() error { closed = append(closed, "client"); return nil },
		func() error { closed = append(closed, "store"); return boom },
	}

	err := a.Close()
	require.ErrorIs(t, err, boom)
	assert.True(t, s.torndown)
	assert.Equal(t, []string{"client", "store"}, closed)
}
