package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/discera/discera-client/internal/client/config"
	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/client/services"
	"github.com/discera/discera-client/internal/logging"
)

type fakeSession struct {
	snap       services.Snapshot
	remembered string

	// inputs captured
	lastEmail    string
	lastPassword string
	lastOpts     int
	lastRegister *models.RegisterRequest
	lastReset    string
	loginCalls   int
	logoutCalls  int
	checkCalls   int
	initCalls    int
	torndown     bool
	listeners    []services.Listener

	// outputs preset
	loginUser   *models.User
	loginErr    error
	registerErr error
	logoutErr   error
	resetErr    error
	initErr     error
}

func (f *fakeSession) Init(context.Context) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeSession) Login(_ context.Context, email, password string, opts ...services.LoginOption) (*models.User, error) {
	f.loginCalls++
	f.lastEmail, f.lastPassword, f.lastOpts = email, password, len(opts)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.snap = services.Snapshot{Phase: services.PhaseAuthenticated, User: f.loginUser}
	f.emit()
	return f.loginUser, nil
}

func (f *fakeSession) Register(ctx context.Context, req models.RegisterRequest, opts ...services.LoginOption) (*models.User, error) {
	f.lastRegister = &req
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.Login(ctx, req.Email, req.Password, opts...)
}

func (f *fakeSession) Logout(context.Context) error {
	f.logoutCalls++
	f.snap = services.Snapshot{Phase: services.PhaseAnonymous}
	f.emit()
	return f.logoutErr
}

func (f *fakeSession) CheckAuth(context.Context) error {
	f.checkCalls++
	return nil
}

func (f *fakeSession) Snapshot() services.Snapshot { return f.snap }

func (f *fakeSession) Subscribe(fn services.Listener) func() {
	f.listeners = append(f.listeners, fn)
	return func() { f.listeners = nil }
}

func (f *fakeSession) RememberedEmail(context.Context) (string, error) {
	return f.remembered, nil
}

func (f *fakeSession) RequestPasswordReset(_ context.Context, email string) error {
	f.lastReset = email
	return f.resetErr
}

func (f *fakeSession) Teardown() { f.torndown = true }

func (f *fakeSession) emit() {
	for _, l := range f.listeners {
		l(f.snap)
	}
}

func newTestApp(s *fakeSession, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config:  cfg,
		session: s,
		log:     logging.Discard(),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}, out
}

// stubPasswords makes getPassword return the given values in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		pw := pws[i%len(pws)]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}
