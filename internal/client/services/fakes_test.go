package services

import (
	"context"
	"errors"
	"sync"

	"github.com/discera/discera-client/internal/client/client"
	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/client/repositories/metadata"
	"github.com/discera/discera-client/internal/client/repositories/remember"
	"github.com/discera/discera-client/internal/client/repositories/tokens"
	"github.com/discera/discera-client/internal/logging"
)

/*************
 * Fake auth client
 *************/

type fakeClient struct {
	mu sync.Mutex

	// inputs captured
	loginCalls    []models.Credentials
	registerCalls []models.RegisterRequest
	meCalls       []string
	resetCalls    []string

	// outputs preset
	loginFn     func(ctx context.Context, email, password string) (*models.AuthResponse, error)
	registerErr error
	meFn        func(ctx context.Context, token string) (*models.User, error)
	resetErr    error
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	f.mu.Lock()
	f.loginCalls = append(f.loginCalls, models.Credentials{Email: email, Password: password})
	fn := f.loginFn
	f.mu.Unlock()

	if fn == nil {
		return nil, client.ErrUnavailable
	}
	return fn(ctx, email, password)
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls = append(f.registerCalls, req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{Email: req.Email, Username: req.Username, FullName: req.FullName, Role: req.Role, IsActive: true}, nil
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	f.meCalls = append(f.meCalls, token)
	fn := f.meFn
	f.mu.Unlock()

	if fn == nil {
		return nil, client.ErrUnauthorized
	}
	return fn(ctx, token)
}

func (f *fakeClient) RequestPasswordReset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls = append(f.resetCalls, email)
	return f.resetErr
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loginCalls)
}

func (f *fakeClient) meCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.meCalls)
}

/*************
 * Fake token store
 *************/

type failingTokens struct {
	tokens.Repository
	clearErr error
	getErr   error
	setErr   error
}

func (f *failingTokens) Set(ctx context.Context, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Repository.Set(ctx, token)
}

func (f *failingTokens) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Repository.Clear(ctx)
}

func (f *failingTokens) Get(ctx context.Context) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Repository.Get(ctx)
}

var errStore = errors.New("store unavailable")

/*************
 * Fixture
 *************/

type fixture struct {
	client *fakeClient
	md     *metadata.MemoryRepository
	tokens tokens.Repository
	m      *SessionManager
}

func newFixture(cfg SessionConfig) *fixture {
	md := metadata.NewMemoryRepository()
	fc := &fakeClient{}
	tok := tokens.NewMetadataRepository(md)
	m := NewSessionManager(fc, tok, remember.NewMetadataRepository(md), logging.Discard(), cfg)
	return &fixture{client: fc, md: md, tokens: tok, m: m}
}

func (f *fixture) storedToken() string {
	tok, _ := f.tokens.Get(context.Background())
	return tok
}

func okLogin(token string, user models.User) func(context.Context, string, string) (*models.AuthResponse, error) {
	return func(context.Context, string, string) (*models.AuthResponse, error) {
		u := user
		return &models.AuthResponse{AccessToken: token, TokenType: "bearer", User: &u}, nil
	}
}

// recorder collects listener notifications.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.Phase)
	}
	return out
}
