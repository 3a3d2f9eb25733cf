package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/discera/discera-client/internal/client/client"
	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/client/repositories/remember"
	"github.com/discera/discera-client/internal/client/repositories/tokens"
	"github.com/discera/discera-client/internal/common"
	"github.com/discera/discera-client/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrSuperseded is returned when an operation started after this one
	// committed while this one was waiting for the server. Its result was
	// discarded.
	ErrSuperseded = errors.New("superseded by a newer session operation")
	// ErrClosed is returned by every operation after Teardown.
	ErrClosed = errors.New("session manager closed")
)

type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Snapshot is a consistent view of the session at one instant. User is a
// copy and may be modified freely.
type Snapshot struct {
	Phase   Phase
	User    *models.User
	Loading bool
}

type Listener func(Snapshot)

type SessionConfig struct {
	// CheckAuthRetries is how many times a /me probe failing with a network
	// error is retried before the token is dropped.
	CheckAuthRetries uint64
	// CheckAuthBackoff is the first retry delay; it doubles per attempt.
	CheckAuthBackoff time.Duration
	// LocalExpiryCheck rejects JWT tokens whose exp claim has passed
	// without asking the server.
	LocalExpiryCheck bool
}

type loginOptions struct {
	remember *bool
}

type LoginOption func(*loginOptions)

// WithRememberMe makes a successful login store (true) or erase (false) the
// remember-me flag and email. Without it the stored preference is untouched.
func WithRememberMe(on bool) LoginOption {
	return func(o *loginOptions) {
		o.remember = &on
	}
}

type subscription struct {
	id int
	fn Listener
}

type SessionManager struct {
	client   client.Client
	tokens   tokens.Repository
	remember remember.Repository
	log      logging.Logger
	cfg      SessionConfig
	now      func() time.Time

	probe    singleflight.Group
	initOnce sync.Once
	initErr  error

	mu sync.RWMutex
	// issued numbers operations as they start; committed is the number of
	// the last one that changed state. A result is stale once an operation
	// started after it has committed.
	issued    uint64
	committed uint64
	phase     Phase
	user      *models.User
	loading   bool
	closed    bool
	listeners []subscription
	nextSubID int
}

func NewSessionManager(c client.Client, tok tokens.Repository, rem remember.Repository, log logging.Logger, cfg SessionConfig) *SessionManager {
	if cfg.CheckAuthBackoff <= 0 {
		cfg.CheckAuthBackoff = 100 * time.Millisecond
	}
	return &SessionManager{
		client:   c,
		tokens:   tok,
		remember: rem,
		log:      log.With("component", "session"),
		cfg:      cfg,
		now:      time.Now,
		phase:    PhaseInitializing,
		loading:  true,
	}
}

func (m *SessionManager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() Snapshot {
	return Snapshot{Phase: m.phase, User: copyUser(m.user), Loading: m.loading}
}

func (m *SessionManager) User() *models.User {
	return m.Snapshot().User
}

func (m *SessionManager) Loading() bool {
	return m.Snapshot().Loading
}

func (m *SessionManager) IsAuthenticated() bool {
	return m.Snapshot().Phase == PhaseAuthenticated
}

// Subscribe registers fn for change notifications. The returned function
// removes it; calling it more than once is harmless.
func (m *SessionManager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return func() {}
	}
	m.nextSubID++
	id := m.nextSubID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Init runs the startup CheckAuth. Only the first call does any work; later
// calls return the first result.
func (m *SessionManager) Init(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.initErr = m.CheckAuth(ctx)
	})
	return m.initErr
}

// Teardown detaches all listeners and makes every later call fail with
// ErrClosed. Operations in flight finish without changing state.
func (m *SessionManager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.listeners = nil
}

// begin hands out the number of a new operation. Starting an operation
// does not supersede anything; only commits do.
func (m *SessionManager) begin() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	m.issued++
	return m.issued, nil
}

func (m *SessionManager) staleLocked(op uint64) bool {
	return op < m.committed
}

// commitLocked applies a transition on behalf of operation op and returns
// the listeners to notify, or nil when nothing observable changed.
func (m *SessionManager) commitLocked(op uint64, phase Phase, user *models.User) ([]subscription, Snapshot) {
	if op > m.committed {
		m.committed = op
	}
	before := m.snapshotLocked()
	m.phase = phase
	m.user = user
	m.loading = false
	after := m.snapshotLocked()

	if sameSnapshot(before, after) {
		return nil, after
	}
	return append([]subscription(nil), m.listeners...), after
}

func notify(subs []subscription, snap Snapshot) {
	for _, s := range subs {
		s.fn(Snapshot{Phase: snap.Phase, User: copyUser(snap.User), Loading: snap.Loading})
	}
}

// Login exchanges credentials for a token. On success the token is stored
// and the session becomes authenticated. On failure the collaborator's
// error is returned and nothing changes.
func (m *SessionManager) Login(ctx context.Context, email, password string, opts ...LoginOption) (*models.User, error) {
	var o loginOptions
	for _, opt := range opts {
		opt(&o)
	}

	op, err := m.begin()
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.log.Info(ctx, "login rejected", "email", email, "error", err)
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login response without user: %w", client.ErrUnavailable)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.staleLocked(op) {
		m.mu.Unlock()
		m.log.Debug(ctx, "discarding stale login response", "email", email)
		return nil, ErrSuperseded
	}
	if err := m.tokens.Set(ctx, resp.AccessToken); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("persist token: %w", err)
	}
	m.applyRememberLocked(ctx, o, email)
	subs, snap := m.commitLocked(op, PhaseAuthenticated, copyUser(resp.User))
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	notify(subs, snap)
	return snap.User, nil
}

// applyRememberLocked records the remember-me choice. A failure here does
// not undo the login.
func (m *SessionManager) applyRememberLocked(ctx context.Context, o loginOptions, email string) {
	if o.remember == nil {
		return
	}
	var err error
	if *o.remember {
		err = m.remember.Remember(ctx, email)
	} else {
		err = m.remember.Forget(ctx)
	}
	if err != nil {
		m.log.Warn(ctx, "failed to store remember-me preference", "error", err)
	}
}

// Register creates the account, then logs in once with the same email and
// password. Registration itself never yields a session.
func (m *SessionManager) Register(ctx context.Context, req models.RegisterRequest, opts ...LoginOption) (*models.User, error) {
	if m.isClosed() {
		return nil, ErrClosed
	}
	if _, err := m.client.Register(ctx, req); err != nil {
		m.log.Info(ctx, "registration rejected", "email", req.Email, "error", err)
		return nil, err
	}
	m.log.Info(ctx, "registered", "email", req.Email, "role", req.Role)
	return m.Login(ctx, req.Email, req.Password, opts...)
}

// Logout forgets the token and the user. It is safe to call when already
// anonymous. The user is cleared even if the store fails, in which case the
// store error is returned.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.issued++
	op := m.issued
	clearErr := m.tokens.Clear(ctx)
	subs, snap := m.commitLocked(op, PhaseAnonymous, nil)
	m.mu.Unlock()

	notify(subs, snap)
	if clearErr != nil {
		return fmt.Errorf("clear token: %w", clearErr)
	}
	return nil
}

// CheckAuth validates the stored token with the server. It never fails
// because of the token or the server: every such failure leaves the
// session anonymous with the token removed. The only error is ErrClosed.
// Concurrent calls share one probe.
func (m *SessionManager) CheckAuth(ctx context.Context) error {
	if m.isClosed() {
		return ErrClosed
	}
	_, err, _ := m.probe.Do("check-auth", func() (any, error) {
		return nil, m.checkAuth(ctx)
	})
	return err
}

func (m *SessionManager) checkAuth(ctx context.Context) error {
	op, err := m.begin()
	if err != nil {
		return err
	}

	user, probeErr := m.probeToken(ctx)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	var subs []subscription
	var snap Snapshot
	switch {
	case m.staleLocked(op):
		// a newer operation already settled the session
		m.log.Debug(ctx, "discarding stale auth check")
	case probeErr == nil && user != nil:
		subs, snap = m.commitLocked(op, PhaseAuthenticated, user)
	default:
		if probeErr != nil {
			m.log.Warn(ctx, "stored session rejected", "error", probeErr)
			if err := m.tokens.Clear(ctx); err != nil {
				m.log.Warn(ctx, "failed to remove stale token", "error", err)
			}
		}
		subs, snap = m.commitLocked(op, PhaseAnonymous, nil)
	}
	m.mu.Unlock()

	notify(subs, snap)
	return nil
}

// probeToken returns (nil, nil) when no token is stored.
func (m *SessionManager) probeToken(ctx context.Context) (*models.User, error) {
	tok, err := m.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if tok == "" {
		return nil, nil
	}

	if m.cfg.LocalExpiryCheck {
		if err := m.checkExpiry(tok); err != nil {
			return nil, err
		}
	}

	var user *models.User
	b := retry.WithMaxRetries(m.cfg.CheckAuthRetries, retry.NewExponential(m.cfg.CheckAuthBackoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		u, err := m.client.Me(ctx, tok)
		if err != nil {
			if errors.Is(err, client.ErrUnavailable) {
				m.log.Debug(ctx, "auth check failed, retrying", "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("empty /me response: %w", client.ErrUnavailable)
	}
	return user, nil
}

// checkExpiry reads the exp claim of a JWT without verifying its
// signature. Tokens that are not JWTs are left to the server.
func (m *SessionManager) checkExpiry(tok string) error {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !m.now().Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w: expired at %s", common.ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return nil
}

// RememberedEmail returns the email saved by a login with remember-me on,
// or "" when the preference is off.
func (m *SessionManager) RememberedEmail(ctx context.Context) (string, error) {
	if m.isClosed() {
		return "", ErrClosed
	}
	return m.remember.Email(ctx)
}

// RequestPasswordReset asks the server to send a reset link. It does not
// touch the session.
func (m *SessionManager) RequestPasswordReset(ctx context.Context, email string) error {
	if m.isClosed() {
		return ErrClosed
	}
	return m.client.RequestPasswordReset(ctx, email)
}

func (m *SessionManager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func sameSnapshot(a, b Snapshot) bool {
	if a.Phase != b.Phase || a.Loading != b.Loading {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}
