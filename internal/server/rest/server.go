// Package rest exposes the auth server's HTTP/JSON API under /auth.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/discera/discera-client/internal/logging"
	"github.com/discera/discera-client/internal/server/users"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// UserService is the subset of users.Service the handlers rely on.
type UserService interface {
	Register(ctx context.Context, p users.RegisterParams) (*users.User, error)
	Login(ctx context.Context, login, password string) (string, *users.User, error)
	UserFromToken(ctx context.Context, token string) (*users.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	SeedDemoUsers(ctx context.Context) ([]string, error)
}

type Server struct {
	address string
	users   UserService
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, us UserService) *Server {
	return &Server{
		address: address,
		users:   us,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the route table. Health is served both at the root and
// under the /auth prefix.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	a := r.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/health", s.health).Methods(http.MethodGet)
	a.HandleFunc("/login", s.login).Methods(http.MethodPost)
	a.HandleFunc("/register", s.register).Methods(http.MethodPost)
	a.HandleFunc("/password-reset", s.passwordReset).Methods(http.MethodPost)
	a.HandleFunc("/seed", s.seed).Methods(http.MethodPost)
	a.Handle("/me", s.requireUser(http.HandlerFunc(s.me))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
