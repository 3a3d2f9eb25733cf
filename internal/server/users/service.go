package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/discera/discera-client/internal/common"
	"github.com/discera/discera-client/internal/logging"
	"github.com/discera/discera-client/internal/server/auth"
	"github.com/discera/discera-client/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

// FieldError reports a malformed request field. It matches
// common.ErrorValidation under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return common.ErrorValidation
}

// RegisterParams carries the fields accepted by Register.
type RegisterParams struct {
	Email    string
	Username string
	FullName string
	Password string
	Role     Role
}

type Service struct {
	repo                        Repository
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
}

func NewService(repo Repository, log logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (*User, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Username = strings.TrimSpace(p.Username)

	if !validEmail(p.Email) {
		return nil, &FieldError{Field: "email", Message: "value is not a valid email address"}
	}
	if p.Username == "" {
		return nil, &FieldError{Field: "username", Message: "field required"}
	}
	if p.Password == "" {
		return nil, &FieldError{Field: "password", Message: "field required"}
	}
	if p.Role == "" {
		p.Role = RoleStudent
	}
	if !p.Role.Valid() {
		return nil, &FieldError{Field: "role", Message: fmt.Sprintf("unknown role %q", p.Role)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		Email:        p.Email,
		Username:     p.Username,
		FullName:     p.FullName,
		Role:         p.Role,
		IsActive:     true,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Login authenticates by email or username and issues an access token.
// Unknown logins and wrong passwords both yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, login, password string) (string, *User, error) {
	user, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		return "", nil, common.ErrorInactiveUser
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("error generating token: %w", err)
	}

	return token, user, nil
}

// UserFromToken resolves the active user a bearer token was issued to.
func (s *Service) UserFromToken(ctx context.Context, token string) (*User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive {
		return nil, common.ErrorInactiveUser
	}
	return user, nil
}

// RequestPasswordReset accepts any well-formed email and never reveals
// whether an account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return &FieldError{Field: "email", Message: "value is not a valid email address"}
	}

	user, err := s.repo.GetByLogin(ctx, email)
	switch {
	case err == nil:
		s.log.Info(ctx, "password reset requested", "user_id", user.ID)
	case errors.Is(err, common.ErrorNotFound):
		s.log.Debug(ctx, "password reset for unknown email")
	default:
		return fmt.Errorf("error loading user: %w", err)
	}
	return nil
}

var demoUsers = []RegisterParams{
	{Email: "admin@discera.com", Username: "admin", FullName: "Admin User", Password: "admin123", Role: RoleAdmin},
	{Email: "teacher@discera.com", Username: "teacher", FullName: "Teacher User", Password: "teacher123", Role: RoleTeacher},
	{Email: "student@discera.com", Username: "student", FullName: "Student User", Password: "student123", Role: RoleStudent},
}

// SeedDemoUsers creates the demo accounts that do not exist yet and returns
// the emails it created.
func (s *Service) SeedDemoUsers(ctx context.Context) ([]string, error) {
	created := []string{}
	for _, p := range demoUsers {
		_, err := s.Register(ctx, p)
		if errors.Is(err, common.ErrorAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", p.Email, err)
		}
		created = append(created, p.Email)
	}
	return created, nil
}
