package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/discera/discera-client/internal/common"
	"github.com/discera/discera-client/internal/server/users"
)

const maxBodyBytes = 1 << 20

type userResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type seedResponse struct {
	Message      string   `json:"message"`
	CreatedUsers []string `json:"created_users"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "Incorrect username or password")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), users.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     users.Role(req.Role),
	})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "If the account exists, a reset link has been sent",
	})
}

func (s *Server) seed(w http.ResponseWriter, r *http.Request) {
	created, err := s.users.SeedDemoUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, seedResponse{
		Message:      "Test users created successfully",
		CreatedUsers: created,
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

// writeError maps service errors to status codes. unauthorizedDetail is the
// message used for common.ErrorUnauthorized on this route.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, unauthorizedDetail string) {
	var fe *users.FieldError

	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []validationItem{{
				Loc:  []string{"body", fe.Field},
				Msg:  fe.Error(),
				Type: "value_error",
			}},
		})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusBadRequest, "User with this email or username already exists")
	case errors.Is(err, common.ErrorInactiveUser):
		writeDetail(w, http.StatusBadRequest, "Inactive user")
	case errors.Is(err, common.ErrorUnauthorized):
		unauthorized(w, unauthorizedDetail)
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

type validationItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
