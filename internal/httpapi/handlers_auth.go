package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (a *api) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, token, err := a.authSvc.Signup(r.Context(), req.FirstName, req.LastName, req.Username, req.Email, req.Password)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeAuthUser(w, http.StatusCreated, token, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	now := time.Now()
	ip := clientIP(r)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !a.loginLimiter.Allow("login:ip:"+ip, now) || !a.loginLimiter.Allow("login:email:"+email, now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	u, token, err := a.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeAuthUser(w, http.StatusOK, token, u)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (a *api) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		a.WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	updated, token, err := a.authSvc.UpdatePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeAuthUser(w, http.StatusOK, token, updated)
}
