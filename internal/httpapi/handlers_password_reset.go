package httpapi

import (
	"net/http"
	"strings"
	"time"
)

// forgotPasswordMessage is returned on every non-validation outcome. Keeping
// it identical for registered and unregistered addresses is what makes the
// endpoint enumeration-resistant.
const forgotPasswordMessage = "If that email address is registered, a reset link has been sent."

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *api) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	now := time.Now()
	ip := clientIP(r)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !a.loginLimiter.Allow("forgot:ip:"+ip, now) || !a.loginLimiter.Allow("forgot:email:"+email, now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	if err := a.resetSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, forgotPasswordMessage)
}

type resetPasswordRequest struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (a *api) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	token := r.URL.Query().Get("token")

	u, sessionToken, err := a.resetSvc.ResetPassword(r.Context(), token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeAuthUser(w, http.StatusOK, sessionToken, u)
}
