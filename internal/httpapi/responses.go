package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError is the single boundary where error kinds become status
// codes. Anything unmatched is an internal error and must not leak detail
// in prod.
func (a *api) WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.writeValidationError(w, err)
	case errors.Is(err, domain.ErrUserExists):
		WriteError(w, http.StatusConflict, "already_exists", "username or email already exists")
	case errors.Is(err, domain.ErrCategoryExists):
		WriteError(w, http.StatusConflict, "already_exists", "category already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrUserDisabled):
		WriteError(w, http.StatusUnauthorized, "user_disabled", "account is deactivated")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, domain.ErrResetTokenInvalid):
		WriteError(w, http.StatusBadRequest, "reset_token_invalid", "reset token is invalid or has expired")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "service temporarily unavailable")
	default:
		a.logger.Error("internal error", "err", err)
		msg := "internal server error"
		if !a.isProd {
			msg = err.Error()
		}
		WriteError(w, http.StatusInternalServerError, "internal_error", msg)
	}
}

func (a *api) writeValidationError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		WriteJSON(w, http.StatusBadRequest, struct {
			Error  apiError          `json:"error"`
			Fields map[string]string `json:"fields"`
		}{
			Error:  apiError{Code: "validation_error", Message: "invalid request"},
			Fields: verr.Fields,
		})
		return
	}
	WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
}

type userJSON struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	ProfileImageURL *string    `json:"profile_image_url"`
	DateOfBirth     *string    `json:"date_of_birth"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toUserJSON(u domain.User) userJSON {
	out := userJSON{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		Email:           u.Email,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format("2006-01-02")
		out.DateOfBirth = &dob
	}
	return out
}

type userData struct {
	User userJSON `json:"user"`
}

func writeUser(w http.ResponseWriter, status int, u domain.User) {
	WriteJSON(w, status, struct {
		Status string   `json:"status"`
		Data   userData `json:"data"`
	}{
		Status: "success",
		Data:   userData{User: toUserJSON(u)},
	})
}

func writeAuthUser(w http.ResponseWriter, status int, token string, u domain.User) {
	WriteJSON(w, status, struct {
		Status string   `json:"status"`
		Token  string   `json:"token"`
		Data   userData `json:"data"`
	}{
		Status: "success",
		Token:  token,
		Data:   userData{User: toUserJSON(u)},
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{
		Status:  "success",
		Message: message,
	})
}
