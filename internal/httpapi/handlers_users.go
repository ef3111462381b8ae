package httpapi

import (
	"net/http"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		a.WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	writeUser(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (a *api) handleUsersMeUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		a.WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	updated, err := a.usersSvc.UpdateProfile(r.Context(), u.ID, req.FirstName, req.LastName, req.DateOfBirth)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	writeUser(w, http.StatusOK, updated)
}
