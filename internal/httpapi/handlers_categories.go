package httpapi

import (
	"net/http"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type categoryJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryJSON(c domain.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func writeCategory(w http.ResponseWriter, status int, c domain.Category) {
	WriteJSON(w, status, struct {
		Status string `json:"status"`
		Data   struct {
			Category categoryJSON `json:"category"`
		} `json:"data"`
	}{
		Status: "success",
		Data: struct {
			Category categoryJSON `json:"category"`
		}{Category: toCategoryJSON(c)},
	})
}

func (a *api) handleCategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categoriesSvc.List(r.Context())
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryJSON(c))
	}

	WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
		Data   struct {
			Categories []categoryJSON `json:"categories"`
		} `json:"data"`
	}{
		Status: "success",
		Count:  len(out),
		Data: struct {
			Categories []categoryJSON `json:"categories"`
		}{Categories: out},
	})
}

func (a *api) handleCategoriesGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.categoriesSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}
	writeCategory(w, http.StatusOK, c)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (a *api) handleCategoriesCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	c, err := a.categoriesSvc.Create(r.Context(), req.Name)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}
	writeCategory(w, http.StatusCreated, c)
}

func (a *api) handleCategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	c, err := a.categoriesSvc.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		a.WriteDomainError(w, err)
		return
	}
	writeCategory(w, http.StatusOK, c)
}

func (a *api) handleCategoriesDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.categoriesSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
