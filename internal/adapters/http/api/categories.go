// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// CategoriesHandler handles taxonomy catalog requests.
type CategoriesHandler struct {
	deps CategoryDependencies
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(deps CategoryDependencies) *CategoriesHandler {
	return &CategoriesHandler{deps: deps}
}

// HandleListCategories handles GET /categories requests.
func (h *CategoriesHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ListCategories(r.Context()))
}

type tagsResponse struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// HandleCategoryTags handles GET /categories/{key}/tags requests.
func (h *CategoriesHandler) HandleCategoryTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/categories/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "tags" {
		http.NotFound(w, r)
		return
	}
	key := parts[0]
	writeJSON(w, http.StatusOK, tagsResponse{
		Category: key,
		Tags:     h.deps.TagsForCategory(r.Context(), key),
	})
}
