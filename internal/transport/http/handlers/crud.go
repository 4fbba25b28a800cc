package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
	"github.com/svillar/quiet/internal/transport/http/respond"
)

// Resource is the generic CRUD handler: it shapes requests into repository
// calls for any entity type and forwards every failure to the response
// boundary unchanged.
type Resource[T domain.Entity, P any] struct {
	repo repository.Repository[T, P]
}

func NewResource[T domain.Entity, P any](repo repository.Repository[T, P]) *Resource[T, P] {
	return &Resource[T, P]{repo: repo}
}

func (h *Resource[T, P]) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), 1, 0)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Resource[T, P]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Invalid id"))
		return
	}

	item, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, item)
}

func (h *Resource[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		respond.Error(w, apperr.BadRequest("Invalid request body"))
		return
	}

	if err := h.repo.Create(r.Context(), &entity); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, entity)
}

func (h *Resource[T, P]) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Invalid id"))
		return
	}

	var patch P
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, apperr.BadRequest("Invalid request body"))
		return
	}

	updated, err := h.repo.Update(r.Context(), id, patch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, updated)
}

func (h *Resource[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Invalid id"))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
