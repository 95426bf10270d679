package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-staff-console/internal/backend"
	"go-staff-console/internal/directory"
	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

type UserHandler struct {
	client      *backend.Client
	coordinator *directory.Coordinator
}

func NewUserHandler(client *backend.Client, coordinator *directory.Coordinator) *UserHandler {
	return &UserHandler{client: client, coordinator: coordinator}
}

// Get resolves a single record by registration number or id, used for the
// signed-in operator's own banner entry as well as row detail.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, apierror.Validation("user reference is required", "ref"))
		return
	}

	user, err := h.client.User(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	created, err := h.coordinator.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, created, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	updated, err := h.coordinator.Update(r.Context(), chi.URLParam(r, "regNo"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.Delete(r.Context(), chi.URLParam(r, "regNo")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "user deleted"}, nil)
}
