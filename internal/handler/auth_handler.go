package handler

import (
	"encoding/json"
	"net/http"

	"go-staff-console/internal/model"
	"go-staff-console/internal/session"
	"go-staff-console/pkg/apierror"
)

type AuthHandler struct {
	manager *session.Manager
	guard   *session.Guard
}

func NewAuthHandler(manager *session.Manager, guard *session.Guard) *AuthHandler {
	return &AuthHandler{manager: manager, guard: guard}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	// Symmetric to the protected-view guard: an already-valid session on
	// the login route forwards straight to the directory view.
	if decision, _, _ := h.guard.Evaluate(r.Context()); decision == session.Allow {
		w.Header().Set("Location", "/directory")
		writeSuccess(w, http.StatusSeeOther, map[string]string{"redirect": "/directory"}, nil)
		return
	}

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.manager.Login(r.Context(), payload.EmailID, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	resp, err := h.manager.Signup(r.Context(), payload.Name, payload.EmailID, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, resp, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"redirect": "/auth"}, nil)
}

// Session reports the guard's view of the stored session. The view layer
// calls this before painting a protected page.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	decision, sess, err := h.guard.Evaluate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if decision != session.Allow {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"regNo":     sess.RegNo,
		"roleId":    sess.RoleID,
		"expiresAt": sess.ExpiresAt,
	}, nil)
}
