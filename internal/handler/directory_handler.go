package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-staff-console/internal/directory"
	"go-staff-console/internal/middleware"
	"go-staff-console/internal/model"
	"go-staff-console/internal/pagination"
	"go-staff-console/pkg/apierror"
)

type DirectoryHandler struct {
	fetcher  *directory.Fetcher
	catalog  *directory.CatalogLoader
	policy   directory.AccessPolicy
	notifier *directory.Notifier
}

func NewDirectoryHandler(fetcher *directory.Fetcher, catalog *directory.CatalogLoader, policy directory.AccessPolicy, notifier *directory.Notifier) *DirectoryHandler {
	return &DirectoryHandler{fetcher: fetcher, catalog: catalog, policy: policy, notifier: notifier}
}

func (h *DirectoryHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.catalog.Roles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"roles": roles}, nil)
}

func (h *DirectoryHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.catalog.Departments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"departments": departments}, nil)
}

// Users is the navigation-driven view load: overlapping calls with the same
// role/page/limit collapse into one backend request via the fetcher's dedup.
func (h *DirectoryHandler) Users(w http.ResponseWriter, r *http.Request) {
	roleID, err := queryInt(r, "role", 0)
	if err != nil || roleID <= 0 {
		writeError(w, apierror.Validation("role query parameter is required", "role"))
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, apierror.Validation("page must be numeric", "page"))
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, apierror.Validation("limit must be numeric", "limit"))
		return
	}

	state, err := h.fetcher.Fetch(r.Context(), roleID, page, limit)
	if err != nil {
		// The view still renders: an empty page plus the logged error, per
		// the display contract for failed fetches.
		h.writeView(w, r, state)
		return
	}

	h.writeView(w, r, state)
}

// SelectRole is the explicit role-card click: always resets to page one and
// bypasses deduplication.
func (h *DirectoryHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := strconv.Atoi(chi.URLParam(r, "roleID"))
	if err != nil || roleID <= 0 {
		writeError(w, apierror.Validation("roleID must be a positive integer", "roleID"))
		return
	}

	if _, err := h.catalog.RoleByID(r.Context(), roleID); err != nil {
		writeError(w, err)
		return
	}

	state, err := h.fetcher.SelectRole(r.Context(), roleID)
	if err != nil {
		h.writeView(w, r, state)
		return
	}

	h.writeView(w, r, state)
}

// ChangePage is the explicit pagination click. Out-of-range targets are
// rejected with an error rather than clamped.
func (h *DirectoryHandler) ChangePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, apierror.Validation("page must be numeric", "page"))
		return
	}

	state, err := h.fetcher.ChangePage(r.Context(), page)
	if err != nil {
		if errors.Is(err, model.ErrPageOutOfRange) {
			writeError(w, err)
			return
		}
		h.writeView(w, r, state)
		return
	}

	h.writeView(w, r, state)
}

type directoryView struct {
	State        model.PageState         `json:"state"`
	Markers      []pagination.Marker     `json:"markers"`
	Controls     pagination.Controls     `json:"controls"`
	CanMutate    bool                    `json:"can_mutate"`
	LastSeen     int                     `json:"last_seen_count"`
	Notification *directory.Notification `json:"notification,omitempty"`
}

func (h *DirectoryHandler) writeView(w http.ResponseWriter, r *http.Request, state model.PageState) {
	totalPages := state.TotalPages()

	view := directoryView{
		State:    state,
		Markers:  pagination.Present(state.Page, totalPages),
		Controls: pagination.ControlsFor(state.Page, totalPages),
	}

	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		view.CanMutate = h.policy.CanMutate(sess)
	}

	if count, ok := h.fetcher.LastSeen(state.RoleID); ok {
		view.LastSeen = count
	}

	if notice, ok := h.notifier.Current(); ok {
		view.Notification = &notice
	}

	meta := &model.Meta{
		Page:       state.Page,
		Limit:      state.Limit,
		Total:      state.Total,
		TotalPages: totalPages,
	}

	writeSuccess(w, http.StatusOK, view, meta)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}
