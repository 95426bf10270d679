package directory

import (
	"context"
	"log/slog"
	"sync"

	"go-staff-console/internal/model"
	"go-staff-console/internal/pagination"
	"go-staff-console/pkg/apierror"
)

type userLister interface {
	UsersByRole(ctx context.Context, roleID int, page int, limit int) (model.PageState, error)
}

type credentialSource interface {
	Token(ctx context.Context) (string, bool)
}

// fingerprint identifies a specific page request. Two calls with the same
// fingerprint are the same request as far as deduplication is concerned.
type fingerprint struct {
	roleID int
	page   int
	limit  int
}

// Fetcher owns the current PageState for the directory view and the
// deduplicated retrieval that feeds it. Overlapping triggers for the same
// {role, page, limit} collapse into one backend call; responses that arrive
// after a newer fetch has been initiated are dropped instead of clobbering
// fresher state.
type Fetcher struct {
	backend      userLister
	credentials  credentialSource
	defaultLimit int

	mu       sync.Mutex
	last     *fingerprint
	seq      uint64
	state    model.PageState
	loading  bool
	lastSeen map[int]int
}

func NewFetcher(backend userLister, credentials credentialSource, defaultLimit int) *Fetcher {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}

	return &Fetcher{
		backend:      backend,
		credentials:  credentials,
		defaultLimit: defaultLimit,
		state:        model.EmptyPage(0, defaultLimit),
		lastSeen:     map[int]int{},
	}
}

// Fetch retrieves one page of users for a role. A call whose fingerprint
// matches the most recently initiated one is a no-op returning the current
// state; the fingerprint is recorded at initiation, so a duplicate arriving
// before the first call resolves is still suppressed.
func (f *Fetcher) Fetch(ctx context.Context, roleID int, page int, limit int) (model.PageState, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = f.defaultLimit
	}

	fp := fingerprint{roleID: roleID, page: page, limit: limit}

	f.mu.Lock()
	if f.last != nil && *f.last == fp {
		state := f.state
		f.mu.Unlock()
		return state, nil
	}

	f.last = &fp
	f.seq++
	mySeq := f.seq
	f.loading = true
	f.mu.Unlock()

	if _, ok := f.credentials.Token(ctx); !ok {
		return f.settle(mySeq, fp, model.PageState{}, apierror.Unauthorized("no stored credential"))
	}

	result, err := f.backend.UsersByRole(ctx, roleID, page, limit)
	return f.settle(mySeq, fp, result, err)
}

// settle commits a resolution, but only if no newer fetch was initiated in
// the meantime. The loading flag drops on every exit path.
func (f *Fetcher) settle(mySeq uint64, fp fingerprint, result model.PageState, err error) (model.PageState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if mySeq != f.seq {
		slog.Debug("dropping stale fetch resolution",
			"role_id", fp.roleID, "page", fp.page, "seq", mySeq, "latest", f.seq)
		return f.state, err
	}

	f.loading = false

	if err != nil {
		slog.Error("failed to fetch users", "role_id", fp.roleID, "page", fp.page, "error", err)
		f.state = model.EmptyPage(fp.roleID, fp.limit)
		return f.state, err
	}

	// Normalize fields the backend may omit so PageState stays consistent.
	result.RoleID = fp.roleID
	if result.Page <= 0 {
		result.Page = fp.page
	}
	if result.Limit <= 0 {
		result.Limit = fp.limit
	}
	if result.Users == nil {
		result.Users = []model.UserRecord{}
	}

	f.state = result
	f.lastSeen[fp.roleID] = len(result.Users)

	slog.Info("fetched users", "role_id", fp.roleID, "page", result.Page, "count", len(result.Users), "total", result.Total)
	return f.state, nil
}

// SelectRole switches the view to a role, always starting at page one. Role
// changes invalidate the dedup fingerprint so the new combination is
// attempted even if it matches an older request.
func (f *Fetcher) SelectRole(ctx context.Context, roleID int) (model.PageState, error) {
	f.Invalidate()
	return f.Fetch(ctx, roleID, 1, f.defaultLimit)
}

// ChangePage moves to an explicitly requested page. Requests outside
// [1, totalPages] are rejected, never clamped.
func (f *Fetcher) ChangePage(ctx context.Context, page int) (model.PageState, error) {
	f.mu.Lock()
	current := f.state
	f.mu.Unlock()

	if err := pagination.ValidatePageChange(page, current.TotalPages()); err != nil {
		return current, err
	}

	f.Invalidate()
	return f.Fetch(ctx, current.RoleID, page, current.Limit)
}

// Refresh re-fetches the current page with the fingerprint forcibly
// invalidated. Used after mutations so the view reflects the change.
func (f *Fetcher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	current := f.state
	f.mu.Unlock()

	if current.RoleID == 0 {
		return nil
	}

	f.Invalidate()
	_, err := f.Fetch(ctx, current.RoleID, current.Page, current.Limit)
	return err
}

// Invalidate clears the dedup fingerprint so the next fetch always runs.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = nil
}

func (f *Fetcher) State() model.PageState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// LastSeen reports the user count of the most recent successful fetch for a
// role. Display-only; it says nothing about the backend's current truth.
func (f *Fetcher) LastSeen(roleID int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count, ok := f.lastSeen[roleID]
	return count, ok
}
