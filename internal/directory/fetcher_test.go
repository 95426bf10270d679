package directory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

type fakeCreds struct {
	ok bool
}

func (c fakeCreds) Token(_ context.Context) (string, bool) {
	if !c.ok {
		return "", false
	}
	return "tok", true
}

type listCall struct {
	roleID int
	page   int
	limit  int
}

type fakeLister struct {
	mu      sync.Mutex
	calls   []listCall
	err     error
	total   int
	block   map[int]chan struct{}
	started chan listCall
}

func newFakeLister(total int) *fakeLister {
	return &fakeLister{total: total, block: map[int]chan struct{}{}}
}

func (f *fakeLister) UsersByRole(_ context.Context, roleID int, page int, limit int) (model.PageState, error) {
	f.mu.Lock()
	call := listCall{roleID: roleID, page: page, limit: limit}
	f.calls = append(f.calls, call)
	gate := f.block[roleID]
	err := f.err
	total := f.total
	f.mu.Unlock()

	if f.started != nil {
		f.started <- call
	}
	if gate != nil {
		<-gate
	}

	if err != nil {
		return model.PageState{}, err
	}

	users := make([]model.UserRecord, 0, limit)
	count := limit
	if remaining := total - (page-1)*limit; remaining < count {
		count = remaining
	}
	for i := 0; i < count; i++ {
		users = append(users, model.UserRecord{ID: (page-1)*limit + i + 1, RoleID: roleID})
	}

	return model.PageState{RoleID: roleID, Page: page, Limit: limit, Users: users, Total: total}, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestFetcherDeduplication(t *testing.T) {
	t.Parallel()

	t.Run("identical fetch issued before the first resolves is suppressed", func(t *testing.T) {
		lister := newFakeLister(10)
		gate := make(chan struct{})
		lister.block[1] = gate
		lister.started = make(chan listCall, 1)

		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = fetcher.Fetch(context.Background(), 1, 1, 5)
		}()

		<-lister.started

		// Same fingerprint while the first call is still in flight.
		state, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)
		require.Equal(t, 1, lister.callCount())
		require.Empty(t, state.Users)

		close(gate)
		<-done
		require.Equal(t, 1, lister.callCount())
	})

	t.Run("identical fetch after completion is still suppressed", func(t *testing.T) {
		lister := newFakeLister(10)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		first, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)

		second, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)
		require.Equal(t, 1, lister.callCount())
		require.Equal(t, first, second)
	})

	t.Run("changing page or role attempts a new request", func(t *testing.T) {
		lister := newFakeLister(20)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)
		_, err = fetcher.Fetch(context.Background(), 1, 2, 5)
		require.NoError(t, err)
		_, err = fetcher.Fetch(context.Background(), 2, 2, 5)
		require.NoError(t, err)
		require.Equal(t, 3, lister.callCount())
	})

	t.Run("invalidate forces a refetch of the same fingerprint", func(t *testing.T) {
		lister := newFakeLister(10)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)

		fetcher.Invalidate()

		_, err = fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)
		require.Equal(t, 2, lister.callCount())
	})
}

func TestFetcherFailure(t *testing.T) {
	t.Parallel()

	t.Run("missing credential fails before contacting the backend", func(t *testing.T) {
		lister := newFakeLister(10)
		fetcher := NewFetcher(lister, fakeCreds{ok: false}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "UNAUTHORIZED", apiErr.Code)
		require.Zero(t, lister.callCount())
		require.False(t, fetcher.Loading())
	})

	t.Run("backend failure resets the page state", func(t *testing.T) {
		lister := newFakeLister(20)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 2, 5)
		require.NoError(t, err)
		require.Equal(t, 2, fetcher.State().Page)

		lister.mu.Lock()
		lister.err = apierror.Server(500, "boom")
		lister.mu.Unlock()

		_, err = fetcher.Fetch(context.Background(), 1, 3, 5)
		require.Error(t, err)

		state := fetcher.State()
		require.Equal(t, model.EmptyPage(1, 5), state)
		require.False(t, fetcher.Loading())
	})
}

func TestFetcherStaleResponseDropped(t *testing.T) {
	t.Parallel()

	lister := newFakeLister(10)
	slowGate := make(chan struct{})
	lister.block[1] = slowGate
	lister.started = make(chan listCall, 2)

	fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fetcher.Fetch(context.Background(), 1, 1, 5)
	}()
	<-lister.started

	// Newer fetch for a different role resolves first.
	_, err := fetcher.Fetch(context.Background(), 2, 1, 5)
	require.NoError(t, err)
	<-lister.started
	require.Equal(t, 2, fetcher.State().RoleID)

	// The older resolution must not clobber the newer state.
	close(slowGate)
	<-done
	require.Equal(t, 2, fetcher.State().RoleID)

	_, seen := fetcher.LastSeen(1)
	require.False(t, seen)
}

func TestFetcherNavigation(t *testing.T) {
	t.Parallel()

	t.Run("select role always starts at page one", func(t *testing.T) {
		lister := newFakeLister(20)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 3, 5)
		require.NoError(t, err)

		state, err := fetcher.SelectRole(context.Background(), 2)
		require.NoError(t, err)
		require.Equal(t, 2, state.RoleID)
		require.Equal(t, 1, state.Page)
	})

	t.Run("change page rejects out of range targets without a backend call", func(t *testing.T) {
		lister := newFakeLister(10) // two pages at limit 5
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 1, 5)
		require.NoError(t, err)
		calls := lister.callCount()

		_, err = fetcher.ChangePage(context.Background(), 3)
		require.ErrorIs(t, err, model.ErrPageOutOfRange)
		_, err = fetcher.ChangePage(context.Background(), 0)
		require.ErrorIs(t, err, model.ErrPageOutOfRange)
		require.Equal(t, calls, lister.callCount())

		state, err := fetcher.ChangePage(context.Background(), 2)
		require.NoError(t, err)
		require.Equal(t, 2, state.Page)
	})

	t.Run("refresh refetches the current fingerprint", func(t *testing.T) {
		lister := newFakeLister(10)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		_, err := fetcher.Fetch(context.Background(), 1, 2, 5)
		require.NoError(t, err)

		require.NoError(t, fetcher.Refresh(context.Background()))
		require.Equal(t, 2, lister.callCount())

		lister.mu.Lock()
		last := lister.calls[len(lister.calls)-1]
		lister.mu.Unlock()
		require.Equal(t, listCall{roleID: 1, page: 2, limit: 5}, last)
	})

	t.Run("refresh with no role selected is a no-op", func(t *testing.T) {
		lister := newFakeLister(10)
		fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

		require.NoError(t, fetcher.Refresh(context.Background()))
		require.Zero(t, lister.callCount())
	})
}

func TestFetcherLastSeen(t *testing.T) {
	t.Parallel()

	lister := newFakeLister(7)
	fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)

	_, err := fetcher.Fetch(context.Background(), 1, 2, 5)
	require.NoError(t, err)

	count, ok := fetcher.LastSeen(1)
	require.True(t, ok)
	require.Equal(t, 2, count) // 7 total, page 2 at limit 5 holds the last 2

	_, ok = fetcher.LastSeen(99)
	require.False(t, ok)
}

func TestFetcherLoadingFlag(t *testing.T) {
	t.Parallel()

	lister := newFakeLister(10)
	gate := make(chan struct{})
	lister.block[1] = gate
	lister.started = make(chan listCall, 1)

	fetcher := NewFetcher(lister, fakeCreds{ok: true}, 5)
	require.False(t, fetcher.Loading())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fetcher.Fetch(context.Background(), 1, 1, 5)
	}()
	<-lister.started

	require.Eventually(t, fetcher.Loading, time.Second, time.Millisecond)

	close(gate)
	<-done
	require.False(t, fetcher.Loading())
}
