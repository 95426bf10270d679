//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-staff-console/internal/backend"
	"go-staff-console/internal/config"
	"go-staff-console/internal/directory"
	"go-staff-console/internal/handler"
	"go-staff-console/internal/middleware"
	"go-staff-console/internal/router"
	"go-staff-console/internal/session"
)

// fakeBackend is a scripted stand-in for the directory service, counting
// calls per endpoint so tests can assert deduplication and refetching.
type fakeBackend struct {
	mu          sync.Mutex
	listCalls   int
	createCalls int
	deleteCalls int
	roleID      string
	total       int
	missing     map[string]bool
}

func newFakeBackend(adminRoleID string, total int) *fakeBackend {
	return &fakeBackend{roleID: adminRoleID, total: total, missing: map[string]bool{}}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":     "backend-token",
			"expiresAt": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			"data":      map[string]any{"emailId": "admin@example.com", "regNo": "EMP001", "roleId": b.roleID},
		})
	})

	mux.HandleFunc("GET /roles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"roles": []map[string]any{
				{"id": 2, "roleName": "admin"},
				{"id": 3, "roleName": "employee"},
			}},
		})
	})

	mux.HandleFunc("GET /departments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"departments": []map[string]any{{"id": 1, "deptName": "engineering"}}},
		})
	})

	mux.HandleFunc("GET /users/byRole/{roleID}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls++
		b.mu.Unlock()

		users := []map[string]any{}
		for i := 1; i <= 5 && i <= b.total; i++ {
			users = append(users, map[string]any{
				"id": i, "regNo": fmt.Sprintf("EMP%03d", i), "name": fmt.Sprintf("User %d", i),
				"emailId": fmt.Sprintf("u%d@example.com", i), "status": "Active",
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"data": users, "total": b.total, "page": 1, "limit": 5},
		})
	})

	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.createCalls++
		b.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "created",
			"data":    map[string]any{"id": 99, "regNo": "EMP099", "name": "New User"},
		})
	})

	mux.HandleFunc("DELETE /users/{regNo}", func(w http.ResponseWriter, r *http.Request) {
		regNo := r.PathValue("regNo")

		b.mu.Lock()
		b.deleteCalls++
		gone := b.missing[regNo]
		b.missing[regNo] = true
		b.mu.Unlock()

		if gone {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "user not found"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted", "data": map[string]any{"regNo": regNo}})
	})

	return mux
}

func (b *fakeBackend) counts() (int, int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls, b.createCalls, b.deleteCalls
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newConsole wires the full console stack against the fake backend, using a
// file session store under the test's temp dir.
func newConsole(t *testing.T, fake *fakeBackend) *httptest.Server {
	t.Helper()

	backendServer := httptest.NewServer(fake.handler())
	t.Cleanup(backendServer.Close)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		BackendBaseURL:   backendServer.URL,
		BackendTimeout:   5 * time.Second,
		AdminRoleID:      2,
		DefaultPageLimit: 5,
		NotificationTTL:  3 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	tokens := session.NewTokenSource(store)
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, tokens)
	guard := session.NewGuard(store)
	manager := session.NewManager(store, client)

	catalog := directory.NewCatalogLoader(client)
	fetcher := directory.NewFetcher(client, tokens, cfg.DefaultPageLimit)
	policy := directory.NewAccessPolicy(cfg.AdminRoleID)
	notifier := directory.NewNotifier(cfg.NotificationTTL)
	coordinator := directory.NewCoordinator(client, store, policy, fetcher, notifier)

	guardMiddleware := middleware.NewGuardMiddleware(guard)
	authHandler := handler.NewAuthHandler(manager, guard)
	directoryHandler := handler.NewDirectoryHandler(fetcher, catalog, policy, notifier)
	userHandler := handler.NewUserHandler(client, coordinator)

	console := httptest.NewServer(router.New(cfg, guardMiddleware, authHandler, directoryHandler, userHandler))
	t.Cleanup(console.Close)

	return console
}

func login(t *testing.T, console *httptest.Server) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"emailId": "admin@example.com", "password": "pw"})
	require.NoError(t, err)

	resp, err := http.Post(console.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func doJSON(t *testing.T, method string, url string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}
