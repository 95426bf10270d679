package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-staff-console/internal/backend"
	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "EMP042",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func loginBackend(t *testing.T, response map[string]any) *backend.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	store := &fakeStore{}
	return backend.NewClient(server.URL, time.Second, NewTokenSource(store))
}

func TestManagerLogin(t *testing.T) {
	t.Parallel()

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	t.Run("persists the full tuple on success", func(t *testing.T) {
		client := loginBackend(t, map[string]any{
			"token":     "opaque-token",
			"expiresAt": expiry.Format(time.RFC3339),
			"data":      map[string]any{"emailId": "a@b.c", "regNo": "EMP042", "roleId": "2"},
		})

		store := &fakeStore{}
		manager := NewManager(store, client)

		result, err := manager.Login(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)
		require.Equal(t, "EMP042", result.RegNo)
		require.Equal(t, 2, result.RoleID)

		sess, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, "opaque-token", sess.Token)
		require.Equal(t, 2, sess.RoleID)
		require.True(t, expiry.Equal(sess.ExpiresAt))
	})

	t.Run("falls back to the token exp claim when expiresAt is missing", func(t *testing.T) {
		tokenExp := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)
		client := loginBackend(t, map[string]any{
			"token": signedToken(t, tokenExp),
			"data":  map[string]any{"emailId": "a@b.c", "regNo": "EMP042", "roleId": "3"},
		})

		store := &fakeStore{}
		manager := NewManager(store, client)

		_, err := manager.Login(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)

		sess, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.True(t, present)
		require.True(t, tokenExp.Equal(sess.ExpiresAt))
	})

	t.Run("rejects blank credentials before calling the backend", func(t *testing.T) {
		manager := NewManager(&fakeStore{}, backend.NewClient("http://127.0.0.1:0", time.Second, NewTokenSource(&fakeStore{})))

		_, err := manager.Login(context.Background(), "", "pw")
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION", apiErr.Code)

		_, err = manager.Login(context.Background(), "a@b.c", "")
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION", apiErr.Code)
	})

	t.Run("rejects a non-numeric roleId", func(t *testing.T) {
		client := loginBackend(t, map[string]any{
			"token":     "opaque-token",
			"expiresAt": expiry.Format(time.RFC3339),
			"data":      map[string]any{"emailId": "a@b.c", "regNo": "EMP042", "roleId": "editor"},
		})

		store := &fakeStore{}
		manager := NewManager(store, client)

		_, err := manager.Login(context.Background(), "a@b.c", "pw")
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION", apiErr.Code)

		_, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.False(t, present)
	})
}

func TestManagerLogout(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	require.NoError(t, store.Save(context.Background(), model.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		RegNo:     "EMP042",
		RoleID:    2,
	}))

	manager := NewManager(store, nil)
	require.NoError(t, manager.Logout(context.Background()))

	_, present, err := store.Load(context.Background())
	require.NoError(t, err)
	require.False(t, present)
}
