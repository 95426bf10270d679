package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-staff-console/internal/backend"
	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

// Manager owns the login/logout lifecycle: it is the single writer of the
// session store. Login persists the full tuple as a unit; logout clears it
// as a unit.
type Manager struct {
	store  Store
	client *backend.Client
}

func NewManager(store Store, client *backend.Client) *Manager {
	return &Manager{store: store, client: client}
}

func (m *Manager) Login(ctx context.Context, emailID string, password string) (model.LoginResult, error) {
	emailID = strings.TrimSpace(emailID)
	if emailID == "" {
		return model.LoginResult{}, apierror.Validation("emailId is required", "emailId")
	}
	if password == "" {
		return model.LoginResult{}, apierror.Validation("password is required", "password")
	}

	resp, err := m.client.Login(ctx, model.LoginRequest{EmailID: emailID, Password: password})
	if err != nil {
		return model.LoginResult{}, err
	}

	if resp.Token == "" {
		return model.LoginResult{}, apierror.New("SERVER_ERROR", "login response missing token", "", http.StatusBadGateway)
	}

	expiresAt := parseExpiry(resp.ExpiresAt)
	if expiresAt.IsZero() {
		// Older backend versions omit expiresAt; fall back to the token's
		// own exp claim. Unverified parse: expiry is bookkeeping here, the
		// backend stays the authority on token validity.
		expiresAt = tokenExpiry(resp.Token)
	}
	if expiresAt.IsZero() {
		return model.LoginResult{}, apierror.New("SERVER_ERROR", "login response missing expiry", "", http.StatusBadGateway)
	}

	roleID, err := backend.ParseRoleID(resp.Data.RoleID)
	if err != nil {
		return model.LoginResult{}, err
	}

	sess := model.Session{
		Token:     resp.Token,
		ExpiresAt: expiresAt,
		RegNo:     resp.Data.RegNo,
		RoleID:    roleID,
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return model.LoginResult{}, err
	}

	slog.Info("login", "reg_no", sess.RegNo, "role_id", sess.RoleID, "expires_at", expiresAt)

	return model.LoginResult{
		EmailID:   resp.Data.EmailID,
		RegNo:     sess.RegNo,
		RoleID:    sess.RoleID,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

func (m *Manager) Signup(ctx context.Context, name string, emailID string, password string) (backend.SignupResponse, error) {
	name = strings.TrimSpace(name)
	emailID = strings.TrimSpace(emailID)

	if name == "" {
		return backend.SignupResponse{}, apierror.Validation("name is required", "name")
	}
	if emailID == "" {
		return backend.SignupResponse{}, apierror.Validation("emailId is required", "emailId")
	}
	if password == "" {
		return backend.SignupResponse{}, apierror.Validation("password is required", "password")
	}

	return m.client.Signup(ctx, model.SignupRequest{Name: name, EmailID: emailID, Password: password})
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	slog.Info("logout, session cleared")
	return nil
}

func (m *Manager) Current(ctx context.Context) (model.Session, bool, error) {
	return m.store.Load(ctx)
}

func parseExpiry(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return t
}

func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
