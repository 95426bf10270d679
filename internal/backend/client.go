package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

// TokenSource supplies the bearer credential for outgoing requests. The
// second return value is false when no credential is stored, in which case
// the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client talks to the directory backend. It owns no state beyond the HTTP
// client; everything it returns is a read-through copy of backend data.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, false); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (SignupResponse, error) {
	var out SignupResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &out, false); err != nil {
		return SignupResponse{}, err
	}
	return out, nil
}

func (c *Client) Roles(ctx context.Context) ([]model.Role, error) {
	var out rolesResponse
	if err := c.do(ctx, http.MethodGet, "/roles", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data.Roles, nil
}

func (c *Client) Departments(ctx context.Context) ([]model.Department, error) {
	var out departmentsResponse
	if err := c.do(ctx, http.MethodGet, "/departments", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data.Departments, nil
}

func (c *Client) UsersByRole(ctx context.Context, roleID int, page int, limit int) (model.PageState, error) {
	path := fmt.Sprintf("/users/byRole/%d?page=%d&limit=%d", roleID, page, limit)

	var out usersByRoleResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return model.PageState{}, err
	}

	// Some backend versions key the rows as "data", others as "users".
	users := out.Data.Data
	if users == nil {
		users = out.Data.Users
	}
	if users == nil {
		users = []model.UserRecord{}
	}

	return model.PageState{
		RoleID: roleID,
		Page:   out.Data.Page,
		Limit:  out.Data.Limit,
		Users:  users,
		Total:  out.Data.Total,
	}, nil
}

func (c *Client) User(ctx context.Context, ref string) (model.UserRecord, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(ref), nil, &out, true); err != nil {
		return model.UserRecord{}, err
	}
	return out.Data, nil
}

func (c *Client) CreateUser(ctx context.Context, payload model.UserPayload) (model.UserRecord, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPost, "/users", payload, &out, true); err != nil {
		return model.UserRecord{}, err
	}
	return out.Data, nil
}

func (c *Client) UpdateUser(ctx context.Context, regNo string, payload model.UserPayload) (model.UserRecord, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(regNo), payload, &out, true); err != nil {
		return model.UserRecord{}, err
	}
	return out.Data, nil
}

func (c *Client) DeleteUser(ctx context.Context, regNo string) (model.UserRecord, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(regNo), nil, &out, true); err != nil {
		return model.UserRecord{}, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apierror.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apierror.Network(err)
	}

	if resp.StatusCode >= 400 {
		return classify(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}

// classify maps a non-2xx backend response onto the console's error
// taxonomy, keeping whatever message the backend included as details.
func classify(status int, raw []byte) error {
	details := backendMessage(raw)

	switch status {
	case http.StatusUnauthorized:
		return apierror.Unauthorized(details)
	case http.StatusNotFound:
		return apierror.NotFound("record not found", details)
	case http.StatusConflict:
		return apierror.Conflict("duplicate record", details)
	default:
		return apierror.Server(status, details)
	}
}

func backendMessage(raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

// ParseRoleID handles the login payload's roleId, which older backend
// versions send as a quoted string.
func ParseRoleID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.Validation("roleId is not numeric", "roleId")
	}
	return id, nil
}
