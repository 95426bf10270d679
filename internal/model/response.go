package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// LoginResult is what the console hands back to its view after a login:
// the subject identity, never the raw credential.
type LoginResult struct {
	EmailID   string `json:"emailId"`
	RegNo     string `json:"regNo"`
	RoleID    int    `json:"roleId"`
	ExpiresAt string `json:"expiresAt"`
}
