package apierror

import "fmt"

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Taxonomy constructors for the failure classes the console distinguishes.

func Unauthorized(details string) *APIError {
	return New("UNAUTHORIZED", "no valid credential", details, 401)
}

func Validation(message string, field string) *APIError {
	return New("VALIDATION", message, field, 400)
}

func Network(err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return New("NETWORK_ERROR", "backend unreachable", details, 502)
}

func Server(status int, details string) *APIError {
	return New("SERVER_ERROR", fmt.Sprintf("backend returned status %d", status), details, status)
}

func NotFound(message string, details string) *APIError {
	return New("NOT_FOUND", message, details, 404)
}

func Conflict(message string, details string) *APIError {
	return New("CONFLICT", message, details, 409)
}
