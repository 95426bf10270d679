package middleware

import (
	"fmt"
	"net/http"
	"time"
)

// Timeout bounds every API request. The body matches the standard error
// envelope so the view layer parses timeouts like any other failure.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := fmt.Sprintf(
		`{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request exceeded %s"}}`,
		timeout,
	)

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
