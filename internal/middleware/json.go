package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonEncode writes an envelope from middleware that answers before any
// handler runs (recovery, the session guard).
func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}
