package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code. Encoding failures are ignored:
// the status line is already on the wire.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes the success envelope {"status":"ok", ...extra}.
func OK(w http.ResponseWriter, code int, extra map[string]any) {
	body := map[string]any{"status": "ok"}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, code, body)
}

// Error writes the failure envelope {"status":"Error","message":...}.
func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, map[string]any{"status": "Error", "message": message})
}
