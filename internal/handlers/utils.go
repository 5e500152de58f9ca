package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the flat error envelope: every failure surfaces as
// {"error": message}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the success envelope shared by all endpoints.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// NotFound serves unmatched routes in the flat error model.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusBadRequest, "Endpoint not found")
}

// MethodNotAllowed serves disallowed methods on matched routes.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Healthz is the liveness endpoint.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// atoiOr parses value, falling back to def for empty or malformed input.
func atoiOr(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// parseOptionalBool distinguishes an absent flag (nil) from a supplied
// one; malformed values count as false.
func parseOptionalBool(value string) *bool {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		parsed = false
	}
	return &parsed
}
