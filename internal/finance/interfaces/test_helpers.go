package interfaces

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	body := errorBody{Status: "error", Message: message, Code: status}
	if len(errors) > 0 {
		body.Errors = errors[0]
	}
	respondJSON(w, status, body)
}
