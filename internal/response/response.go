package response

import (
	"encoding/json"
	"net/http"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
)

// Envelope is the uniform response shape on every route. Clients branch on
// Success only.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteSuccess writes a success envelope with the given data.
func WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteFailure writes a failure envelope with an explicit status.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// WriteError maps err to a response: a typed application error surfaces with
// its own status, anything else is an unexpected fault and surfaces as 500
// with the caught message (or a generic fallback when empty).
func WriteError(w http.ResponseWriter, err error) {
	if appErr := apperr.From(err); appErr != nil {
		WriteFailure(w, appErr.Status, appErr.Message)
		return
	}
	message := "Internal Server Error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	WriteFailure(w, http.StatusInternalServerError, message)
}
