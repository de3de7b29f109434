package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"r4academy-backend-go/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceError writes a ServiceError with its own status and reports
// whether it handled the error. Unknown errors stay with the caller.
func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}

// WriteServiceError is the single exit for handler failures. ServiceErrors
// carry their own status and message; anything else is logged and
// answered as a generic 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	if mapServiceError(w, err) {
		return
	}
	log.Printf("internal error: %v", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
