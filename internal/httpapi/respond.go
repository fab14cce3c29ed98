package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// errorJSON writes the structured error payload. Internal details never end
// up in detail; callers log them and pass a generic message instead.
func errorJSON(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// unauthorizedJSON is the single 401 shape used for every authentication
// failure, whatever the cause.
func unauthorizedJSON(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	errorJSON(w, http.StatusUnauthorized, detail)
}

func serverError(w http.ResponseWriter, err error) {
	log.Printf("ERROR: %v", err)
	errorJSON(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
