package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tourguide/errs"
)

type M map[string]any

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"message": msg})
}

// RespondWithAppError maps an errs kind to a status code. fallback is the
// message for storage and unknown failures; their details are only logged.
func RespondWithAppError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		RespondWithError(w, http.StatusUnauthorized, errs.Message(err, "No token provided"))
	case errors.Is(err, errs.ErrInvalidArgument):
		RespondWithError(w, http.StatusBadRequest, errs.Message(err, "Invalid request"))
	case errors.Is(err, errs.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, errs.Message(err, "Not found"))
	case errors.Is(err, errs.ErrConflict):
		RespondWithError(w, http.StatusConflict, errs.Message(err, "Already exists"))
	default:
		log.Printf("%s: %v", fallback, err)
		RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.E(errs.ErrInvalidArgument, "Invalid request payload")
	}
	return nil
}
