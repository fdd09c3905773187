package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
)

// WriteErrorAndStatusCode writes err as plain text with the status it maps to.
// Unknown errors are 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	http.Error(w, errors.UserMessage(err), errors.StatusCode(err))
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError is WriteErrorAndStatusCode for JSON clients.
func WriteJSONError(w http.ResponseWriter, err error) {
	WriteJSON(w, errors.StatusCode(err), errorResponse{Error: errors.UserMessage(err)})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode JSON response", "error", err)
	}
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body is not valid JSON", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	return nil
}
