package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON serializes v to the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps an error to its HTTP status. Non-AppError values are
// treated as internal and their details are kept out of the response body.
func WriteError(w http.ResponseWriter, err error) {
	var ae *AppError
	if errors.As(err, &ae) {
		if ae.Kind == KindInternal {
			Logger.Error("internal error", zap.Error(err))
			WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			return
		}
		WriteJSON(w, ae.HTTPStatus(), errorBody{Error: ae.Message})
		return
	}

	Logger.Error("unexpected error", zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}
