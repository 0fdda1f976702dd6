package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/riteshkumar/bank-ledger/internal/models"
)

// maxBodyBytes bounds a request body; no operation needs more than a few fields.
const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func WriteError(w http.ResponseWriter, status int, errorMsg, details string) {
	WriteJSON(w, status, models.ErrorResponse{
		Error:   errorMsg,
		Message: details,
	})
}

// DecodeJSON reads a single JSON object from r into dst. An empty body leaves
// dst untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if decoder.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
