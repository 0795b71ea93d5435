package json

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes a response with the given status. Errors after
// WriteHeader cannot change the status code, so encoding errors are ignored.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
