package httputil

import (
	"encoding/json"
	"net/http"
)

// Response is the standard JSON success envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondSuccess writes the standard success envelope.
func RespondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// RespondError writes the standard error envelope {success:false, message}
// plus any extra context fields at the top level.
func RespondError(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	RespondJSON(w, status, body)
}
