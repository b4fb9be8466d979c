package handler

import (
	"net/http"

	"github.com/likes-relay-service/internal/httputil"
)

// RespondSuccess writes the standard success envelope.
func RespondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	httputil.RespondSuccess(w, status, message, data)
}

// RespondError writes a JSON error envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	httputil.RespondError(w, status, message, nil)
}
