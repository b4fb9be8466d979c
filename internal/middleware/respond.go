package middleware

import (
	"net/http"

	"github.com/likes-relay-service/internal/httputil"
)

func respondError(w http.ResponseWriter, status int, message string) {
	httputil.RespondError(w, status, message, nil)
}
