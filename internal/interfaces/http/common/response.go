package common

import (
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// WriteJSON は status とともに payload を JSON で書き込む。
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// WriteError writes {"error": message} and logs server-side failures.
func WriteError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil && logger != nil && status >= http.StatusInternalServerError {
		logger.Error(message, zap.Int("status", status), zap.String("path", r.URL.Path), zap.Error(err))
	}
	WriteJSON(w, r, status, map[string]string{"error": message})
}
