// Package rest holds the HTTP response envelope and the mapping from
// application errors to status codes.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artilheiro/store-backend/internal/application"
)

type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// WriteError maps application errors to HTTP responses. Anything
// outside the service taxonomy becomes an opaque 500; internal error
// text never reaches the client.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	svcErr, ok := application.IsServiceError(err)
	if !ok {
		svcErr = application.NewInternalError(err)
	}
	if svcErr.HTTPStatus >= 500 && logger != nil {
		logger.Error("request failed", "code", svcErr.Code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Detail:  svcErr.Detail,
		},
	})
}
