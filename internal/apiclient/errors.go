package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobportal_web/pkg/apperrors"
)

// errorBody - формы тела ошибки, которые встречаются у backend
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// normalizeError: сообщение = body.message | body.error | текст по умолчанию
func normalizeError(status int, data []byte, defaultMessage string) *apperrors.AppError {
	message := extractMessage(data)
	if message == "" {
		message = defaultMessage
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("backend", message)
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(message)
	default:
		return apperrors.ErrBackend(status, message)
	}
}

func extractMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	if len(body.Error) == 0 {
		return ""
	}
	// "error" бывает строкой или объектом {message}
	var s string
	if err := json.Unmarshal(body.Error, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested errorBody
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

// transportMessage - пользователю только сообщение операции; текст сетевой
// ошибки (с адресом backend) остаётся в логах
func transportMessage(defaultMessage string) string {
	if defaultMessage != "" {
		return defaultMessage
	}
	return "Service is temporarily unavailable"
}
