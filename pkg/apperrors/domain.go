package apperrors

import (
	"net/http"
)

/*
Фабрики для таксономии ошибок взаимодействия с backend:
(a) транспорт, (b) ошибка backend с сообщением, (c) not found, (d) предусловие.
*/

// ErrTransport - backend недоступен (сеть, таймаут, битый ответ)
func ErrTransport(err error, message string) *AppError {
	return Wrap(err, CodeTransport, "backend", message, http.StatusBadGateway)
}

// ErrBackend - backend ответил ошибкой; message берется из тела ответа
func ErrBackend(status int, message string) *AppError {
	if status < 400 {
		status = http.StatusBadGateway
	}
	return New(CodeBackend, "backend", message, status)
}

// ErrPrecondition - действие недопустимо в текущем состоянии клиента
func ErrPrecondition(domain, message string) *AppError {
	return New(CodePrecondition, domain, message, http.StatusPreconditionFailed)
}

// ErrInFlight - такой же запрос уже выполняется
func ErrInFlight(domain, message string) *AppError {
	return New(CodeInFlight, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

var ErrJobNotFound = New(CodeNotFound, "jobs", "Job not found", http.StatusNotFound)

var ErrNotAuthenticated = New(CodeUnauthorized, "auth", "Authentication required", http.StatusUnauthorized)

var ErrInvalidOAuthState = New(CodeInvalidState, "auth", "Sign-in session expired, please try again", http.StatusBadRequest)

var ErrTooManyAttempts = New(CodeTooManyTries, "auth", "Too many attempts, please wait a moment", http.StatusTooManyRequests)

var ErrEmptyAlert = ErrPrecondition("alerts", "Enter a keyword or location to create an alert")

var ErrNoPendingRegistration = ErrPrecondition("register", "Registration session expired, please start over")
