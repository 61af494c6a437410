package logger

import (
	"context"
	"log/slog"
)

// requestFields - то, что пишется в каждую запись одного HTTP-запроса
type requestFields struct {
	requestID string
	userID    string
}

type fieldsKey struct{}

func fieldsFrom(ctx context.Context) requestFields {
	f, _ := ctx.Value(fieldsKey{}).(requestFields)
	return f
}

// WithRequestID - id запроса; apiclient передаёт его в backend как X-Request-ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	f := fieldsFrom(ctx)
	f.requestID = requestID
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithUserID - id вошедшего пользователя (после восстановления сессии)
func WithUserID(ctx context.Context, userID string) context.Context {
	f := fieldsFrom(ctx)
	f.userID = userID
	return context.WithValue(ctx, fieldsKey{}, f)
}

func GetRequestID(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// GetUserID - пусто для гостя
func GetUserID(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// FromContext - глобальный логгер с request_id и user_id запроса
func FromContext(ctx context.Context) *slog.Logger {
	f := fieldsFrom(ctx)
	var fields []any
	if f.requestID != "" {
		fields = append(fields, "request_id", f.requestID)
	}
	if f.userID != "" {
		fields = append(fields, "user_id", f.userID)
	}
	if len(fields) == 0 {
		return GetLogger()
	}
	return GetLogger().With(fields...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError - Error с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", err.Error()}, args...)
	FromContext(ctx).Error(msg, fields...)
}
