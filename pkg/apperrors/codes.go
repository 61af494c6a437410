package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// (a) сеть / транспорт до backend
	CodeTransport ErrorCode = "TRANSPORT_ERROR"
	// (b) backend вернул ошибку валидации или бизнес-логики (с сообщением)
	CodeBackend ErrorCode = "BACKEND_ERROR"
	// (c) ресурс законно отсутствует
	CodeNotFound ErrorCode = "NOT_FOUND"
	// (d) клиентское предусловие не выполнено
	CodePrecondition ErrorCode = "PRECONDITION_FAILED"

	// Валидация форм
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Аутентификация
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeTooManyTries ErrorCode = "TOO_MANY_REQUESTS"

	// Повторный запрос, пока первый еще выполняется
	CodeInFlight ErrorCode = "IN_FLIGHT"
)
