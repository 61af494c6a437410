package email

// Email - письмо к отправке
type Email struct {
	To       []string
	Subject  string
	Body     string // text/plain
	HTMLBody string
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}

// SMTPConfig - параметры SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
