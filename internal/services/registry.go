package services

import (
	"jobportal_web/internal/auth"
	"jobportal_web/internal/content"
	"jobportal_web/internal/storage"
	"jobportal_web/internal/validator"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	JobsService         JobsService
	AlertsService       AlertsService
	ApplicationsService ApplicationsService
	ProfileService      ProfileService
	// файлы форм профиля до сохранения; чистится фоновым воркером
	Stager              *storage.Stager
	RegistrationService RegistrationService
	Content             *content.Content
	// nil, если Google OAuth не настроен
	GoogleOAuth *auth.GoogleOAuth
	Validator   *validator.Validator
}
