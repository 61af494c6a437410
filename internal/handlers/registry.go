package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	PagesHandler        *PagesHandler
	AuthHandler         *AuthHandler
	JobsHandler         *JobsHandler
	AlertsHandler       *AlertsHandler
	ApplicationsHandler *ApplicationsHandler
	ProfileHandler      *ProfileHandler
}
