package routes

import (
	"net/http"

	"jobportal_web/internal/handlers"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/middleware"
	"jobportal_web/internal/session"
	"jobportal_web/internal/views"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все страницы, фрагменты и действия.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
	sessions *session.Manager,
	throttle *middleware.LoginThrottle,
) {
	ginRouter.StaticFS("/static", http.FS(views.Static()))
	ginRouter.GET("/healthz", handlers.Healthz)

	// у всех страниц есть сессия; защищённые дополнительно требуют входа
	site := ginRouter.Group("", middleware.SessionMiddleware(sessions))
	protected := site.Group("", middleware.RequireAuth())

	appHandlers.PagesHandler.RegisterRoutes(site)
	appHandlers.AuthHandler.RegisterRoutes(site, throttle.Middleware())
	appHandlers.JobsHandler.RegisterRoutes(site, protected)
	appHandlers.ApplicationsHandler.RegisterRoutes(protected)
	appHandlers.AlertsHandler.RegisterRoutes(protected)
	appHandlers.ProfileHandler.RegisterRoutes(protected)

	ginRouter.NoRoute(middleware.SessionMiddleware(sessions), appHandlers.PagesHandler.NotFound)
	logger.Info("Routes registered")
}
