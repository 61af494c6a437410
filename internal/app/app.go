package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"jobportal_web/database"
	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/auth"
	"jobportal_web/internal/config"
	"jobportal_web/internal/content"
	"jobportal_web/internal/email"
	"jobportal_web/internal/handlers"
	"jobportal_web/internal/imageprocessor"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/middleware"
	"jobportal_web/internal/repositories"
	"jobportal_web/internal/routes"
	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/internal/storage"
	"jobportal_web/internal/validator"
	"jobportal_web/internal/views"
	"jobportal_web/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Deps - то, что тесты подменяют; нулевые значения берутся из конфига
type Deps struct {
	// нужен только при session.store = db
	DB             *gorm.DB
	HTTPClient     *http.Client
	Storage        storage.Storage
	Mailer         email.Provider
	GoogleEndpoint *oauth2.Endpoint
}

// App - собранное приложение: роутер и фоновая очистка
type App struct {
	Router   *gin.Engine
	Sessions *session.Manager
	Worker   *workers.SessionWorker
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var gormDB *gorm.DB
	if cfg.Session.Store == "db" {
		var err error
		if gormDB, err = openDatabase(cfg); err != nil {
			logger.Fatal("Database unavailable", "error", err)
		}
	}

	application, err := New(cfg, Deps{DB: gormDB})
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	application.Worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address), "api", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// openDatabase - таблица client_sessions для серверного хранилища сессий
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database ready", "driver", cfg.Database.Driver)
	return db, nil
}

// New собирает приложение из конфига
func New(cfg *config.Config, deps Deps) (*App, error) {
	api := apiclient.New(apiclient.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.APITimeout(),
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
		HTTPClient:    deps.HTTPClient,
	})

	// 1. Сессии
	cache := session.NewUserCache(cfg.UserCacheTTL())
	backend, sweeper, err := initializeSessionBackend(cfg, deps.DB)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(backend, api, cache)
	logger.Info("Session storage initialized", "store", cfg.Session.Store)

	// 2. Сервисы
	serviceContainer, err := initializeServices(cfg, deps, api)
	if err != nil {
		return nil, err
	}

	// 3. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 4. Gin
	ginRouter, err := initializeGinRouter(cfg, deps.DB)
	if err != nil {
		return nil, err
	}

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	throttle := middleware.NewLoginThrottle(cfg.Limits.LoginPerMinute)
	routes.RegisterRoutes(ginRouter, appHandlers, sessions, throttle)

	return &App{
		Router:   ginRouter,
		Sessions: sessions,
		Worker:   workers.NewSessionWorker(sweeper, cache, throttle, time.Hour, cfg.SessionMaxAge()).
			WithStagedUploads(serviceContainer.Stager, cfg.StagedUploadTTL()),
	}, nil
}

func initializeSessionBackend(cfg *config.Config, gormDB *gorm.DB) (session.Backend, workers.SessionSweeper, error) {
	opts := session.CookieOptions{
		Secure: cfg.Session.CookieSecure,
		MaxAge: cfg.SessionMaxAge(),
	}
	switch cfg.Session.Store {
	case "", "cookie":
		return session.NewCookieBackend(opts), nil, nil
	case "memory":
		b := session.NewMemoryBackend(opts)
		return b, b, nil
	case "db":
		if gormDB == nil {
			return nil, nil, errors.New("session.store = db requires a database")
		}
		b := session.NewDBBackend(gormDB, repositories.NewClientSessionRepository(), opts)
		return b, b, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func initializeServices(cfg *config.Config, deps Deps, api *apiclient.Client) (*services.ServiceContainer, error) {
	fileStorage := deps.Storage
	if fileStorage == nil {
		var err error
		fileStorage, err = storage.NewStorage(storage.Config{
			Type:      cfg.Storage.Type,
			BasePath:  cfg.Storage.BasePath,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailer := deps.Mailer
	if mailer == nil {
		if cfg.EmailEnabled() {
			mailer = email.NewGomailProvider(email.SMTPConfig{
				Host:      cfg.Email.SMTPHost,
				Port:      cfg.Email.SMTPPort,
				Username:  cfg.Email.SMTPUsername,
				Password:  cfg.Email.SMTPPassword,
				FromEmail: cfg.Email.FromEmail,
				FromName:  cfg.Email.FromName,
			})
		} else {
			logger.Warn("SMTP is not configured, alert confirmation emails are disabled")
			mailer = email.NewNoopProvider()
		}
	}
	mailTemplates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	siteContent, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load site content: %w", err)
	}

	var google *auth.GoogleOAuth
	if cfg.GoogleEnabled() && cfg.Google.ClientSecret != "" {
		redirectURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/auth/google/callback"
		if deps.GoogleEndpoint != nil {
			google = auth.NewGoogleOAuthWithEndpoint(cfg.Google.ClientID, cfg.Google.ClientSecret, redirectURL, *deps.GoogleEndpoint)
		} else {
			google = auth.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, redirectURL)
		}
	}

	customValidator := validator.New()
	stager := storage.NewStager(fileStorage)
	return &services.ServiceContainer{
		JobsService:         services.NewJobsService(api),
		AlertsService:       services.NewAlertsService(api, mailer, mailTemplates),
		ApplicationsService: services.NewApplicationsService(api),
		ProfileService: services.NewProfileService(
			api,
			stager,
			imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
			customValidator,
			services.UploadLimits{MaxSize: cfg.Upload.MaxSize, AllowedTypes: cfg.Upload.AllowedTypes},
		),
		RegistrationService: services.NewRegistrationService(customValidator),
		Stager:              stager,
		Content:             siteContent,
		GoogleOAuth:         google,
		Validator:           customValidator,
	}, nil
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(container.Validator, cfg.Google.ClientID)

	return &handlers.AppHandlers{
		PagesHandler:        handlers.NewPagesHandler(baseHandler, container.Content),
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.RegistrationService, container.GoogleOAuth),
		JobsHandler:         handlers.NewJobsHandler(baseHandler, container.JobsService),
		AlertsHandler:       handlers.NewAlertsHandler(baseHandler, container.AlertsService, cfg.Server.PublicURL),
		ApplicationsHandler: handlers.NewApplicationsHandler(baseHandler, container.ApplicationsService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, container.ProfileService, cfg.Upload.MaxSize),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	// без списка прокси ClientIP = RemoteAddr; иначе X-Forwarded-For обходит throttle
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	if gormDB != nil {
		router.Use(middleware.DBMiddleware(gormDB))
	}
	return router, nil
}
