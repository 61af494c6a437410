package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"jobportal_web/internal/auth"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/middleware"
	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// LoginRequest - форма /login
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type AuthHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	// nil - redirect-вход через Google не настроен
	google *auth.GoogleOAuth
}

func NewAuthHandler(base *BaseHandler, registrationService services.RegistrationService, google *auth.GoogleOAuth) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		google:              google,
	}
}

// RegisterRoutes регистрирует вход, регистрацию и выход.
// throttle ограничивает только отправку учётных данных.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, throttle gin.HandlerFunc) {
	guest := rg.Group("", middleware.RedirectIfAuthenticated("/"))
	{
		guest.GET("/login", h.LoginPage)
		guest.POST("/login", throttle, h.Login)
		guest.GET("/register", h.RegisterPage)
		guest.POST("/register", throttle, h.SendCode)
		guest.POST("/register/verify", throttle, h.Verify)
		guest.POST("/register/restart", h.Restart)
	}

	google := rg.Group("/auth/google")
	{
		google.GET("/start", h.GoogleStart)
		google.GET("/callback", h.GoogleCallback)
		google.POST("/credential", throttle, h.GoogleCredential)
	}

	rg.POST("/logout", h.Logout)
}

// statusOf - код ответа для перерисованной формы
func statusOf(err error) int {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode >= 400 && appErr.HTTPCode < 500 {
		return appErr.HTTPCode
	}
	return http.StatusBadRequest
}

// ============================================================================
// Вход по паролю
// ============================================================================

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Next":  nextParam(c),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	next := nextParam(c)

	var req LoginRequest
	err := h.BindAndValidate_Form(c, &req)
	if err == nil {
		err = h.Session(c).Login(ctx, strings.TrimSpace(req.Email), req.Password)
	}
	if err != nil {
		logger.CtxWarn(ctx, "Login failed", "email", req.Email, "error", err)
		h.render(c, statusOf(err), "login.html", gin.H{
			"Title": "Log in",
			"Next":  next,
			"Email": req.Email,
			"Flash": errorFlash(err, "Login failed"),
		})
		return
	}

	logger.CtxInfo(ctx, "User logged in", "next", next)
	h.redirect(c, next)
}

// Logout - только локально: token и пользователь забываются, backend не вызывается
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Session(c).Logout()
	h.flash(c, "info", "You have been logged out")
	h.redirect(c, "/")
}

// ============================================================================
// Регистрация: два отдельных запроса - отправка кода и проверка
// ============================================================================

func (h *AuthHandler) renderRegister(c *gin.Context, status int, reg services.Registration, flash *session.Flash) {
	data := gin.H{
		"Title": "Sign up",
		"Step":  reg.Step.String(),
		"Name":  reg.Name,
		"Email": reg.Email,
		"Next":  "/",
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(c, status, "register.html", data)
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, h.registrationService.Current(h.Session(c)), nil)
}

func (h *AuthHandler) SendCode(c *gin.Context) {
	ctx := c.Request.Context()

	var details services.RegistrationDetails
	if err := c.ShouldBind(&details); err != nil {
		logger.CtxWithError(ctx, "Failed to bind registration form", err)
	}

	reg, err := h.registrationService.SendCode(ctx, h.Session(c), details)
	if err != nil {
		logger.CtxWarn(ctx, "Send OTP failed", "email", details.Email, "error", err)
		h.renderRegister(c, statusOf(err), reg, errorFlash(err, "Failed to send verification code"))
		return
	}

	h.flash(c, "info", "We sent a verification code to "+reg.Email)
	h.redirect(c, "/register")
}

func (h *AuthHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.Session(c)

	reg, err := h.registrationService.VerifyCode(ctx, store, c.PostForm("otp"))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNoPendingRegistration) {
			h.flash(c, "error", apperrors.MessageOf(err, ""))
			h.redirect(c, "/register")
			return
		}
		logger.CtxWarn(ctx, "OTP verification failed", "email", reg.Email, "error", err)
		h.renderRegister(c, statusOf(err), reg, errorFlash(err, "Verification failed"))
		return
	}

	logger.CtxInfo(ctx, "Registration completed")
	h.flash(c, "success", "Welcome, "+firstNonEmpty(reg.Name, "friend")+"! Your account is ready.")
	h.redirect(c, "/")
}

func (h *AuthHandler) Restart(c *gin.Context) {
	h.registrationService.StartOver(h.Session(c))
	h.redirect(c, "/register")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ============================================================================
// Google: popup (Google Identity Services) и redirect (OAuth2 code flow)
// ============================================================================

// GoogleCredential - ID token из GIS-колбэка на странице
func (h *AuthHandler) GoogleCredential(c *gin.Context) {
	ctx := c.Request.Context()
	next := nextParam(c)

	retry := "/login?next=" + url.QueryEscape(next)

	credential := strings.TrimSpace(c.PostForm("credential"))
	if credential == "" {
		h.flash(c, "error", "Google sign-in failed, please try again")
		h.redirect(c, retry)
		return
	}
	if err := h.Session(c).GoogleLogin(ctx, credential); err != nil {
		logger.CtxWarn(ctx, "Google login failed", "error", err)
		h.flash(c, "error", apperrors.MessageOf(err, "Google sign-in failed"))
		h.redirect(c, retry)
		return
	}
	logger.CtxInfo(ctx, "User logged in with Google")
	h.redirect(c, next)
}

func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		h.HandleServiceError(c, apperrors.NewNotFoundError("auth", "Google sign-in is not configured"))
		return
	}
	storage := h.Session(c).Storage()
	state := auth.NewState()
	if err := storage.Set(session.KeyOAuthState, state); err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	_ = storage.Set(session.KeyReturnTo, nextParam(c))
	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	if h.google == nil {
		h.HandleServiceError(c, apperrors.NewNotFoundError("auth", "Google sign-in is not configured"))
		return
	}

	store := h.Session(c)
	storage := store.Storage()
	expected := storage.Get(session.KeyOAuthState)
	next := session.SafeReturnPath(storage.Get(session.KeyReturnTo), "/")
	_ = storage.Remove(session.KeyOAuthState)
	_ = storage.Remove(session.KeyReturnTo)

	if reason := c.Query("error"); reason != "" {
		logger.CtxInfo(ctx, "Google sign-in cancelled", "reason", reason)
		h.flash(c, "info", "Google sign-in was cancelled")
		h.redirect(c, "/login")
		return
	}
	if expected == "" || c.Query("state") != expected {
		logger.CtxWarn(ctx, "Google callback state mismatch")
		h.flash(c, "error", apperrors.ErrInvalidOAuthState.Message)
		h.redirect(c, "/login")
		return
	}

	idToken, err := h.google.ExchangeIDToken(ctx, c.Query("code"))
	if err == nil {
		err = store.GoogleLogin(ctx, idToken)
	}
	if err != nil {
		logger.CtxWithError(ctx, "Google callback failed", err)
		h.flash(c, "error", apperrors.MessageOf(err, "Google sign-in failed"))
		h.redirect(c, "/login")
		return
	}

	logger.CtxInfo(ctx, "User logged in with Google")
	h.redirect(c, next)
}
