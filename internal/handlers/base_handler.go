package handlers

import (
	"net/http"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/middleware"
	"jobportal_web/internal/session"
	"jobportal_web/internal/validator"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
	// пусто - кнопка Google не показывается
	googleClientID string
}

func NewBaseHandler(v *validator.Validator, googleClientID string) *BaseHandler {
	return &BaseHandler{
		validator:      v,
		googleClientID: googleClientID,
	}
}

// PanelError - ошибка внутри панели страницы (с кнопкой повтора)
type PanelError struct {
	Message  string
	RetryURL string
}

func newPanelError(err error, fallback, retryURL string) *PanelError {
	return &PanelError{Message: apperrors.MessageOf(err, fallback), RetryURL: retryURL}
}

// ============================================================================
// 2. Сессия и рендеринг
// ============================================================================

// Session - сессия запроса. SessionMiddleware подключён для всех страниц.
func (h *BaseHandler) Session(c *gin.Context) *session.Store {
	store := middleware.GetSession(c)
	if store == nil {
		logger.CtxError(c.Request.Context(), "critical error: session not found in context", "path", c.Request.URL.Path)
		panic("critical error: SessionMiddleware is not installed")
	}
	return store
}

// render дополняет данные страницы общим: сессия, баннер, путь
func (h *BaseHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if store := middleware.GetSession(c); store != nil {
		state := store.State()
		data["Session"] = &state
		if _, ok := data["Flash"]; !ok {
			if f := session.PopFlash(store.Storage()); f != nil {
				data["Flash"] = f
			}
		}
	}
	data["GoogleClientID"] = h.googleClientID
	data["Path"] = c.Request.URL.RequestURI()
	c.HTML(status, name, data)
}

// fragment - кусок страницы без шапки, для data-fragment панелей
func (h *BaseHandler) fragment(c *gin.Context, name string, data gin.H) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, name, data)
}

// redirect - после POST всегда 303, чтобы браузер перешёл GET-ом
func (h *BaseHandler) redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}

func (h *BaseHandler) flash(c *gin.Context, kind, message string) {
	session.SetFlash(h.Session(c).Storage(), kind, message)
}

// errorFlash - баннер с ошибкой действия (а не страница ошибки)
func errorFlash(err error, fallback string) *session.Flash {
	return &session.Flash{Kind: "error", Message: apperrors.MessageOf(err, fallback)}
}

// ============================================================================
// 3. Методы привязки и валидации (с контекстным логгированием)
// ============================================================================

// BindAndValidate_Form - для форм, которые при ошибке перерисовываются;
// поэтому ошибка возвращается, а не пишется в ответ
func (h *BaseHandler) BindAndValidate_Form(c *gin.Context, obj interface{}) error {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind form", err, "path", c.Request.URL.Path)
		return apperrors.NewBadRequestError("Invalid form submission")
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			return apperrors.ValidationError(vErr.Errors)
		}
		logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
		return apperrors.InternalError(err)
	}
	return nil
}

// ============================================================================
// 4. Обработчики ошибок (с контекстным логгированием)
// ============================================================================

// HandleServiceError - страница ошибки (или JSON для fetch-клиентов)
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr, ok := apperrors.AsAppError(err)
	if ok {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		appErr = apperrors.InternalError(err)
	}

	if apperrors.WantsJSON(c) {
		apperrors.HandleError(c, appErr)
		return
	}
	h.render(c, appErr.HTTPCode, "error.html", gin.H{
		"Title":    http.StatusText(appErr.HTTPCode),
		"Error":    appErr,
		"NotFound": appErr.Code == apperrors.CodeNotFound,
	})
	c.Abort()
}

// ============================================================================
// 5. Функции парсинга
// ============================================================================

// nextParam - куда вернуться после входа; только локальные пути
func nextParam(c *gin.Context) string {
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	return session.SafeReturnPath(next, "/")
}
