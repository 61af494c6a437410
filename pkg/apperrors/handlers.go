package apperrors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - HTML страница ошибки для браузера, JSON для fetch-клиентов
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if !h.Debug {
			appErr.Details = nil
		}
	}

	if WantsJSON(c) {
		c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
		return
	}

	c.HTML(appErr.HTTPCode, "error.html", gin.H{
		"Title":    http.StatusText(appErr.HTTPCode),
		"Error":    appErr,
		"NotFound": appErr.Code == CodeNotFound,
	})
	c.Abort()
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

// WantsJSON - запрос от скрипта (fetch) или явно просит JSON
func WantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
