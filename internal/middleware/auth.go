package middleware

import (
	"net/http"
	"net/url"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RequireAuth - страницы и действия только для вошедших.
// Браузер уходит на /login?next=<исходный адрес>, fetch-клиент получает 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := GetSession(c)
		if store != nil && store.IsAuthenticated() {
			c.Next()
			return
		}

		logger.CtxInfo(c.Request.Context(), "Unauthenticated access redirected", "path", c.Request.URL.Path)
		if apperrors.WantsJSON(c) {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}
		c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(returnPath(c)))
		c.Abort()
	}
}

// returnPath: для GET - сам адрес; для POST - страница, с которой пришла форма
func returnPath(c *gin.Context) string {
	if c.Request.Method == http.MethodGet {
		return c.Request.URL.RequestURI()
	}
	if next := session.SafeReturnPath(c.PostForm("next"), ""); next != "" {
		return next
	}
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Host == c.Request.Host {
		return session.SafeReturnPath(ref.RequestURI(), "/")
	}
	return "/"
}

// RedirectIfAuthenticated - /login и /register не нужны тем, кто уже вошёл
func RedirectIfAuthenticated(to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store := GetSession(c); store != nil && store.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, session.SafeReturnPath(c.Query("next"), to))
			c.Abort()
			return
		}
		c.Next()
	}
}
