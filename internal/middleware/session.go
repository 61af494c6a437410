package middleware

import (
	"net/http"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"
	"jobportal_web/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware восстанавливает сессию браузера до обработчика.
// К моменту рендера страницы профиль уже получен, поэтому шаблон
// не видит промежуточного состояния "токен есть, пользователя нет".
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		store, err := manager.Load(c)
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to open client storage", err)
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}

		if u := store.User(); u != nil {
			c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), u.ID))
		}
		c.Set(string(contextkeys.SessionContextKey), store)
		c.Next()
	}
}

// GetSession - сессия текущего запроса (nil, если SessionMiddleware не подключён)
func GetSession(c *gin.Context) *session.Store {
	v, ok := c.Get(string(contextkeys.SessionContextKey))
	if !ok {
		return nil
	}
	store, _ := v.(*session.Store)
	return store
}
