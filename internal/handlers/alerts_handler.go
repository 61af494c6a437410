package handlers

import (
	"net/http"
	"strings"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"
	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AlertsHandler struct {
	*BaseHandler
	alertsService services.AlertsService
	// абсолютные ссылки в письме-подтверждении
	publicURL string
}

func NewAlertsHandler(base *BaseHandler, alertsService services.AlertsService, publicURL string) *AlertsHandler {
	return &AlertsHandler{
		BaseHandler:   base,
		alertsService: alertsService,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}
}

func (h *AlertsHandler) RegisterRoutes(protected *gin.RouterGroup) {
	alerts := protected.Group("/alerts")
	{
		alerts.GET("", h.List)
		alerts.POST("", h.Create)
		// без JS форма шлёт POST; скрипт делает оптимистичный DELETE
		alerts.POST("/:id/delete", h.Delete)
		alerts.DELETE("/:id", h.Delete)
	}
}

func (h *AlertsHandler) List(c *gin.Context) {
	store := h.Session(c)
	list, err := h.alertsService.List(c.Request.Context(), store.Token())
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to load alerts", err)
		h.render(c, http.StatusOK, "alerts.html", gin.H{
			"Title": "Job alerts",
			"Error": newPanelError(err, "Failed to fetch job alerts", "/alerts"),
		})
		return
	}
	h.render(c, http.StatusOK, "alerts.html", gin.H{
		"Title":  "Job alerts",
		"Alerts": list.Items,
	})
}

// Create - форма "Create alert for this search" со страницы /jobs
func (h *AlertsHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.Session(c)
	keyword := strings.TrimSpace(c.PostForm("keyword"))
	location := strings.TrimSpace(c.PostForm("location"))
	search := models.JobFilter{Keyword: keyword, Location: location}
	next := session.SafeReturnPath(c.PostForm("next"), search.URL())

	var notify *services.AlertNotification
	if u := store.User(); u != nil {
		notify = &services.AlertNotification{
			Name:      u.Name,
			Email:     u.Email,
			SearchURL: h.publicURL + search.URL(),
			AlertsURL: h.publicURL + "/alerts",
		}
	}

	alert, err := h.alertsService.Create(ctx, store.Token(), keyword, location, notify)
	if err != nil {
		if apperrors.WantsJSON(c) {
			h.HandleServiceError(c, err)
			return
		}
		logger.CtxWarn(ctx, "Create alert failed", "error", err)
		h.flash(c, "error", apperrors.MessageOf(err, "Failed to create alert"))
		h.redirect(c, next)
		return
	}

	session.MarkAlertCreated(store.Storage(), keyword, location)
	logger.CtxInfo(ctx, "Job alert created", "alert_id", alert.ID)

	if apperrors.WantsJSON(c) {
		c.JSON(http.StatusCreated, alert)
		return
	}
	h.flash(c, "success", "Job alert created")
	h.redirect(c, next)
}

// Delete - оптимистично: строка убирается сразу; если backend отказал,
// страница рисуется с восстановленным списком и баннером ошибки
func (h *AlertsHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.Session(c)
	id := c.Param("id")

	// скрипт уже убрал строку сам и вернёт её при ошибке; список нужен только без JS
	if apperrors.WantsJSON(c) {
		if err := h.alertsService.Delete(ctx, store.Token(), nil, id); err != nil {
			logger.CtxWarn(ctx, "Delete alert failed", "alert_id", id, "error", err)
			h.HandleServiceError(c, err)
			return
		}
		logger.CtxInfo(ctx, "Job alert deleted", "alert_id", id)
		c.JSON(http.StatusOK, gin.H{"deleted": id})
		return
	}

	list, listErr := h.alertsService.List(ctx, store.Token())
	if listErr != nil {
		// без списка восстанавливать нечего; удаление всё равно пробуем
		logger.CtxWarn(ctx, "Failed to load alerts before delete", "error", listErr)
		list = nil
	}

	if err := h.alertsService.Delete(ctx, store.Token(), list, id); err != nil {
		logger.CtxWarn(ctx, "Delete alert failed", "alert_id", id, "error", err)
		data := gin.H{
			"Title": "Job alerts",
			"Flash": errorFlash(err, "Failed to delete alert"),
		}
		if list != nil {
			data["Alerts"] = list.Items
		} else {
			data["Error"] = newPanelError(listErr, "Failed to fetch job alerts", "/alerts")
		}
		h.render(c, http.StatusOK, "alerts.html", data)
		return
	}

	logger.CtxInfo(ctx, "Job alert deleted", "alert_id", id)
	h.flash(c, "success", "Alert deleted")
	h.redirect(c, "/alerts")
}
