package handlers

import (
	"net/http"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/services"

	"github.com/gin-gonic/gin"
)

type ApplicationsHandler struct {
	*BaseHandler
	applicationsService services.ApplicationsService
}

func NewApplicationsHandler(base *BaseHandler, applicationsService services.ApplicationsService) *ApplicationsHandler {
	return &ApplicationsHandler{
		BaseHandler:         base,
		applicationsService: applicationsService,
	}
}

func (h *ApplicationsHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/applications", h.List)
}

func (h *ApplicationsHandler) List(c *gin.Context) {
	rows, err := h.applicationsService.List(c.Request.Context(), h.Session(c).Token())
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to load applications", err)
		h.render(c, http.StatusOK, "applications.html", gin.H{
			"Title": "My applications",
			"Error": newPanelError(err, "Failed to fetch applications", "/applications"),
		})
		return
	}
	h.render(c, http.StatusOK, "applications.html", gin.H{
		"Title":        "My applications",
		"Applications": rows,
	})
}
