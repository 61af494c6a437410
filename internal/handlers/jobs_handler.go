package handlers

import (
	"net/http"
	"net/url"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"
	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type JobsHandler struct {
	*BaseHandler
	jobsService services.JobsService
}

func NewJobsHandler(base *BaseHandler, jobsService services.JobsService) *JobsHandler {
	return &JobsHandler{
		BaseHandler: base,
		jobsService: jobsService,
	}
}

// RegisterRoutes: просмотр открыт всем, отклик - только после входа
func (h *JobsHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/jobs", h.List)
	public.GET("/jobs/:id", h.Detail)

	fragments := public.Group("/fragments")
	{
		fragments.GET("/jobs", h.ResultsFragment)
		fragments.GET("/jobs/:id/similar", h.SimilarFragment)
		fragments.GET("/recommended", h.RecommendedFragment)
	}

	protected.POST("/jobs/:id/apply", h.Apply)
}

// parseFilter - фильтр из строки запроса; неизвестные значения мультиселектов - 400
func (h *JobsHandler) parseFilter(c *gin.Context) (models.JobFilter, bool) {
	filter := models.ParseJobFilter(c.Request.URL.Query())
	if err := h.validator.Validate(filter); err != nil {
		logger.CtxWarn(c.Request.Context(), "Invalid job filter", "query", c.Request.URL.RawQuery, "error", err)
		h.HandleServiceError(c, apperrors.NewBadRequestError("Unknown job filter value"))
		return filter, false
	}
	return filter, true
}

// List - оболочка страницы; сами результаты догружаются панелью
func (h *JobsHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	alertCreated := false
	if store := h.Session(c); store.IsAuthenticated() && filter.CanCreateAlert() {
		alertCreated = session.AlertCreated(store.Storage(), filter.Keyword, filter.Location)
	}

	resultsURL := "/fragments/jobs"
	if enc := filter.Encode(); enc != "" {
		resultsURL += "?" + enc
	}

	h.render(c, http.StatusOK, "jobs.html", gin.H{
		"Title":        "Jobs",
		"Filter":       filter,
		"AlertCreated": alertCreated,
		"ResultsURL":   resultsURL,
	})
}

func (h *JobsHandler) ResultsFragment(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	results, err := h.jobsService.Search(c.Request.Context(), filter)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to load jobs", err)
		h.fragment(c, "fragment_jobs.html", gin.H{
			"Error": newPanelError(err, "Failed to fetch jobs", c.Request.URL.RequestURI()),
		})
		return
	}
	h.fragment(c, "fragment_jobs.html", gin.H{"Results": results})
}

func (h *JobsHandler) RecommendedFragment(c *gin.Context) {
	jobs, err := h.jobsService.Recommended(c.Request.Context())
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to load recommended jobs", err)
		h.fragment(c, "fragment_recommended.html", gin.H{
			"Error": newPanelError(err, "Failed to fetch jobs", c.Request.URL.RequestURI()),
		})
		return
	}
	h.fragment(c, "fragment_recommended.html", gin.H{"Jobs": jobs})
}

// Detail - "не найдено" и прочие ошибки - разные состояния страницы
func (h *JobsHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	job, err := h.jobsService.Get(c.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.render(c, http.StatusNotFound, "job.html", gin.H{
				"Title":    "Job not found",
				"NotFound": true,
			})
			return
		}
		logger.CtxWithError(c.Request.Context(), "Failed to load job", err, "job_id", id)
		status := http.StatusBadGateway
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode >= 400 {
			status = appErr.HTTPCode
		}
		h.render(c, status, "job.html", gin.H{
			"Title": "Failed to fetch job details",
			"Error": newPanelError(err, "Failed to fetch job details", ""),
		})
		return
	}

	store := h.Session(c)
	applied := store.IsAuthenticated() && session.HasApplied(store.Storage(), job.ID)

	similarURL := "/fragments/jobs/" + url.PathEscape(job.ID) + "/similar"
	if job.Category != "" {
		similarURL += "?" + url.Values{models.ParamCategory: {job.Category}}.Encode()
	}

	h.render(c, http.StatusOK, "job.html", gin.H{
		"Title":      job.Title,
		"Job":        job,
		"Applied":    applied,
		"SimilarURL": similarURL,
	})
}

// SimilarFragment - своя панель: её ошибка не трогает основную вакансию
func (h *JobsHandler) SimilarFragment(c *gin.Context) {
	jobs, err := h.jobsService.Similar(c.Request.Context(), c.Param("id"), c.Query(models.ParamCategory))
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to load similar jobs", err, "job_id", c.Param("id"))
		h.fragment(c, "fragment_similar.html", gin.H{
			"Error": newPanelError(err, "Failed to fetch similar jobs", c.Request.URL.RequestURI()),
		})
		return
	}
	h.fragment(c, "fragment_similar.html", gin.H{"Jobs": jobs})
}

func (h *JobsHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	store := h.Session(c)
	back := "/jobs/" + url.PathEscape(id)

	message, err := h.jobsService.Apply(ctx, store.Token(), id)
	if err != nil {
		if apperrors.WantsJSON(c) {
			h.HandleServiceError(c, err)
			return
		}
		logger.CtxWarn(ctx, "Apply failed", "job_id", id, "error", err)
		h.flash(c, "error", apperrors.MessageOf(err, "Failed to apply for this job"))
		h.redirect(c, back)
		return
	}

	session.MarkApplied(store.Storage(), id)
	if message == "" {
		message = "Application submitted successfully!"
	}
	logger.CtxInfo(ctx, "Applied for job", "job_id", id)

	if apperrors.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": message, "applied": true})
		return
	}
	h.flash(c, "success", message)
	h.redirect(c, back)
}
