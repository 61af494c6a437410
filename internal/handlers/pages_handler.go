package handlers

import (
	"net/http"

	"jobportal_web/internal/content"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// PagesHandler - статичные страницы: главная, о нас, блог, шаблоны резюме
// категории на главной; полный список - в фильтре /jobs
var homeCategories = []string{"Engineering", "Sales", "IT", "Design"}

type PagesHandler struct {
	*BaseHandler
	content *content.Content
}

func NewPagesHandler(base *BaseHandler, c *content.Content) *PagesHandler {
	return &PagesHandler{BaseHandler: base, content: c}
}

func (h *PagesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
	rg.GET("/about", h.About)
	rg.GET("/blog", h.Blog)
	rg.GET("/blog/:id", h.BlogPost)
	rg.GET("/resume-templates", h.ResumeTemplates)
}

func (h *PagesHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", gin.H{
		"HomeCategories": homeCategories,
	})
}

func (h *PagesHandler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{
		"Title":   "About",
		"Content": h.content,
	})
}

func (h *PagesHandler) Blog(c *gin.Context) {
	h.render(c, http.StatusOK, "blog.html", gin.H{
		"Title":   "Blog",
		"Content": h.content,
	})
}

func (h *PagesHandler) BlogPost(c *gin.Context) {
	post, ok := h.content.Post(c.Param("id"))
	if !ok {
		h.HandleServiceError(c, apperrors.NewNotFoundError("blog", "Post not found"))
		return
	}
	h.render(c, http.StatusOK, "blog_post.html", gin.H{
		"Title": post.Title,
		"Post":  post,
	})
}

func (h *PagesHandler) ResumeTemplates(c *gin.Context) {
	h.render(c, http.StatusOK, "resume_templates.html", gin.H{
		"Title":   "Resume Templates",
		"Content": h.content,
	})
}

// Healthz - для балансировщика; backend не опрашивается
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PagesHandler) NotFound(c *gin.Context) {
	h.HandleServiceError(c, apperrors.NewNotFoundError("pages", "We couldn't find the page you were looking for."))
}
