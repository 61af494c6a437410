package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipart сверх лимита файлов: поля формы, границы
const formOverhead = 1 << 20

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	maxUpload      int64
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService, maxUpload int64) *ProfileHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
		maxUpload:      maxUpload,
	}
}

func (h *ProfileHandler) RegisterRoutes(protected *gin.RouterGroup) {
	profile := protected.Group("/profile")
	{
		profile.GET("", h.Page)
		profile.POST("", h.Submit)
		profile.POST("/avatar/preview", h.AvatarPreview)
	}
}

func (h *ProfileHandler) renderForm(c *gin.Context, status int, form *services.ProfileForm, flash *session.Flash) {
	data := gin.H{
		"Title":             "Your profile",
		"Form":              form,
		"ExperienceOptions": services.ProfileExperienceOptions,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(c, status, "profile.html", data)
}

func (h *ProfileHandler) Page(c *gin.Context) {
	h.renderForm(c, http.StatusOK, services.NewProfileForm(h.Session(c).User()), nil)
}

// Submit обрабатывает все кнопки формы: добавить/удалить запись - только
// перерисовка; save - одно обновление профиля в backend
func (h *ProfileHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.Session(c)
	user := store.User()
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrNotAuthenticated)
		return
	}

	// два файла + поля
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUpload+formOverhead)
	if err := c.Request.ParseMultipartForm(formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		logger.CtxWithError(ctx, "Failed to parse profile form", err)
		h.renderForm(c, http.StatusRequestEntityTooLarge, services.NewProfileForm(user), &session.Flash{
			Kind:    "error",
			Message: "The selected files are too large",
		})
		return
	}

	form := services.ParseProfileForm(c.Request.PostForm)
	// email не редактируется
	form.Email = user.Email

	uploads, err := readUploads(c)
	if err == nil {
		err = h.profileService.Stage(ctx, user.ID, form, uploads)
	}
	h.profileService.Hydrate(ctx, user.ID, form)
	if err != nil {
		logger.CtxWarn(ctx, "Profile upload rejected", "error", err)
		form.Apply("")
		h.renderForm(c, statusOf(err), form, errorFlash(err, "Could not read the selected file"))
		return
	}

	if !form.Apply(c.PostForm("action")) {
		h.renderForm(c, http.StatusOK, form, nil)
		return
	}

	if err := h.profileService.Save(ctx, store.Token(), user.ID, form); err != nil {
		logger.CtxWarn(ctx, "Profile save failed", "error", err)
		// правки и выбранные файлы остаются в форме
		h.renderForm(c, statusOf(err), form, errorFlash(err, "Failed to update profile"))
		return
	}

	// пользователь берётся заново из backend, а не из формы
	if err := store.FetchUser(ctx, session.Fresh()); err != nil {
		logger.CtxWithError(ctx, "Failed to refresh user after profile save", err)
	}
	logger.CtxInfo(ctx, "Profile updated")
	h.flash(c, "success", "Profile updated successfully")
	h.redirect(c, "/profile")
}

// AvatarPreview - миниатюра выбранной картинки до сохранения профиля
func (h *ProfileHandler) AvatarPreview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+formOverhead)
	upload, err := readUpload(c, "profileImage")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	preview, err := h.profileService.Preview(upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

func readUploads(c *gin.Context) (services.ProfileUploads, error) {
	var uploads services.ProfileUploads
	var err error
	if uploads.Avatar, err = readUpload(c, "profileImage"); err != nil {
		return uploads, err
	}
	if uploads.Resume, err = readUpload(c, "resume"); err != nil {
		return uploads, err
	}
	return uploads, nil
}

// readUpload - nil, если файл не выбран
func readUpload(c *gin.Context, field string) (*services.Upload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewBadRequestError("Could not read the selected file")
	}
	if header.Size == 0 {
		return nil, nil
	}
	body, err := readFileHeader(header)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Could not read the selected file")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
