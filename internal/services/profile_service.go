package services

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/imageprocessor"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"
	"jobportal_web/internal/storage"
	"jobportal_web/internal/validator"
	"jobportal_web/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

type ProfileAPI interface {
	UpdateProfile(ctx context.Context, token string, upd apiclient.ProfileUpdate) (*models.User, error)
}

// Upload - файл из multipart-формы
type Upload struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ProfileUploads struct {
	Avatar *Upload
	Resume *Upload
}

// UploadLimits - ограничения на файлы профиля (из config.Upload)
type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
}

type ProfileService interface {
	// Stage кладёт выбранные файлы во временное хранилище, чтобы они пережили
	// перерисовку формы и неудачное сохранение
	Stage(ctx context.Context, owner string, form *ProfileForm, uploads ProfileUploads) error
	// Hydrate восстанавливает превью по ключам уже сохранённых файлов
	Hydrate(ctx context.Context, owner string, form *ProfileForm)
	Validate(form *ProfileForm) error
	// Save - одно атомарное обновление профиля
	Save(ctx context.Context, token, owner string, form *ProfileForm) error
	Preview(upload *Upload) (string, error)
}

type profileService struct {
	api       ProfileAPI
	stager    *storage.Stager
	images    *imageprocessor.Processor
	validator *validator.Validator
	limits    UploadLimits
}

func NewProfileService(
	api ProfileAPI,
	stager *storage.Stager,
	images *imageprocessor.Processor,
	v *validator.Validator,
	limits UploadLimits,
) ProfileService {
	return &profileService{
		api:       api,
		stager:    stager,
		images:    images,
		validator: v,
		limits:    limits,
	}
}

// ---------------- Files ----------------

func (s *profileService) checkUpload(u *Upload, field string) error {
	if s.limits.MaxSize > 0 && int64(len(u.Body)) > s.limits.MaxSize {
		return apperrors.NewBadRequestError(fmt.Sprintf("%s is too large (max %d MB)", field, s.limits.MaxSize/(1024*1024)))
	}
	if len(s.limits.AllowedTypes) > 0 && !slices.Contains(s.limits.AllowedTypes, baseType(u.ContentType)) {
		return apperrors.NewBadRequestError(fmt.Sprintf("%s has unsupported file type %s", field, u.ContentType))
	}
	return nil
}

func baseType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

func (s *profileService) Preview(upload *Upload) (string, error) {
	if upload == nil || len(upload.Body) == 0 {
		return "", apperrors.NewBadRequestError("No image selected")
	}
	if err := s.checkUpload(upload, "Profile image"); err != nil {
		return "", err
	}
	preview, err := s.images.PreviewDataURL(bytes.NewReader(upload.Body))
	if err != nil {
		return "", apperrors.NewBadRequestError("Profile image must be a JPEG or PNG picture")
	}
	return preview, nil
}

func (s *profileService) Stage(ctx context.Context, owner string, form *ProfileForm, uploads ProfileUploads) error {
	if uploads.Avatar != nil {
		if err := s.checkUpload(uploads.Avatar, "Profile image"); err != nil {
			return err
		}
		if !imageprocessor.IsValidImage(uploads.Avatar.Body) {
			return apperrors.NewBadRequestError("Profile image must be a JPEG or PNG picture")
		}
	}
	if uploads.Resume != nil {
		if err := s.checkUpload(uploads.Resume, "Resume"); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	var avatar, resume *storage.StagedFile
	if u := uploads.Avatar; u != nil {
		g.Go(func() error {
			var err error
			avatar, err = s.stager.Stage(gctx, owner, "avatar", u.Filename, u.ContentType, u.Body)
			return err
		})
	}
	if u := uploads.Resume; u != nil {
		g.Go(func() error {
			var err error
			resume, err = s.stager.Stage(gctx, owner, "resume", u.Filename, u.ContentType, u.Body)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.InternalError(err)
	}

	if avatar != nil {
		s.discard(ctx, owner, form.AvatarKey)
		form.AvatarKey = avatar.Key
		form.AvatarPreview, _ = s.images.PreviewDataURL(bytes.NewReader(avatar.Body))
	}
	if resume != nil {
		s.discard(ctx, owner, form.ResumeKey)
		form.ResumeKey = resume.Key
		form.ResumeName = resume.Filename
	}
	return nil
}

func (s *profileService) Hydrate(ctx context.Context, owner string, form *ProfileForm) {
	if form.AvatarKey != "" && form.AvatarPreview == "" {
		f, err := s.stager.Load(ctx, owner, form.AvatarKey)
		if err != nil {
			logger.CtxWarn(ctx, "Dropping staged avatar", "error", err)
			form.AvatarKey = ""
		} else {
			form.AvatarPreview, _ = s.images.PreviewDataURL(bytes.NewReader(f.Body))
		}
	}
	if form.ResumeKey != "" && form.ResumeName == "" {
		f, err := s.stager.Load(ctx, owner, form.ResumeKey)
		if err != nil {
			logger.CtxWarn(ctx, "Dropping staged resume", "error", err)
			form.ResumeKey = ""
		} else {
			form.ResumeName = f.Filename
		}
	}
}

func (s *profileService) discard(ctx context.Context, owner, key string) {
	if err := s.stager.Discard(ctx, owner, key); err != nil {
		logger.CtxWarn(ctx, "Failed to discard staged file", "key", key, "error", err)
	}
}

// ---------------- Validation & Save ----------------

func (s *profileService) Validate(form *ProfileForm) error {
	details := map[string]string{}
	if form.Name == "" {
		details["name"] = "This field is required"
	}
	if form.Experience != "" && !slices.Contains(ProfileExperienceOptions, form.Experience) {
		details["experience"] = "Select one of the listed options"
	}
	for i := range form.Education {
		collect(details, fmt.Sprintf("education %d", i+1), s.validator.Validate(form.Education[i]))
	}
	for i := range form.Projects {
		collect(details, fmt.Sprintf("project %d", i+1), s.validator.Validate(form.Projects[i]))
	}
	if len(details) == 0 {
		return nil
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	first := keys[0] + ": " + details[keys[0]]
	err := apperrors.ValidationError(details)
	err.Message = "Please check the form. " + first
	return err
}

func collect(dst map[string]string, prefix string, err error) {
	if err == nil {
		return
	}
	verr, ok := err.(*validator.ValidationError)
	if !ok {
		dst[prefix] = err.Error()
		return
	}
	for field, msg := range verr.Errors {
		dst[prefix+" "+field] = msg
	}
}

func (s *profileService) Save(ctx context.Context, token, owner string, form *ProfileForm) error {
	if err := s.Validate(form); err != nil {
		return err
	}

	upd := form.Update()
	if form.AvatarKey != "" {
		f, err := s.stager.Load(ctx, owner, form.AvatarKey)
		if err != nil {
			form.AvatarKey, form.AvatarPreview = "", ""
			return apperrors.NewBadRequestError("Selected profile image expired, please choose it again")
		}
		upd.ProfileImage = &apiclient.FilePart{Filename: f.Filename, ContentType: f.ContentType, Body: bytes.NewReader(f.Body)}
	}
	if form.ResumeKey != "" {
		f, err := s.stager.Load(ctx, owner, form.ResumeKey)
		if err != nil {
			form.ResumeKey, form.ResumeName = "", ""
			return apperrors.NewBadRequestError("Selected resume expired, please choose it again")
		}
		upd.Resume = &apiclient.FilePart{Filename: f.Filename, ContentType: f.ContentType, Body: bytes.NewReader(f.Body)}
	}

	if _, err := s.api.UpdateProfile(ctx, token, upd); err != nil {
		// форма и выбранные файлы остаются как есть
		return err
	}

	s.discard(ctx, owner, form.AvatarKey)
	s.discard(ctx, owner, form.ResumeKey)
	form.AvatarKey, form.AvatarPreview = "", ""
	form.ResumeKey, form.ResumeName = "", ""
	return nil
}
