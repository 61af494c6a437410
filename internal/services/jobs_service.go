package services

import (
	"context"
	"math"

	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"
	"jobportal_web/internal/textutil"

	"golang.org/x/sync/singleflight"
)

const (
	// JobsPerPage - размер страницы списка вакансий
	JobsPerPage = 6
	// SimilarJobsLimit - сколько похожих вакансий показывать на странице вакансии
	SimilarJobsLimit = 4
	// RecommendedJobsLimit - блок "рекомендованные" на главной
	RecommendedJobsLimit = 4
)

// JobsAPI - эндпоинты вакансий внешнего backend
type JobsAPI interface {
	ListJobs(ctx context.Context, filter models.JobFilter, limit int) (*models.JobPage, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	Apply(ctx context.Context, token, jobID string) (string, error)
}

// JobCard - вакансия + текст для карточки
type JobCard struct {
	models.Job
	Excerpt string
}

// JobResults - одна страница результатов поиска
type JobResults struct {
	Filter     models.JobFilter
	Jobs       []JobCard
	TotalJobs  int
	Page       int
	TotalPages int
}

func (r *JobResults) Empty() bool {
	return len(r.Jobs) == 0
}

func (r *JobResults) HasPrev() bool { return r.Page > 1 }
func (r *JobResults) HasNext() bool { return r.Page < r.TotalPages }

// PrevURL / NextURL сохраняют фильтры и меняют только страницу
func (r *JobResults) PrevURL() string { return r.Filter.WithPage(r.Page - 1).URL() }
func (r *JobResults) NextURL() string { return r.Filter.WithPage(r.Page + 1).URL() }

// Pages - номера страниц для пагинатора
func (r *JobResults) Pages() []PageLink {
	links := make([]PageLink, 0, r.TotalPages)
	for p := 1; p <= r.TotalPages; p++ {
		links = append(links, PageLink{Number: p, URL: r.Filter.WithPage(p).URL(), Current: p == r.Page})
	}
	return links
}

type PageLink struct {
	Number  int
	URL     string
	Current bool
}

type JobsService interface {
	Search(ctx context.Context, filter models.JobFilter) (*JobResults, error)
	Recommended(ctx context.Context) ([]JobCard, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Similar(ctx context.Context, jobID, category string) ([]JobCard, error)
	Apply(ctx context.Context, token, jobID string) (string, error)
}

type jobsService struct {
	api   JobsAPI
	apply singleflight.Group
}

func NewJobsService(api JobsAPI) JobsService {
	return &jobsService{api: api}
}

// ---------------- Listing ----------------

func (s *jobsService) Search(ctx context.Context, filter models.JobFilter) (*JobResults, error) {
	page, err := s.api.ListJobs(ctx, filter, JobsPerPage)
	if err != nil {
		return nil, err
	}

	// страница за пределами выдачи (старая ссылка) - показываем последнюю
	if page.ServerPaged && filter.CurrentPage() > page.TotalPages && len(page.Jobs) == 0 {
		filter = filter.WithPage(page.TotalPages)
		if page, err = s.api.ListJobs(ctx, filter, JobsPerPage); err != nil {
			return nil, err
		}
	}

	return paginate(filter, page), nil
}

// paginate: если backend пагинировал - верим его totalPages,
// иначе пришёл полный список и страницы считаются здесь
func paginate(filter models.JobFilter, page *models.JobPage) *JobResults {
	res := &JobResults{Filter: filter}

	if page.ServerPaged {
		res.TotalPages = page.TotalPages
		res.TotalJobs = page.TotalJobs
		res.Page = filter.CurrentPage()
		if page.Page > 0 {
			res.Page = page.Page
		}
		res.Jobs = cards(page.Jobs)
		return res
	}

	total := len(page.Jobs)
	res.TotalJobs = total
	res.TotalPages = int(math.Ceil(float64(total) / float64(JobsPerPage)))
	res.Page = clamp(filter.CurrentPage(), 1, max(res.TotalPages, 1))

	start := (res.Page - 1) * JobsPerPage
	end := min(start+JobsPerPage, total)
	if start < end {
		res.Jobs = cards(page.Jobs[start:end])
	} else {
		res.Jobs = []JobCard{}
	}
	res.Filter = filter.WithPage(res.Page)
	return res
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cards(jobs []models.Job) []JobCard {
	out := make([]JobCard, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobCard{Job: j, Excerpt: textutil.Excerpt(j.Description, textutil.ExcerptLength)})
	}
	return out
}

func (s *jobsService) Recommended(ctx context.Context) ([]JobCard, error) {
	page, err := s.api.ListJobs(ctx, models.JobFilter{}, RecommendedJobsLimit)
	if err != nil {
		return nil, err
	}
	jobs := page.Jobs
	if len(jobs) > RecommendedJobsLimit {
		jobs = jobs[:RecommendedJobsLimit]
	}
	return cards(jobs), nil
}

// ---------------- Detail ----------------

func (s *jobsService) Get(ctx context.Context, id string) (*models.Job, error) {
	return s.api.GetJob(ctx, id)
}

// Similar - та же категория, без самой вакансии. Берём на одну больше,
// чтобы после исключения текущей осталось SimilarJobsLimit.
func (s *jobsService) Similar(ctx context.Context, jobID, category string) ([]JobCard, error) {
	if category == "" {
		return []JobCard{}, nil
	}
	filter := models.JobFilter{Categories: []string{category}}
	page, err := s.api.ListJobs(ctx, filter, SimilarJobsLimit+1)
	if err != nil {
		return nil, err
	}

	similar := make([]models.Job, 0, SimilarJobsLimit)
	for _, j := range page.Jobs {
		if j.ID == jobID {
			continue
		}
		similar = append(similar, j)
		if len(similar) == SimilarJobsLimit {
			break
		}
	}
	return cards(similar), nil
}

// Apply - повторный клик, пока первый запрос в полёте, не создаёт второй отклик
func (s *jobsService) Apply(ctx context.Context, token, jobID string) (string, error) {
	v, err, shared := s.apply.Do(token+"|"+jobID, func() (any, error) {
		return s.api.Apply(ctx, token, jobID)
	})
	if shared {
		logger.CtxInfo(ctx, "Duplicate apply collapsed", "job_id", jobID)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
