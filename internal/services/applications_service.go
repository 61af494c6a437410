package services

import (
	"context"
	"sort"

	"jobportal_web/internal/models"
)

type ApplicationsAPI interface {
	MyApplications(ctx context.Context, token string) ([]models.Application, error)
}

// ApplicationRow - строка списка откликов
type ApplicationRow struct {
	ID          string
	JobID       string
	JobTitle    string
	CompanyName string
	Location    string
	AppliedAt   string
	Badge       models.StatusBadge
}

type ApplicationsService interface {
	List(ctx context.Context, token string) ([]ApplicationRow, error)
}

type applicationsService struct {
	api ApplicationsAPI
}

func NewApplicationsService(api ApplicationsAPI) ApplicationsService {
	return &applicationsService{api: api}
}

// List - новые сверху; отклик на удалённую вакансию показывается без ссылки
func (s *applicationsService) List(ctx context.Context, token string) ([]ApplicationRow, error) {
	apps, err := s.api.MyApplications(ctx, token)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	rows := make([]ApplicationRow, 0, len(apps))
	for _, a := range apps {
		row := ApplicationRow{
			ID:       a.ID,
			JobTitle: "Job no longer available",
			Badge:    a.Status.Badge(),
		}
		if a.Job != nil {
			row.JobID = a.Job.ID
			row.JobTitle = a.Job.Title
			row.CompanyName = a.Job.CompanyName
			row.Location = a.Job.Location
		}
		if !a.CreatedAt.IsZero() {
			row.AppliedAt = a.CreatedAt.Format("Jan 2, 2006")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
