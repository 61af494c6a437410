package services

import (
	"context"
	"strings"

	"jobportal_web/internal/email"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"

	"golang.org/x/sync/singleflight"
)

type AlertsAPI interface {
	ListAlerts(ctx context.Context, token string) ([]models.JobAlert, error)
	CreateAlert(ctx context.Context, token, keyword, location string) (*models.JobAlert, error)
	DeleteAlert(ctx context.Context, token, id string) error
}

// AlertList - видимый список алертов
type AlertList struct {
	Items []models.JobAlert
}

// Remove убирает алерт из списка сразу и возвращает функцию, которая
// вернёт его на прежнее место с прежними полями
func (l *AlertList) Remove(id string) (restore func(), ok bool) {
	for i, a := range l.Items {
		if a.ID != id {
			continue
		}
		removed := a
		l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
		return func() {
			idx := min(i, len(l.Items))
			l.Items = append(l.Items[:idx], append([]models.JobAlert{removed}, l.Items[idx:]...)...)
		}, true
	}
	return func() {}, false
}

// AlertNotification - кому и куда отправить подтверждение
type AlertNotification struct {
	Name      string
	Email     string
	SearchURL string
	AlertsURL string
}

type AlertsService interface {
	List(ctx context.Context, token string) (*AlertList, error)
	Create(ctx context.Context, token, keyword, location string, notify *AlertNotification) (*models.JobAlert, error)
	// Delete удаляет оптимистично: при ошибке backend алерт возвращается в list
	Delete(ctx context.Context, token string, list *AlertList, id string) error
}

type alertsService struct {
	api       AlertsAPI
	mailer    email.Provider
	templates *email.TemplateManager
	create    singleflight.Group
}

func NewAlertsService(api AlertsAPI, mailer email.Provider, templates *email.TemplateManager) AlertsService {
	return &alertsService{api: api, mailer: mailer, templates: templates}
}

func (s *alertsService) List(ctx context.Context, token string) (*AlertList, error) {
	alerts, err := s.api.ListAlerts(ctx, token)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []models.JobAlert{}
	}
	return &AlertList{Items: alerts}, nil
}

func (s *alertsService) Create(ctx context.Context, token, keyword, location string, notify *AlertNotification) (*models.JobAlert, error) {
	keyword = strings.TrimSpace(keyword)
	location = strings.TrimSpace(location)
	if keyword == "" && location == "" {
		return nil, apperrors.ErrEmptyAlert
	}

	// одновременные отправки одной и той же формы дают один POST
	key := token + "|" + strings.ToLower(keyword) + "|" + strings.ToLower(location)
	v, err, shared := s.create.Do(key, func() (any, error) {
		return s.api.CreateAlert(ctx, token, keyword, location)
	})
	if err != nil {
		return nil, err
	}
	alert := v.(*models.JobAlert)

	if !shared && notify != nil {
		s.sendConfirmation(ctx, alert, notify)
	}
	return alert, nil
}

// sendConfirmation - письмо не критично: ошибка только логируется
func (s *alertsService) sendConfirmation(ctx context.Context, alert *models.JobAlert, n *AlertNotification) {
	if s.mailer == nil || s.templates == nil || n.Email == "" {
		return
	}
	html, err := s.templates.Render(email.TemplateAlertCreated, email.TemplateData{
		"Name":      n.Name,
		"Keyword":   alert.Keyword,
		"Location":  alert.Location,
		"SearchURL": n.SearchURL,
		"AlertsURL": n.AlertsURL,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render alert email", err)
		return
	}
	err = s.mailer.Send(ctx, &email.Email{
		To:       []string{n.Email},
		Subject:  "Your job alert is active",
		HTMLBody: html,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send alert email", err, "alert_id", alert.ID)
	}
}

func (s *alertsService) Delete(ctx context.Context, token string, list *AlertList, id string) error {
	restore := func() {}
	if list != nil {
		restore, _ = list.Remove(id)
	}
	if err := s.api.DeleteAlert(ctx, token, id); err != nil {
		restore()
		return err
	}
	return nil
}
