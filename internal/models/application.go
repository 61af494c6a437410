package models

import (
	"encoding/json"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "Pending"
	ApplicationStatusSubmitted   ApplicationStatus = "Submitted"
	ApplicationStatusShortlisted ApplicationStatus = "Shortlisted"
	ApplicationStatusSelected    ApplicationStatus = "Selected"
	ApplicationStatusRejected    ApplicationStatus = "Rejected"
)

// StatusBadge - цвет и иконка бейджа статуса
type StatusBadge struct {
	Label string
	Color string // yellow, blue, green, red, gray
	Icon  string
}

// Badge - фиксированная таблица; неизвестные статусы получают нейтральный серый бейдж
func (s ApplicationStatus) Badge() StatusBadge {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "pending", "submitted", "applied":
		return StatusBadge{Label: titleOr(s, "Pending"), Color: "yellow", Icon: "clock"}
	case "shortlisted", "in_review", "reviewed":
		return StatusBadge{Label: titleOr(s, "Shortlisted"), Color: "blue", Icon: "list-check"}
	case "selected", "accepted", "hired":
		return StatusBadge{Label: titleOr(s, "Selected"), Color: "green", Icon: "check-circle"}
	case "rejected":
		return StatusBadge{Label: titleOr(s, "Rejected"), Color: "red", Icon: "x-circle"}
	default:
		return StatusBadge{Label: titleOr(s, "Unknown"), Color: "gray", Icon: "help-circle"}
	}
}

func titleOr(s ApplicationStatus, fallback string) string {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return fallback
	}
	return v
}

type Application struct {
	ID        string            `json:"id"`
	Job       *Job              `json:"job"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (a *Application) UnmarshalJSON(data []byte) error {
	type alias Application
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*a)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Application(aux.alias)
	a.ID = pickID(aux.OID, a.ID)
	return nil
}

type JobAlert struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *JobAlert) UnmarshalJSON(data []byte) error {
	type alias JobAlert
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*a)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = JobAlert(aux.alias)
	a.ID = pickID(aux.OID, a.ID)
	return nil
}

// SearchFilter - фильтр списка вакансий, соответствующий алерту
func (a JobAlert) SearchFilter() JobFilter {
	return JobFilter{Keyword: a.Keyword, Location: a.Location}
}
