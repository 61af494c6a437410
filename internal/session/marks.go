package session

import (
	"encoding/json"
	"strings"
)

const maxMarks = 50

// Flash - баннер, переживающий один редирект
type Flash struct {
	Kind    string `json:"kind"` // success, error, info
	Message string `json:"message"`
}

func SetFlash(s ClientStorage, kind, message string) {
	raw, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	_ = s.Set(KeyFlash, string(raw))
}

// PopFlash возвращает баннер и удаляет его
func PopFlash(s ClientStorage) *Flash {
	raw := s.Get(KeyFlash)
	if raw == "" {
		return nil
	}
	_ = s.Remove(KeyFlash)
	var f Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

// ============================================================================
// Отметки "уже откликнулся" / "алерт создан" для этого браузера
// ============================================================================

func readList(s ClientStorage, key string) []string {
	raw := s.Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func addToList(s ClientStorage, key, value string) {
	list := readList(s, key)
	for _, v := range list {
		if v == value {
			return
		}
	}
	list = append(list, value)
	if len(list) > maxMarks {
		list = list[len(list)-maxMarks:]
	}
	raw, _ := json.Marshal(list)
	_ = s.Set(key, string(raw))
}

func inList(s ClientStorage, key, value string) bool {
	for _, v := range readList(s, key) {
		if v == value {
			return true
		}
	}
	return false
}

func MarkApplied(s ClientStorage, jobID string) {
	addToList(s, KeyAppliedJobs, jobID)
}

func HasApplied(s ClientStorage, jobID string) bool {
	return inList(s, KeyAppliedJobs, jobID)
}

func alertKey(keyword, location string) string {
	return strings.ToLower(strings.TrimSpace(keyword)) + "|" + strings.ToLower(strings.TrimSpace(location))
}

func MarkAlertCreated(s ClientStorage, keyword, location string) {
	addToList(s, KeyCreatedAlerts, alertKey(keyword, location))
}

func AlertCreated(s ClientStorage, keyword, location string) bool {
	return inList(s, KeyCreatedAlerts, alertKey(keyword, location))
}
