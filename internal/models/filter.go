package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Параметры строки запроса страницы /jobs
const (
	ParamKeyword       = "keyword"
	ParamLocation      = "location"
	ParamJobType       = "jobType"
	ParamExperience    = "experience"
	ParamCategory      = "category"
	ParamQualification = "qualification"
	ParamPage          = "page"

	// старое имя параметра опыта, встречается в сохранённых ссылках
	paramExperienceLegacy = "experienceLevel"
)

// JobFilter - проекция строки запроса. URL является единственным источником истины:
// фильтр разбирается из запроса и кодируется обратно в ссылки.
type JobFilter struct {
	Keyword       string   `form:"keyword" validate:"max=200"`
	Location      string   `form:"location" validate:"max=200"`
	JobTypes      []string `validate:"dive,job-type"`
	Experience    []string `validate:"dive,experience-level"`
	Categories    []string `validate:"dive,max=100"`
	Qualification string   `validate:"max=200"`
	Page          int      `validate:"min=0"`
}

func ParseJobFilter(q url.Values) JobFilter {
	f := JobFilter{
		Keyword:       strings.TrimSpace(q.Get(ParamKeyword)),
		Location:      strings.TrimSpace(q.Get(ParamLocation)),
		JobTypes:      splitMulti(q[ParamJobType]),
		Experience:    splitMulti(append(q[ParamExperience], q[paramExperienceLegacy]...)),
		Categories:    splitMulti(q[ParamCategory]),
		Qualification: strings.TrimSpace(q.Get(ParamQualification)),
	}
	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 1 {
		f.Page = p
	}
	return f
}

// splitMulti - значения мультиселекта хранятся через запятую в одном параметре
func splitMulti(raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (f JobFilter) multi(param string) []string {
	switch param {
	case ParamJobType:
		return f.JobTypes
	case ParamExperience:
		return f.Experience
	case ParamCategory:
		return f.Categories
	}
	return nil
}

func (f *JobFilter) setMulti(param string, values []string) {
	switch param {
	case ParamJobType:
		f.JobTypes = values
	case ParamExperience:
		f.Experience = values
	case ParamCategory:
		f.Categories = values
	}
}

func isMulti(param string) bool {
	return param == ParamJobType || param == ParamExperience || param == ParamCategory
}

// Has - выбрано ли значение мультиселекта (или равно ли одиночное значение)
func (f JobFilter) Has(param, value string) bool {
	if isMulti(param) {
		for _, v := range f.multi(param) {
			if v == value {
				return true
			}
		}
		return false
	}
	return f.single(param) == value
}

func (f JobFilter) single(param string) string {
	switch param {
	case ParamKeyword:
		return f.Keyword
	case ParamLocation:
		return f.Location
	case ParamQualification:
		return f.Qualification
	}
	return ""
}

// Toggle добавляет или убирает одно значение мультиселекта, не трогая остальные.
// Любое изменение фильтра сбрасывает страницу.
func (f JobFilter) Toggle(param, value string) JobFilter {
	out := f.clone()
	out.Page = 0
	if !isMulti(param) {
		if out.single(param) == value {
			return out.With(param, "")
		}
		return out.With(param, value)
	}

	current := out.multi(param)
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, v := range current {
		if v == value {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed && value != "" {
		next = append(next, value)
	}
	out.setMulti(param, next)
	return out
}

// With задаёт одиночное значение (пустое значение удаляет параметр) и сбрасывает страницу
func (f JobFilter) With(param, value string) JobFilter {
	out := f.clone()
	out.Page = 0
	value = strings.TrimSpace(value)
	switch param {
	case ParamKeyword:
		out.Keyword = value
	case ParamLocation:
		out.Location = value
	case ParamQualification:
		out.Qualification = value
	default:
		if isMulti(param) {
			out.setMulti(param, splitMulti([]string{value}))
		}
	}
	return out
}

// WithPage - единственная операция, сохраняющая остальные фильтры и меняющая страницу
func (f JobFilter) WithPage(page int) JobFilter {
	out := f.clone()
	if page <= 1 {
		page = 0
	}
	out.Page = page
	return out
}

func (f JobFilter) clone() JobFilter {
	out := f
	out.JobTypes = append([]string(nil), f.JobTypes...)
	out.Experience = append([]string(nil), f.Experience...)
	out.Categories = append([]string(nil), f.Categories...)
	return out
}

// CurrentPage - номер страницы, начиная с 1
func (f JobFilter) CurrentPage() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// IsEmpty - не задано ни одного фильтра (страница не учитывается)
func (f JobFilter) IsEmpty() bool {
	return f.Keyword == "" && f.Location == "" && f.Qualification == "" &&
		len(f.JobTypes) == 0 && len(f.Experience) == 0 && len(f.Categories) == 0
}

// CanCreateAlert - алерт создаётся только для непустой пары (keyword, location)
func (f JobFilter) CanCreateAlert() bool {
	return f.Keyword != "" || f.Location != ""
}

// Values - каноничная строка запроса страницы /jobs
func (f JobFilter) Values() url.Values {
	q := url.Values{}
	if f.Keyword != "" {
		q.Set(ParamKeyword, f.Keyword)
	}
	if f.Location != "" {
		q.Set(ParamLocation, f.Location)
	}
	if len(f.JobTypes) > 0 {
		q.Set(ParamJobType, strings.Join(f.JobTypes, ","))
	}
	if len(f.Experience) > 0 {
		q.Set(ParamExperience, strings.Join(f.Experience, ","))
	}
	if len(f.Categories) > 0 {
		q.Set(ParamCategory, strings.Join(f.Categories, ","))
	}
	if f.Qualification != "" {
		q.Set(ParamQualification, f.Qualification)
	}
	if f.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(f.Page))
	}
	return q
}

func (f JobFilter) Encode() string {
	return f.Values().Encode()
}

// URL - ссылка на страницу списка с этим фильтром
func (f JobFilter) URL() string {
	if enc := f.Encode(); enc != "" {
		return "/jobs?" + enc
	}
	return "/jobs"
}

// BackendQuery - параметры GET /jobs внешнего API
func (f JobFilter) BackendQuery(limit int) url.Values {
	q := f.Values()
	q.Set(ParamPage, strconv.Itoa(f.CurrentPage()))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
