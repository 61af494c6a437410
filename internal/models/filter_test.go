package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJobFilter_MultiAndSingle(t *testing.T) {
	q, _ := url.ParseQuery("keyword=go&location=Pune&jobType=Full-Time,Contract&experience=Fresher&category=IT&qualification=B.Tech&page=3")

	f := ParseJobFilter(q)

	assert.Equal(t, "go", f.Keyword)
	assert.Equal(t, "Pune", f.Location)
	assert.Equal(t, []string{"Full-Time", "Contract"}, f.JobTypes)
	assert.Equal(t, []string{"Fresher"}, f.Experience)
	assert.Equal(t, []string{"IT"}, f.Categories)
	assert.Equal(t, "B.Tech", f.Qualification)
	assert.Equal(t, 3, f.CurrentPage())
}

func TestParseJobFilter_LegacyExperienceAndDuplicates(t *testing.T) {
	q, _ := url.ParseQuery("experienceLevel=Fresher&experience=Fresher,%201-3%20Years&jobType=,,")

	f := ParseJobFilter(q)

	assert.Equal(t, []string{"Fresher", "1-3 Years"}, f.Experience)
	assert.Empty(t, f.JobTypes)
	assert.Equal(t, 1, f.CurrentPage())
}

func TestToggle_KeepsOtherValuesAndResetsPage(t *testing.T) {
	f := JobFilter{JobTypes: []string{"Full-Time", "Internship"}, Experience: []string{"Fresher"}, Page: 3}

	added := f.Toggle(ParamJobType, "Contract")
	assert.Equal(t, []string{"Full-Time", "Internship", "Contract"}, added.JobTypes)
	assert.Equal(t, []string{"Fresher"}, added.Experience)
	assert.Equal(t, 1, added.CurrentPage())

	removed := added.Toggle(ParamJobType, "Internship")
	assert.Equal(t, []string{"Full-Time", "Contract"}, removed.JobTypes)

	// исходный фильтр не изменился
	assert.Equal(t, []string{"Full-Time", "Internship"}, f.JobTypes)
	assert.Equal(t, 3, f.Page)
}

func TestAnyFilterChangeResetsPage(t *testing.T) {
	f := JobFilter{Keyword: "java", Page: 3}

	cases := map[string]JobFilter{
		"keyword":       f.With(ParamKeyword, "go"),
		"location":      f.With(ParamLocation, "Delhi"),
		"qualification": f.With(ParamQualification, "MCA"),
		"jobType":       f.Toggle(ParamJobType, "Contract"),
		"experience":    f.Toggle(ParamExperience, "Senior Level"),
		"category":      f.Toggle(ParamCategory, "IT"),
	}
	for name, changed := range cases {
		assert.Equal(t, 1, changed.CurrentPage(), name)
		assert.NotContains(t, changed.Encode(), "page=", name)
	}

	// смена страницы фильтры не трогает
	paged := f.WithPage(4)
	assert.Equal(t, "java", paged.Keyword)
	assert.Equal(t, 4, paged.CurrentPage())
}

func TestEncode_Canonical(t *testing.T) {
	f := JobFilter{}.Toggle(ParamJobType, "Contract").Toggle(ParamExperience, "Senior Level")

	enc := f.Encode()

	assert.Equal(t, "experience=Senior+Level&jobType=Contract", enc)
	assert.Equal(t, "/jobs?"+enc, f.URL())
	assert.Equal(t, "/jobs", JobFilter{}.URL())

	// разбор закодированной строки даёт тот же фильтр
	q, _ := url.ParseQuery(enc)
	assert.Equal(t, f.Encode(), ParseJobFilter(q).Encode())
}

func TestBackendQuery(t *testing.T) {
	f := JobFilter{Keyword: "go", JobTypes: []string{"Contract", "Internship"}}

	q := f.BackendQuery(6)

	assert.Equal(t, "go", q.Get("keyword"))
	assert.Equal(t, "Contract,Internship", q.Get("jobType"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "6", q.Get("limit"))
}

func TestCanCreateAlert(t *testing.T) {
	assert.False(t, JobFilter{}.CanCreateAlert())
	assert.False(t, JobFilter{JobTypes: []string{"Contract"}}.CanCreateAlert())
	assert.True(t, JobFilter{Keyword: "go"}.CanCreateAlert())
	assert.True(t, JobFilter{Location: "Pune"}.CanCreateAlert())
}
