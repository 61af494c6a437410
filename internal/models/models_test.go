package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_NormalizesIdentifiers(t *testing.T) {
	raw := `{
		"_id": "u1", "name": "Jane", "email": "jane@x.com",
		"education": [{"_id": "e1", "level": "B.Tech", "institution": "IIT", "startYear": "2018", "endYear": "2022"}],
		"projects": [{"id": "p1", "projectName": "Board"}]
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "e1", u.Education[0].ID)
	assert.Equal(t, "p1", u.Projects[0].ID)
	assert.NotNil(t, u.Skills)
}

func TestUnmarshal_JobAndApplication(t *testing.T) {
	raw := `{"_id": "a1", "status": "Shortlisted", "job": {"_id": "j1", "title": "Go Dev", "companyName": "Acme", "createdBy": {"_id": "emp"}}}`

	var a Application
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "a1", a.ID)
	require.NotNil(t, a.Job)
	assert.Equal(t, "j1", a.Job.ID)
	assert.Equal(t, "emp", a.Job.CreatedBy.ID)
	assert.Empty(t, a.Job.Skills)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "yellow", ApplicationStatusPending.Badge().Color)
	assert.Equal(t, "yellow", ApplicationStatusSubmitted.Badge().Color)
	assert.Equal(t, "blue", ApplicationStatusShortlisted.Badge().Color)
	assert.Equal(t, "green", ApplicationStatus("selected").Badge().Color)
	assert.Equal(t, "red", ApplicationStatusRejected.Badge().Color)

	unknown := ApplicationStatus("On Hold").Badge()
	assert.Equal(t, "gray", unknown.Color)
	assert.Equal(t, "On Hold", unknown.Label)
	assert.Equal(t, "Unknown", ApplicationStatus("").Badge().Label)
}

func TestProfileComplete(t *testing.T) {
	u := &User{Phone: "123", Location: "Pune", Skills: []string{"Go"}}
	assert.False(t, u.ProfileComplete())

	u.Education = []Education{{Level: "B.Tech", Institution: "IIT"}}
	assert.True(t, u.ProfileComplete())

	var nilUser *User
	assert.False(t, nilUser.ProfileComplete())
}

func TestSalaryLabel(t *testing.T) {
	assert.Equal(t, "₹ 1,200,000", Job{Salary: 1200000}.SalaryLabel())
	assert.Equal(t, "₹ 950", Job{Salary: 950}.SalaryLabel())
	assert.Equal(t, "", Job{}.SalaryLabel())
}

func TestUserClone_DoesNotShareSlices(t *testing.T) {
	u := &User{Skills: []string{"Go"}}
	c := u.Clone()
	c.Skills[0] = "Rust"

	assert.Equal(t, "Go", u.Skills[0])
	assert.Equal(t, "JD", (&User{Name: "Jane Doe"}).Initials())
}
