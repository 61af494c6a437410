package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobType string
type ExperienceLevel string

const (
	JobTypeFullTime   JobType = "Full-Time"
	JobTypePartTime   JobType = "Part-Time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"

	ExperienceFresher     ExperienceLevel = "Fresher"
	ExperienceZeroToOne   ExperienceLevel = "0-1 Years"
	ExperienceOneToThree  ExperienceLevel = "1-3 Years"
	ExperienceThreeToFive ExperienceLevel = "3-5 Years"
	ExperienceFivePlus    ExperienceLevel = "5+ Years"

	ExperienceEntryLevel  ExperienceLevel = "Entry Level"
	ExperienceMidLevel    ExperienceLevel = "Mid Level"
	ExperienceSeniorLevel ExperienceLevel = "Senior Level"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}

var ExperienceLevels = []ExperienceLevel{
	ExperienceFresher, ExperienceZeroToOne, ExperienceOneToThree, ExperienceThreeToFive, ExperienceFivePlus,
	ExperienceEntryLevel, ExperienceMidLevel, ExperienceSeniorLevel,
}

// Categories - фиксированный список категорий (главная страница и фильтр)
var Categories = []string{"Engineering", "Sales", "IT", "Design", "Marketing", "Finance"}

func IsJobType(v string) bool {
	for _, t := range JobTypes {
		if string(t) == v {
			return true
		}
	}
	return false
}

func IsExperienceLevel(v string) bool {
	for _, l := range ExperienceLevels {
		if string(l) == v {
			return true
		}
	}
	return false
}

type JobPoster struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *JobPoster) UnmarshalJSON(data []byte) error {
	type alias JobPoster
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*p)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = JobPoster(aux.alias)
	p.ID = pickID(aux.OID, p.ID)
	return nil
}

type Job struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	CompanyName   string          `json:"companyName"`
	CompanyImage  string          `json:"companyImage,omitempty"`
	Location      string          `json:"location"`
	Description   string          `json:"description"`
	Skills        []string        `json:"skills"`
	Qualification string          `json:"qualification"`
	Category      string          `json:"category"`
	Salary        float64         `json:"salary"`
	JobType       JobType         `json:"jobType"`
	Experience    ExperienceLevel `json:"experience"`
	CreatedBy     *JobPoster      `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

func (j *Job) UnmarshalJSON(data []byte) error {
	type alias Job
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*j)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*j = Job(aux.alias)
	j.ID = pickID(aux.OID, j.ID)
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return nil
}

// SalaryLabel - "₹ 1,200,000" или пусто, если зарплата не указана
func (j Job) SalaryLabel() string {
	if j.Salary <= 0 {
		return ""
	}
	return "₹ " + groupThousands(int64(j.Salary))
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// JobPage - страница результатов поиска
type JobPage struct {
	Jobs       []Job `json:"jobs"`
	TotalJobs  int   `json:"totalJobs"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	// ServerPaged - бэкенд сам пагинировал (иначе пришёл полный список)
	ServerPaged bool `json:"-"`
}
