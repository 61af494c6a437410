package models

import (
	"encoding/json"
	"strings"
)

type UserRole string
type AuthProvider string

const (
	UserRoleSeeker   UserRole = "user"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"

	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type Education struct {
	ID          string `json:"id,omitempty" form:"id"`
	Level       string `json:"level" form:"level" validate:"required"`
	Institution string `json:"institution" form:"institution" validate:"required"`
	StartYear   string `json:"startYear" form:"startYear" validate:"omitempty,year"`
	EndYear     string `json:"endYear" form:"endYear" validate:"omitempty,year"`
	Grade       string `json:"grade,omitempty" form:"grade"`
}

type Project struct {
	ID          string `json:"id,omitempty" form:"id"`
	ProjectName string `json:"projectName" form:"projectName" validate:"required"`
	Description string `json:"description,omitempty" form:"description"`
	LiveLink    string `json:"liveLink,omitempty" form:"liveLink" validate:"omitempty,url"`
	GithubLink  string `json:"githubLink,omitempty" form:"githubLink" validate:"omitempty,url"`
	Duration    string `json:"duration,omitempty" form:"duration"`
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         UserRole     `json:"role,omitempty"`
	Provider     AuthProvider `json:"provider,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Location     string       `json:"location,omitempty"`
	About        string       `json:"about,omitempty"`
	Experience   string       `json:"experience,omitempty"`
	Skills       []string     `json:"skills"`
	Education    []Education  `json:"education,omitempty"`
	Projects     []Project    `json:"projects,omitempty"`
	ProfileImage string       `json:"profileImage,omitempty"`
	Resume       string       `json:"resume,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*u)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.alias)
	u.ID = pickID(aux.OID, u.ID)
	u.Normalize()
	return nil
}

func (e *Education) UnmarshalJSON(data []byte) error {
	type alias Education
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*e)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Education(aux.alias)
	e.ID = pickID(aux.OID, e.ID)
	return nil
}

func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	var aux struct {
		alias
		backendID
	}
	aux.alias = alias(*p)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Project(aux.alias)
	p.ID = pickID(aux.OID, p.ID)
	return nil
}

// Normalize - пустые списки вместо nil, чтобы шаблоны и сравнения вели себя одинаково
func (u *User) Normalize() {
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.Education == nil {
		u.Education = []Education{}
	}
	if u.Projects == nil {
		u.Projects = []Project{}
	}
}

// ProfileComplete - телефон, город, навыки и хотя бы одно образование
func (u *User) ProfileComplete() bool {
	if u == nil {
		return false
	}
	return strings.TrimSpace(u.Phone) != "" &&
		strings.TrimSpace(u.Location) != "" &&
		len(u.Skills) > 0 &&
		len(u.Education) > 0
}

// Initials для аватара-заглушки
func (u *User) Initials() string {
	if u == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Fields(u.Name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// Clone - глубокая копия (кэш отдаёт копии, чтобы запросы не делили срезы)
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Skills = append([]string(nil), u.Skills...)
	c.Education = append([]Education(nil), u.Education...)
	c.Projects = append([]Project(nil), u.Projects...)
	c.Normalize()
	return &c
}
