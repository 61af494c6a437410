package services

import (
	"net/url"
	"strings"

	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/models"

	"github.com/google/uuid"
)

// ProfileExperienceOptions - варианты поля "опыт" в профиле
var ProfileExperienceOptions = []string{"0-1 years", "2-4 years", "5+ years"}

// Временные id новых записей; не пересекаются с id, которые выдаёт backend
const tempIDPrefix = "new_"

func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// ParseSkills: через запятую, с обрезкой пробелов, без пустых, порядок сохраняется
func ParseSkills(text string) []string {
	out := []string{}
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Действия формы профиля (значение кнопки name="action")
const (
	ActionSave            = "save"
	ActionAddEducation    = "add-education"
	ActionRemoveEducation = "remove-education:"
	ActionAddProject      = "add-project"
	ActionRemoveProject   = "remove-project:"
)

// ProfileForm - локальное состояние редактора. До явного сохранения
// в backend ничего не уходит.
type ProfileForm struct {
	Name       string
	Email      string
	Phone      string
	Location   string
	About      string
	Experience string
	SkillsText string
	Education  []models.Education
	Projects   []models.Project

	// текущие файлы на backend
	ProfileImage string
	Resume       string

	// выбранные, но ещё не сохранённые файлы
	AvatarKey     string
	ResumeKey     string
	AvatarPreview string
	ResumeName    string
}

func NewProfileForm(u *models.User) *ProfileForm {
	f := &ProfileForm{Education: []models.Education{}, Projects: []models.Project{}}
	if u == nil {
		return f
	}
	f.Name = u.Name
	f.Email = u.Email
	f.Phone = u.Phone
	f.Location = u.Location
	f.About = u.About
	f.Experience = u.Experience
	f.SkillsText = strings.Join(u.Skills, ", ")
	f.Education = append(f.Education, u.Education...)
	f.Projects = append(f.Projects, u.Projects...)
	f.ProfileImage = u.ProfileImage
	f.Resume = u.Resume
	return f
}

// ParseProfileForm читает отправленную форму. Записи образования и проектов
// приходят параллельными массивами: каждая строка формы рендерит все поля.
func ParseProfileForm(v url.Values) *ProfileForm {
	f := &ProfileForm{
		Name:         strings.TrimSpace(v.Get("name")),
		Email:        strings.TrimSpace(v.Get("email")),
		Phone:        strings.TrimSpace(v.Get("phone")),
		Location:     strings.TrimSpace(v.Get("location")),
		About:        strings.TrimSpace(v.Get("about")),
		Experience:   v.Get("experience"),
		SkillsText:   v.Get("skills"),
		ProfileImage: v.Get("currentProfileImage"),
		Resume:       v.Get("currentResume"),
		AvatarKey:    v.Get("avatarKey"),
		ResumeKey:    v.Get("resumeKey"),
		Education:    []models.Education{},
		Projects:     []models.Project{},
	}

	at := func(key string, i int) string {
		vals := v[key]
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	for i := range v["education.id"] {
		f.Education = append(f.Education, models.Education{
			ID:          at("education.id", i),
			Level:       at("education.level", i),
			Institution: at("education.institution", i),
			StartYear:   at("education.startYear", i),
			EndYear:     at("education.endYear", i),
			Grade:       at("education.grade", i),
		})
	}
	for i := range v["project.id"] {
		f.Projects = append(f.Projects, models.Project{
			ID:          at("project.id", i),
			ProjectName: at("project.projectName", i),
			Description: at("project.description", i),
			LiveLink:    at("project.liveLink", i),
			GithubLink:  at("project.githubLink", i),
			Duration:    at("project.duration", i),
		})
	}
	return f
}

// Apply выполняет локальное действие формы. true - нужно сохранить в backend.
func (f *ProfileForm) Apply(action string) bool {
	// навыки нормализуются при любом действии, не только при сохранении
	f.SkillsText = strings.Join(ParseSkills(f.SkillsText), ", ")

	switch {
	case action == ActionAddEducation:
		f.AddEducation()
	case strings.HasPrefix(action, ActionRemoveEducation):
		f.RemoveEducation(strings.TrimPrefix(action, ActionRemoveEducation))
	case action == ActionAddProject:
		f.AddProject()
	case strings.HasPrefix(action, ActionRemoveProject):
		f.RemoveProject(strings.TrimPrefix(action, ActionRemoveProject))
	default:
		return true
	}
	return false
}

func (f *ProfileForm) AddEducation() string {
	id := NewTempID()
	f.Education = append(f.Education, models.Education{ID: id})
	return id
}

func (f *ProfileForm) RemoveEducation(id string) bool {
	for i, e := range f.Education {
		if e.ID == id {
			f.Education = append(f.Education[:i], f.Education[i+1:]...)
			return true
		}
	}
	return false
}

func (f *ProfileForm) AddProject() string {
	id := NewTempID()
	f.Projects = append(f.Projects, models.Project{ID: id})
	return id
}

func (f *ProfileForm) RemoveProject(id string) bool {
	for i, p := range f.Projects {
		if p.ID == id {
			f.Projects = append(f.Projects[:i], f.Projects[i+1:]...)
			return true
		}
	}
	return false
}

func (f *ProfileForm) Skills() []string {
	return ParseSkills(f.SkillsText)
}

// Update - снимок формы для backend; id записей убираются, их назначает backend
func (f *ProfileForm) Update() apiclient.ProfileUpdate {
	education := make([]models.Education, 0, len(f.Education))
	for _, e := range f.Education {
		e.ID = ""
		education = append(education, e)
	}
	projects := make([]models.Project, 0, len(f.Projects))
	for _, p := range f.Projects {
		p.ID = ""
		projects = append(projects, p)
	}
	return apiclient.ProfileUpdate{
		Name:       f.Name,
		Phone:      f.Phone,
		Location:   f.Location,
		About:      f.About,
		Experience: f.Experience,
		Skills:     f.Skills(),
		Education:  education,
		Projects:   projects,
	}
}
