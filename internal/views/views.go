package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"jobportal_web/internal/models"
	"jobportal_web/internal/textutil"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates - все страницы и фрагменты одним набором; имя шаблона = имя файла
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static - css/js/картинки для /static
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"lower": strings.ToLower,
		"add":   func(a, b int) int { return a + b },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		// ссылки фильтров: переключение сбрасывает страницу
		"toggleURL": func(f models.JobFilter, param, value string) string {
			return f.Toggle(param, value).URL()
		},
		"withURL": func(f models.JobFilter, param, value string) string {
			return f.With(param, value).URL()
		},
		"hasFilter": func(f models.JobFilter, param, value string) bool {
			return f.Has(param, value)
		},
		"jobsURL": func(keyword, location string) string {
			return models.JobFilter{Keyword: keyword, Location: location}.URL()
		},
		"categoryURL": func(category string) string {
			return models.JobFilter{Categories: []string{category}}.URL()
		},
		"richText":   textutil.SanitizeHTML,
		"previewURL": previewURL,
		"query":      queryValue,
		"initial":    initial,
		"jobTypes":   jobTypes,
		"levels":     levels,
		"categories": func() []string { return models.Categories },
	}
}

func jobTypes() []string {
	out := make([]string, 0, len(models.JobTypes))
	for _, t := range models.JobTypes {
		out = append(out, string(t))
	}
	return out
}

func levels() []string {
	out := make([]string, 0, len(models.ExperienceLevels))
	for _, l := range models.ExperienceLevels {
		out = append(out, string(l))
	}
	return out
}

// previewURL пропускает только data:image/... - превью, собранное сервером
func previewURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

// queryValue - значение параметра внутри href; template.URL, чтобы
// html/template не кодировал % повторно
func queryValue(s string) template.URL {
	return template.URL(url.QueryEscape(s))
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}
