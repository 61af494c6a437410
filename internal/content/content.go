package content

import (
	_ "embed"
	"fmt"
	"html/template"

	"jobportal_web/internal/textutil"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var raw []byte

type Stat struct {
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
	Label  string `yaml:"label"`
}

type Topic struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Post struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Date   string `yaml:"date"`
	Image  string `yaml:"image"`
	Body   string `yaml:"body"`
	// Excerpt - текст тела без разметки, для карточек
	Excerpt string `yaml:"-"`
}

// HTML - тело поста; источник встроен в бинарник и считается доверенным
func (p Post) HTML() template.HTML {
	return template.HTML(p.Body)
}

type QA struct {
	Q string `yaml:"q"`
	A string `yaml:"a"`
}

type ResumeTemplate struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	Link  string `yaml:"link"`
}

type Content struct {
	About struct {
		Stats      []Stat   `yaml:"stats"`
		Highlights []string `yaml:"highlights"`
	} `yaml:"about"`
	Blog struct {
		Topics []Topic `yaml:"topics"`
		Posts  []Post  `yaml:"posts"`
	} `yaml:"blog"`
	FAQs               []QA             `yaml:"faqs"`
	InterviewQuestions []QA             `yaml:"interview_questions"`
	ResumeTemplates    []ResumeTemplate `yaml:"resume_templates"`

	posts map[string]*Post
}

// Load разбирает встроенный документ
func Load() (*Content, error) {
	return Parse(raw)
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	c.posts = make(map[string]*Post, len(c.Blog.Posts))
	for i := range c.Blog.Posts {
		p := &c.Blog.Posts[i]
		if p.ID == "" {
			return nil, fmt.Errorf("blog post %d has no id", i)
		}
		if _, dup := c.posts[p.ID]; dup {
			return nil, fmt.Errorf("duplicate blog post id %q", p.ID)
		}
		p.Excerpt = textutil.Excerpt(p.Body, textutil.ExcerptLength)
		c.posts[p.ID] = p
	}
	return &c, nil
}

// Post - пост по id; ok=false если такого нет
func (c *Content) Post(id string) (*Post, bool) {
	p, ok := c.posts[id]
	return p, ok
}
