package textutil

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// разметка, которую оставляем в описаниях вакансий; атрибуты удаляются все
var allowedTags = map[string]bool{
	"p": true, "br": true, "ul": true, "ol": true, "li": true,
	"b": true, "strong": true, "i": true, "em": true, "u": true,
	"h2": true, "h3": true, "h4": true, "blockquote": true,
}

const droppedTags = "script,style,iframe,object,embed,form,input,button,textarea,select,link,meta,svg"

// SanitizeHTML - описание вакансии от работодателя, пригодное для вставки в страницу.
// Неизвестные теги разворачиваются (остаётся текст), опасные удаляются с содержимым.
func SanitizeHTML(raw string) template.HTML {
	if !strings.ContainsAny(raw, "<&") {
		return template.HTML(template.HTMLEscapeString(raw))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(PlainText(raw)))
	}
	body := doc.Find("body")
	body.Find(droppedTags).Remove()

	// с конца: потомки обрабатываются раньше родителей
	nodes := body.Find("*")
	for i := nodes.Length() - 1; i >= 0; i-- {
		s := nodes.Eq(i)
		if allowedTags[goquery.NodeName(s)] {
			s.Nodes[0].Attr = nil
			continue
		}
		s.ReplaceWithSelection(s.Contents())
	}

	out, err := body.Html()
	if err != nil {
		return template.HTML(template.HTMLEscapeString(PlainText(raw)))
	}
	return template.HTML(strings.TrimSpace(out))
}
