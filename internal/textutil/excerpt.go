package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ExcerptLength - длина описания на карточке вакансии
const ExcerptLength = 160

// PlainText убирает разметку и схлопывает пробелы.
// Описания вакансий приходят как HTML из редактора работодателя.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script,style").Remove()
	// блочные элементы разделяем пробелом, иначе слова слипаются
	doc.Find("p,li,br,div,h1,h2,h3,h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt - не больше n рун текста, обрезка по границе слова с многоточием
func Excerpt(html string, n int) string {
	text := PlainText(html)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
