package integration_test

import (
	"strings"
	"testing"

	"jobportal_web/test/fakeapi"
	"jobportal_web/test/helpers"

	"github.com/PuerkitoBio/goquery"
)

const (
	janeEmail = "jane@x.com"
	janeName  = "Jane"
)

// withJane - сайт с одним зарегистрированным пользователем
func withJane(t *testing.T) *helpers.TestServer {
	t.Helper()
	ts := helpers.NewTestServer(t)
	ts.Backend.AddUser(janeName, janeEmail, fakeapi.FakePassword)
	return ts
}

// loggedIn - браузер, в котором Jane уже вошла
func loggedIn(t *testing.T, ts *helpers.TestServer) *helpers.Browser {
	t.Helper()
	b := ts.NewBrowser(t)
	res, _ := b.Login(t, janeEmail, fakeapi.FakePassword, "/")
	if res.Request.URL.Path != "/" {
		t.Fatalf("login did not land on home page: %s", res.Request.URL)
	}
	return b
}

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// linkByText - href ссылки с данным текстом внутри selector
func linkByText(t *testing.T, body, selector, text string) string {
	t.Helper()
	var href string
	parseHTML(t, body).Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == text {
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	if href == "" {
		t.Fatalf("no %q link with text %q", selector, text)
	}
	return href
}

// fragmentURL - адрес догружаемой панели
func fragmentURL(t *testing.T, body string) string {
	t.Helper()
	u, ok := parseHTML(t, body).Find("[data-fragment]").First().Attr("data-fragment")
	if !ok {
		t.Fatal("page has no data-fragment panel")
	}
	return u
}
