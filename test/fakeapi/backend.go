package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// FakeBackend - in-memory REST API вакансий для тестов (формат ответов как у настоящего: "_id").
type FakeBackend struct {
	Server *httptest.Server

	mu           sync.Mutex
	users        map[string]*fakeUser // email -> user
	tokens       map[string]string    // token -> email
	pendingOTP   map[string]fakePending
	jobs         []map[string]any
	applications map[string][]map[string]any // email -> applications
	alerts       map[string][]map[string]any // email -> alerts
	calls        []Call
	seq          int64

	// Переключатели поведения
	Paginate        bool         // отвечать {jobs,totalPages,...} вместо массива
	FailDeleteAlert atomic.Bool  // DELETE /alerts/:id -> 500
	FailProfileSave atomic.Bool  // PUT /users/profile -> 400
	FailSimilar     atomic.Bool  // GET /jobs?category=... -> 500
	Latency         time.Duration
	ProfileCalls    atomic.Int64 // число GET /users/profile
}

type fakeUser struct {
	Password string
	Data     map[string]any
}

type fakePending struct {
	Name     string
	Password string
	Code     string
}

// Call - записанный запрос к backend
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
}

const (
	FakeOTP      = "123456"
	FakePassword = "secret123"
)

func NewFakeBackend(t *testing.T) *FakeBackend {
	fb := &FakeBackend{
		users:        make(map[string]*fakeUser),
		tokens:       make(map[string]string),
		pendingOTP:   make(map[string]fakePending),
		applications: make(map[string][]map[string]any),
		alerts:       make(map[string][]map[string]any),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", fb.handleLogin)
	mux.HandleFunc("POST /api/auth/google", fb.handleGoogle)
	mux.HandleFunc("POST /api/auth/send-otp", fb.handleSendOTP)
	mux.HandleFunc("POST /api/auth/verify-otp", fb.handleVerifyOTP)
	mux.HandleFunc("GET /api/users/profile", fb.handleProfile)
	mux.HandleFunc("PUT /api/users/profile", fb.handleUpdateProfile)
	mux.HandleFunc("GET /api/jobs", fb.handleJobs)
	mux.HandleFunc("GET /api/jobs/{id}", fb.handleJob)
	mux.HandleFunc("POST /api/jobs/{id}/apply", fb.handleApply)
	mux.HandleFunc("GET /api/applications/me", fb.handleApplications)
	mux.HandleFunc("GET /api/alerts", fb.handleAlerts)
	mux.HandleFunc("POST /api/alerts", fb.handleCreateAlert)
	mux.HandleFunc("DELETE /api/alerts/{id}", fb.handleDeleteAlert)

	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		if fb.Latency > 0 {
			time.Sleep(fb.Latency)
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL - базовый адрес API (аналог https://.../api)
func (fb *FakeBackend) URL() string {
	return fb.Server.URL + "/api"
}

func (fb *FakeBackend) record(r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.calls = append(fb.calls, Call{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, "/api"),
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
	})
}

// Calls возвращает копию журнала запросов
func (fb *FakeBackend) Calls() []Call {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]Call(nil), fb.calls...)
}

// CallsTo - запросы с данным методом и путём
func (fb *FakeBackend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range fb.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (fb *FakeBackend) nextID(prefix string) string {
	fb.seq++
	return fmt.Sprintf("%s%d", prefix, fb.seq)
}

// ============================================================================
// Наполнение данными
// ============================================================================

// AddUser регистрирует пользователя и возвращает его токен
func (fb *FakeBackend) AddUser(name, email, password string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.nextID("u")
	fb.users[email] = &fakeUser{
		Password: password,
		Data: map[string]any{
			"_id":      id,
			"name":     name,
			"email":    email,
			"skills":   []string{},
			"provider": "local",
		},
	}
	token := "tok-" + id
	fb.tokens[token] = email
	return token
}

// AddJob добавляет вакансию и возвращает её id
func (fb *FakeBackend) AddJob(title, company, category, jobType, experience string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.nextID("j")
	fb.jobs = append(fb.jobs, map[string]any{
		"_id":           id,
		"title":         title,
		"companyName":   company,
		"location":      "Pune",
		"description":   "<p>Build <b>great</b> things with " + title + "</p>",
		"skills":        []string{"Go"},
		"qualification": "B.Tech",
		"category":      category,
		"salary":        1200000,
		"jobType":       jobType,
		"experience":    experience,
		"createdAt":     "2024-05-01T10:00:00.000Z",
	})
	return id
}

// AddAlert добавляет алерт пользователю
func (fb *FakeBackend) AddAlert(email, keyword, location string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.nextID("a")
	fb.alerts[email] = append(fb.alerts[email], map[string]any{"_id": id, "keyword": keyword, "location": location})
	return id
}

// SetApplicationStatus - статус меняется только backend
func (fb *FakeBackend) SetApplicationStatus(email, jobID, status string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, a := range fb.applications[email] {
		if job, ok := a["job"].(map[string]any); ok && job["_id"] == jobID {
			a["status"] = status
		}
	}
}

// Alerts - текущие алерты пользователя на стороне backend
func (fb *FakeBackend) Alerts(email string) []map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]map[string]any(nil), fb.alerts[email]...)
}

// User - текущие данные пользователя на стороне backend
func (fb *FakeBackend) User(email string) map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if u, ok := fb.users[email]; ok {
		return u.Data
	}
	return nil
}

// ============================================================================
// Обработчики
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (fb *FakeBackend) authEmail(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	email, ok := fb.tokens[token]
	return email, ok
}

// flatAuth - плоский ответ {token, _id, name, ...}
func flatAuth(token string, data map[string]any) map[string]any {
	out := map[string]any{"token": token}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (fb *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)

	fb.mu.Lock()
	u, ok := fb.users[body.Email]
	var token string
	if ok && u.Password == body.Password {
		for t, e := range fb.tokens {
			if e == body.Email {
				token = t
			}
		}
	}
	fb.mu.Unlock()

	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, flatAuth(token, u.Data))
}

func (fb *FakeBackend) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken string `json:"idToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if !strings.HasPrefix(body.IDToken, "google:") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid Google token"})
		return
	}
	email := strings.TrimPrefix(body.IDToken, "google:")

	fb.mu.Lock()
	_, exists := fb.users[email]
	fb.mu.Unlock()
	if !exists {
		fb.AddUser("Google User", email, "")
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	var token string
	for t, e := range fb.tokens {
		if e == email {
			token = t
		}
	}
	// вложенный формат ответа
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": fb.users[email].Data})
}

func (fb *FakeBackend) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct{ Name, Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "All fields are required"})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, exists := fb.users[body.Email]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		return
	}
	fb.pendingOTP[body.Email] = fakePending{Name: body.Name, Password: body.Password, Code: FakeOTP}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to email"})
}

func (fb *FakeBackend) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct{ Email, Otp string }
	_ = json.NewDecoder(r.Body).Decode(&body)

	fb.mu.Lock()
	pending, ok := fb.pendingOTP[body.Email]
	if ok && pending.Code == body.Otp {
		delete(fb.pendingOTP, body.Email)
	}
	fb.mu.Unlock()

	if !ok || pending.Code != body.Otp {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid or expired OTP"})
		return
	}
	token := fb.AddUser(pending.Name, body.Email, pending.Password)
	writeJSON(w, http.StatusCreated, flatAuth(token, fb.User(body.Email)))
}

func (fb *FakeBackend) handleProfile(w http.ResponseWriter, r *http.Request) {
	fb.ProfileCalls.Add(1)
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized, token failed"})
		return
	}
	writeJSON(w, http.StatusOK, fb.User(email))
}

func (fb *FakeBackend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	if fb.FailProfileSave.Load() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Profile update rejected"})
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad multipart body"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	data := fb.users[email].Data
	for _, f := range []string{"name", "phone", "location", "about", "experience"} {
		if v, ok := r.MultipartForm.Value[f]; ok && len(v) > 0 {
			data[f] = v[0]
		}
	}
	for _, f := range []string{"skills", "education", "projects"} {
		if v, ok := r.MultipartForm.Value[f]; ok && len(v) > 0 {
			var list []map[string]any
			if f == "skills" {
				var skills []string
				_ = json.Unmarshal([]byte(v[0]), &skills)
				data[f] = skills
				continue
			}
			_ = json.Unmarshal([]byte(v[0]), &list)
			for _, item := range list {
				if _, has := item["id"]; has {
					// временные id не должны доходить до backend
					writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unexpected id in " + f})
					return
				}
				item["_id"] = fb.nextID(f[:1])
			}
			data[f] = list
		}
	}
	if fh, ok := r.MultipartForm.File["profileImage"]; ok && len(fh) > 0 {
		data["profileImage"] = "/uploads/" + fh[0].Filename
	}
	if fh, ok := r.MultipartForm.File["resume"]; ok && len(fh) > 0 {
		data["resume"] = fh[0].Filename
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated", "user": data})
}

func (fb *FakeBackend) matchingJobs(q url.Values) []map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	multi := func(key string) map[string]bool {
		set := map[string]bool{}
		for _, v := range strings.Split(q.Get(key), ",") {
			if v != "" {
				set[v] = true
			}
		}
		return set
	}
	types, levels, cats := multi("jobType"), multi("experience"), multi("category")
	keyword := strings.ToLower(q.Get("keyword"))

	var out []map[string]any
	for _, j := range fb.jobs {
		if keyword != "" && !strings.Contains(strings.ToLower(j["title"].(string)), keyword) {
			continue
		}
		if len(types) > 0 && !types[j["jobType"].(string)] {
			continue
		}
		if len(levels) > 0 && !levels[j["experience"].(string)] {
			continue
		}
		if len(cats) > 0 && !cats[j["category"].(string)] {
			continue
		}
		out = append(out, j)
	}
	return out
}

func (fb *FakeBackend) handleJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("category") != "" && fb.FailSimilar.Load() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "similar jobs unavailable"})
		return
	}
	jobs := fb.matchingJobs(q)
	if jobs == nil {
		jobs = []map[string]any{}
	}
	if !fb.Paginate {
		writeJSON(w, http.StatusOK, jobs)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	total := len(jobs)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"jobs":       jobs[start:end],
		"totalJobs":  total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func (fb *FakeBackend) findJob(id string) map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, j := range fb.jobs {
		if j["_id"] == id {
			return j
		}
	}
	return nil
}

func (fb *FakeBackend) handleJob(w http.ResponseWriter, r *http.Request) {
	job := fb.findJob(r.PathValue("id"))
	if job == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Job not found"})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (fb *FakeBackend) handleApply(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	job := fb.findJob(r.PathValue("id"))
	if job == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Job not found"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, a := range fb.applications[email] {
		if a["job"].(map[string]any)["_id"] == job["_id"] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "You have already applied for this job"})
			return
		}
	}
	fb.applications[email] = append(fb.applications[email], map[string]any{
		"_id":    fb.nextID("app"),
		"job":    job,
		"status": "Pending",
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Application submitted successfully!"})
}

func (fb *FakeBackend) handleApplications(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	fb.mu.Lock()
	apps := append([]map[string]any{}, fb.applications[email]...)
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, apps)
}

func (fb *FakeBackend) handleAlerts(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	alerts := fb.Alerts(email)
	if alerts == nil {
		alerts = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (fb *FakeBackend) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	var body struct{ Keyword, Location string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Keyword == "" && body.Location == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Keyword or location required"})
		return
	}
	id := fb.AddAlert(email, body.Keyword, body.Location)
	writeJSON(w, http.StatusCreated, map[string]any{"_id": id, "keyword": body.Keyword, "location": body.Location})
}

func (fb *FakeBackend) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	email, ok := fb.authEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
		return
	}
	if fb.FailDeleteAlert.Load() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Could not delete alert"})
		return
	}
	id := r.PathValue("id")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	list := fb.alerts[email]
	for i, a := range list {
		if a["_id"] == id {
			fb.alerts[email] = append(list[:i:i], list[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Alert deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Alert not found"})
}
