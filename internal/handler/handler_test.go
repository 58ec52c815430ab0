package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appI18n "github.com/pavelanni/exampaper/internal/i18n"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/pdfexport"
	"github.com/pavelanni/exampaper/internal/store"
)

const (
	testCSRF     = "test-csrf-token"
	testPassword = "correct-horse"
)

type fakeGenerator struct {
	questions []model.QuestionRecord
	err       error
	got       model.GenerateRequest
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, req model.GenerateRequest) ([]model.QuestionRecord, error) {
	f.got = req
	return f.questions, f.err
}

type testEnv struct {
	t            *testing.T
	store        *store.Store
	gen          *fakeGenerator
	router       http.Handler
	adminToken   string
	teacherToken string
	teacherID    int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, appI18n.Init("en"))

	s, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	env := &testEnv{t: t, store: s, gen: &fakeGenerator{}}
	adminID := env.createUser("admin", model.UserRoleAdmin)
	env.teacherID = env.createUser("tina", model.UserRoleTeacher)
	env.adminToken = env.login(adminID)
	env.teacherToken = env.login(env.teacherID)

	exp := pdfexport.New(pdfexport.WithClock(func() time.Time {
		return time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	}))
	h := New(s, env.gen, exp, Config{})
	r := chi.NewRouter()
	r.Use(appI18n.Middleware("en"))
	r.Use(h.BasePathMiddleware)
	h.Routes(r)
	env.router = r
	return env
}

func (env *testEnv) createUser(username string, role model.UserRole) int64 {
	env.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(env.t, err)
	id, err := env.store.CreateUser(model.User{
		Username: username, DisplayName: username, PasswordHash: string(hash), Role: role, Active: true,
	})
	require.NoError(env.t, err)
	return id
}

func (env *testEnv) login(userID int64) string {
	env.t.Helper()
	sess, err := env.store.CreateAuthSession(userID)
	require.NoError(env.t, err)
	return sess.ID
}

// do sends a request with the session and CSRF cookies of token.
func (env *testEnv) do(method, target, token, contentType string, body []byte) *httptest.ResponseRecorder {
	env.t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	req.Header.Set(csrfHeaderName, testCSRF)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(method, target, token string, v any) *httptest.ResponseRecorder {
	env.t.Helper()
	var body []byte
	if v != nil {
		var err error
		body, err = json.Marshal(v)
		require.NoError(env.t, err)
	}
	return env.do(method, target, token, "application/json", body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) addQuestion(subject, className string, options []string, correct int) string {
	env.t.Helper()
	id, err := env.store.InsertQuestion(model.QuestionRecord{
		QuestionText: "Question for " + subject, Subject: subject, ClassName: className,
		Options: options, CorrectAnswerIndex: correct, Explanation: "Because.",
	})
	require.NoError(env.t, err)
	return id
}

func (env *testEnv) grant(subject, className string) {
	env.t.Helper()
	_, err := env.store.GrantAccess(model.AccessGrant{UserID: env.teacherID, Subject: subject, ClassName: className})
	require.NoError(env.t, err)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	// The login page hands out a CSRF cookie.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var csrf string
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			csrf = c.Value
		}
	}
	require.NotEmpty(t, csrf)
	assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+csrf+`"`)

	post := func(password, formToken string) *httptest.ResponseRecorder {
		form := url.Values{"username": {"tina"}, "password": {password}, "csrf_token": {formToken}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: csrf})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec = post(testPassword, csrf)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	var session string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c.Value
		}
	}
	assert.NotEmpty(t, session)

	rec = post("wrong", csrf)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")

	rec = post(testPassword, "forged")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/logout", env.teacherToken, "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(http.MethodGet, "/api/papers", env.teacherToken, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", "", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = env.do(http.MethodGet, "/api/questions", "bogus", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCSRFRequiredForAPI(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: env.adminToken})
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuestionAPI(t *testing.T) {
	env := newTestEnv(t)
	newQuestion := model.QuestionImport{
		QuestionText: "2 + 2?", Subject: "Math", ClassName: "5",
		Options: []string{"3", "4"}, CorrectAnswerIndex: 1,
	}

	// Teachers add questions only to subjects and classes they are granted.
	rec := env.doJSON(http.MethodPost, "/api/questions", env.teacherToken, newQuestion)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.grant("Math", "5")
	rec = env.doJSON(http.MethodPost, "/api/questions", env.teacherToken, newQuestion)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.QuestionRecord](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = env.doJSON(http.MethodPost, "/api/questions", env.teacherToken, model.QuestionImport{
		QuestionText: "Broken", Subject: "Math", ClassName: "5",
		Options: []string{"a", "b"}, CorrectAnswerIndex: 5,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decode[errorResponse](t, rec)
	assert.Contains(t, errResp.Fields, "correct_answer_index")

	env.addQuestion("Physics", "9", nil, 0)

	rec = env.do(http.MethodGet, "/api/questions?subject=Math", env.teacherToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.QuestionRecord](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "2 + 2?", list[0].QuestionText)

	rec = env.do(http.MethodGet, "/api/questions?subject=Biology", env.teacherToken, "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	// The Physics question is outside the teacher's grants.
	rec = env.do(http.MethodGet, "/api/questions", env.teacherToken, "", nil)
	list = decode[[]model.QuestionRecord](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Math", list[0].Subject)

	rec = env.do(http.MethodGet, "/api/questions", env.adminToken, "", nil)
	assert.Len(t, decode[[]model.QuestionRecord](t, rec), 2)
}

func TestImportQuestions(t *testing.T) {
	env := newTestEnv(t)

	upload := func(token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("questions_file", "bank.json")
		require.NoError(t, err)
		_, _ = fw.Write([]byte(`[{"question_text": "Q", "subject": "Math", "class_name": "5", "options": ["a", "b"], "correct_answer_index": 0}]`))
		require.NoError(t, mw.Close())
		return env.do(http.MethodPost, "/api/questions/import", token, mw.FormDataContentType(), buf.Bytes())
	}

	rec := upload(env.teacherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = upload(env.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"imported"`)

	rec = upload(env.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unchanged"`)
}

func TestDeleteQuestion(t *testing.T) {
	env := newTestEnv(t)
	used := env.addQuestion("Math", "5", []string{"a", "b"}, 0)
	unused := env.addQuestion("Math", "5", nil, 0)

	_, err := env.store.CreatePaper(model.Paper{Title: "P", Subject: "Math", ClassName: "5", QuestionIDs: []string{used}})
	require.NoError(t, err)

	rec := env.do(http.MethodDelete, "/api/questions/"+used, env.adminToken, "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodDelete, "/api/questions/"+unused, env.teacherToken, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, "/api/questions/"+unused, env.adminToken, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, "/api/questions/"+unused, env.adminToken, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaperAccessControl(t *testing.T) {
	env := newTestEnv(t)
	q1 := env.addQuestion("Physics", "9", []string{"Inertia", "Friction"}, 0)
	q2 := env.addQuestion("Physics", "9", nil, 0)

	req := model.CreatePaperRequest{
		Title: "Midterm", Subject: "Physics", ClassName: "9",
		Instructions: []string{"Answer all questions."}, TimeLimitMinutes: 45, TotalMarks: 20,
		QuestionIDs: []string{q2, q1},
	}

	// Teachers need a grant to build a paper.
	rec := env.doJSON(http.MethodPost, "/api/papers", env.teacherToken, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/papers", env.adminToken, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	paper := decode[model.Paper](t, rec)
	assert.Equal(t, []string{q2, q1}, paper.QuestionIDs)
	paperURL := "/api/papers/" + itoa(paper.ID)

	rec = env.do(http.MethodGet, "/api/papers", env.teacherToken, "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
	rec = env.do(http.MethodGet, paperURL, env.teacherToken, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(http.MethodGet, paperURL+"/export/question-paper", env.teacherToken, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/access", env.adminToken, model.AccessGrant{
		UserID: env.teacherID, Subject: "Physics", ClassName: "9",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	granted := decode[model.AccessGrant](t, rec)
	assert.NotZero(t, granted.ID)
	assert.False(t, granted.CreatedAt.IsZero())
	assert.Equal(t, env.teacherID, granted.UserID)

	// A paper may only use questions the teacher can see.
	other := env.addQuestion("Math", "5", []string{"a", "b"}, 0)
	mixed := req
	mixed.QuestionIDs = []string{q1, other}
	rec = env.doJSON(http.MethodPost, "/api/papers", env.teacherToken, mixed)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	own := req
	own.Title = "Quiz"
	own.QuestionIDs = []string{q1}
	rec = env.doJSON(http.MethodPost, "/api/papers", env.teacherToken, own)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ownPaper := decode[model.Paper](t, rec)

	rec = env.do(http.MethodGet, "/api/papers", env.teacherToken, "", nil)
	papers := decode[[]model.Paper](t, rec)
	require.Len(t, papers, 2)
	assert.Equal(t, ownPaper.ID, papers[0].ID)

	rec = env.do(http.MethodGet, paperURL, env.teacherToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode[paperResponse](t, rec)
	require.Len(t, full.Questions, 2)
	assert.Equal(t, q2, full.Questions[0].ID)

	rec = env.do(http.MethodGet, paperURL+"/export/question-paper", env.teacherToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=question-paper-export-2026-03-05.pdf`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = env.do(http.MethodGet, paperURL+"/export/answer-key", env.teacherToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, q2, rec.Header().Get("X-Skipped-Questions"))

	rec = env.do(http.MethodGet, "/api/papers/999", env.adminToken, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(http.MethodGet, "/api/papers/abc", env.adminToken, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	grants := decode[[]model.AccessGrant](t, env.do(http.MethodGet, "/api/access?user_id="+itoa(env.teacherID), env.adminToken, "", nil))
	require.Len(t, grants, 1)
	assert.Equal(t, granted.ID, grants[0].ID)
	rec = env.do(http.MethodDelete, "/api/access/"+itoa(grants[0].ID), env.adminToken, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, paperURL, env.teacherToken, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdhocExport(t *testing.T) {
	env := newTestEnv(t)
	bankID := env.addQuestion("Math", "5", []string{"3", "4"}, 1)

	body := map[string]any{
		"questions": []model.QuestionRecord{
			{ID: "a", QuestionText: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswerIndex: 1},
			{ID: "b", QuestionText: "Explain zero."},
		},
		"file_name": "../../etc/key",
	}
	rec := env.doJSON(http.MethodPost, "/api/export/answer-key", env.teacherToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "b", rec.Header().Get("X-Skipped-Questions"))
	assert.Equal(t, "1", rec.Header().Get("X-Page-Count"))
	assert.Equal(t, `attachment; filename=key.pdf`, rec.Header().Get("Content-Disposition"))

	byID := map[string]any{
		"question_ids":    []string{bankID},
		"include_answers": true,
	}
	rec = env.doJSON(http.MethodPost, "/api/export/questions", env.teacherToken, byID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.grant("Math", "5")
	rec = env.doJSON(http.MethodPost, "/api/export/questions", env.teacherToken, byID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename=questions-export-2026-03-05.pdf`, rec.Header().Get("Content-Disposition"))

	rec = env.doJSON(http.MethodPost, "/api/export/questions", env.teacherToken, map[string]any{
		"questions": []model.QuestionRecord{{ID: "bad", QuestionText: "?", Options: []string{"x"}, CorrectAnswerIndex: 3}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	rec = env.doJSON(http.MethodPost, "/api/export/questions", env.teacherToken, map[string]any{
		"question_ids": []string{"missing"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/export/flashcards", env.teacherToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/export/question-paper", env.teacherToken, map[string]any{
		"questions": []model.QuestionRecord{{ID: "ru", QuestionText: "Сколько будет дважды два?", Options: []string{"три", "четыре"}, CorrectAnswerIndex: 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = env.doJSON(http.MethodPost, "/api/export/question-paper", env.teacherToken, map[string]any{
		"questions": []model.QuestionRecord{{ID: "hi", QuestionText: "दो और दो?"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `id \"hi\"`)
}

func TestGenerateQuestions(t *testing.T) {
	env := newTestEnv(t)
	env.gen.questions = []model.QuestionRecord{
		{QuestionText: "Generated?", Subject: "Math", ClassName: "5", Options: []string{"y", "n"}},
	}
	req := model.GenerateRequest{Subject: "Math", ClassName: "5", Count: 1}

	rec := env.doJSON(http.MethodPost, "/api/questions/generate", env.teacherToken, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.gen.got.Subject, "generator is not called without a grant")

	env.grant("Math", "5")
	rec = env.doJSON(http.MethodPost, "/api/questions/generate", env.teacherToken, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[generateResponse](t, rec)
	assert.False(t, resp.Saved)
	assert.Empty(t, resp.Questions[0].ID)
	assert.Equal(t, "Math", env.gen.got.Subject)

	rec = env.doJSON(http.MethodPost, "/api/questions/generate?save=true", env.teacherToken, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[generateResponse](t, rec)
	assert.True(t, resp.Saved)
	require.NotEmpty(t, resp.Questions[0].ID)
	_, err := env.store.GetQuestion(resp.Questions[0].ID)
	assert.NoError(t, err)

	rec = env.doJSON(http.MethodPost, "/api/questions/generate", env.teacherToken, model.GenerateRequest{Subject: "Math", ClassName: "5", Count: 50})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env.gen.err = errors.New("model overloaded")
	rec = env.doJSON(http.MethodPost, "/api/questions/generate", env.teacherToken, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateDisabled(t *testing.T) {
	env := newTestEnv(t)
	h := New(env.store, nil, pdfexport.New(), Config{})
	r := chi.NewRouter()
	h.Routes(r)
	env.router = r

	rec := env.doJSON(http.MethodPost, "/api/questions/generate", env.teacherToken, model.GenerateRequest{Subject: "Math", ClassName: "5", Count: 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminPages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/admin/users", env.teacherToken, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/admin/users", env.adminToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tina")

	form := url.Values{"username": {"otto"}, "password": {"long-enough"}, "role": {"teacher"}}
	rec = env.do(http.MethodPost, "/admin/users", env.adminToken, "application/x-www-form-urlencoded", []byte(form.Encode()))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	u, err := env.store.GetUserByUsername("otto")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "otto", u.DisplayName)

	form = url.Values{"username": {"x"}, "password": {"short"}}
	for i := 0; i < 10; i++ {
		rec = env.do(http.MethodPost, "/admin/users", env.adminToken, "application/x-www-form-urlencoded", []byte(form.Encode()))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(),
			"password must be at least 8 characters in length username must be at least 3 characters in length")
	}

	form = url.Values{"user_id": {itoa(u.ID)}, "subject": {"Math"}, "class_name": {"5"}}
	rec = env.do(http.MethodPost, "/admin/access", env.adminToken, "application/x-www-form-urlencoded", []byte(form.Encode()))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	ok, err := env.store.HasAccess(u.ID, "Math", "5")
	require.NoError(t, err)
	assert.True(t, ok)

	rec = env.do(http.MethodPost, "/admin/users/"+itoa(u.ID)+"/toggle", env.adminToken, "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	u, _ = env.store.GetUserByID(u.ID)
	assert.False(t, u.Active)
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t)
	q := env.addQuestion("Math", "5", []string{"a", "b"}, 0)
	_, err := env.store.CreatePaper(model.Paper{Title: "Fractions Quiz", Subject: "Math", ClassName: "5", QuestionIDs: []string{q}})
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/", env.adminToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fractions Quiz")
	assert.Contains(t, rec.Body.String(), "1 question in the bank.")

	rec = env.do(http.MethodGet, "/", env.teacherToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Fractions Quiz")
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"paper.pdf", "paper.pdf"},
		{"paper.PDF", "paper.PDF"},
		{"paper", "paper.pdf"},
		{"../../etc/passwd", "passwd.pdf"},
		{`..\..\win.pdf`, "win.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeFileName(tt.in))
		})
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
