package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iyunix/go-legalist/internal/config"
	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/services/ai"
	"github.com/iyunix/go-legalist/internal/testutil"
)

type stubProvider struct{}

func (stubProvider) Complete(_ context.Context, messages []ai.Message, _ int) (string, error) {
	return "**Stub** reply", nil
}

func (stubProvider) HealthCheck(context.Context) error { return nil }

type testApp struct {
	app     *Application
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	today := time.Now().Format("02-Jan-2006")
	court := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="/view-pdf/77">STATE VS. RAO - Crl.A. No. 5/2026 - %s</a></body></html>`, today)
	}))
	t.Cleanup(court.Close)

	cfg := &config.Config{
		AppURL:               "http://app.test",
		CORSOrigins:          []string{"*"},
		JWTSecretKey:         "test-secret",
		JWTTTL:               time.Hour,
		LLMTimeout:           time.Minute,
		LLMMaxTokens:         256,
		TranslationMaxTokens: 512,
		UploadDir:            t.TempDir(),
		JobWorkers:           1,
		JobTimeout:           10 * time.Second,
		JobMaxAttempts:       1,
		JudgmentsURL:         court.URL + "/",
		AdminEmail:           "admin",
		AdminPassword:        "1234567890",
	}

	db := testutil.NewDB(t)
	a, err := New(cfg, zap.NewNop(), Options{DB: db, Provider: stubProvider{}})
	require.NoError(t, err)
	require.NoError(t, a.Migrate(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	a.StartWorkers(ctx)
	t.Cleanup(func() {
		cancel()
		a.Queue.Wait()
		_ = a.Close()
	})
	return &testApp{app: a, handler: a.Handler}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func (ta *testApp) upload(t *testing.T, path, token, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func (ta *testApp) register(t *testing.T, email string) string {
	t.Helper()
	rr := ta.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "correct-horse", "full_name": "Test User",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[map[string]string](t, rr)["access_token"]
}

func (ta *testApp) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestAuthFlow(t *testing.T) {
	ta := newTestApp(t)

	token := ta.register(t, "lawyer@example.com")
	assert.NotEmpty(t, token)

	rr := ta.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "lawyer@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already registered", decode[map[string]string](t, rr)["error"])

	rr = ta.login(t, "lawyer@example.com", "correct-horse")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bearer", decode[map[string]string](t, rr)["token_type"])
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "auth_token=")

	rr = ta.login(t, "lawyer@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))

	rr = ta.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "lawyer@example.com", me["email"])
	assert.NotContains(t, me, "password")

	assert.Equal(t, http.StatusUnauthorized, ta.do(t, http.MethodGet, "/auth/me", "", nil).Code)

	rr = ta.do(t, http.MethodPut, "/auth/profile", token, map[string]string{"full_name": "Asha Rao"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Asha Rao", decode[map[string]interface{}](t, rr)["full_name"])

	rr = ta.do(t, http.MethodPut, "/auth/profile", token, map[string]string{"new_password": "another-secret"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, http.MethodPost, "/auth/reset-password", "", map[string]string{"token": "bogus", "new_password": "another-secret"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRoutes(t *testing.T) {
	ta := newTestApp(t)
	userToken := ta.register(t, "clerk@example.com")

	rr := ta.login(t, "admin", "1234567890")
	require.Equal(t, http.StatusOK, rr.Code)
	adminToken := decode[map[string]string](t, rr)["access_token"]

	assert.Equal(t, http.StatusForbidden, ta.do(t, http.MethodGet, "/auth/users", userToken, nil).Code)

	rr = ta.do(t, http.MethodGet, "/auth/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[struct {
		Users []struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"users"`
		Total int `json:"total"`
	}](t, rr)
	assert.Equal(t, 2, page.Total)
	assert.NotContains(t, rr.Body.String(), "$2a$", "password hashes are never listed")

	ids := map[string]uint{}
	for _, u := range page.Users {
		ids[u.Email] = u.ID
	}

	rr = ta.do(t, http.MethodGet, "/auth/users/export", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "clerk@example.com")

	rr = ta.do(t, http.MethodDelete, fmt.Sprintf("/auth/users/%d", ids["admin"]), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodDelete, fmt.Sprintf("/auth/users/%d", ids["clerk@example.com"]), adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusUnauthorized, ta.do(t, http.MethodGet, "/auth/me", userToken, nil).Code)
}

func TestGuestAndUserChat(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodPost, "/chat/message", "", map[string]string{"message": "What is anticipatory bail?"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	reply := decode[struct {
		SessionID uint   `json:"session_id"`
		Response  string `json:"response"`
	}](t, rr)
	assert.Equal(t, "**Stub** reply", reply.Response)
	require.NotZero(t, reply.SessionID)

	rr = ta.do(t, http.MethodGet, fmt.Sprintf("/chat/sessions/%d", reply.SessionID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	history := decode[[]map[string]interface{}](t, rr)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0]["role"])
	assert.Equal(t, "assistant", history[1]["role"])
	assert.Contains(t, history[1]["content_html"], "<strong>Stub</strong>")

	owner := ta.register(t, "owner@example.com")
	other := ta.register(t, "other@example.com")

	rr = ta.do(t, http.MethodPost, "/chat/sessions", owner, map[string]string{})
	require.Equal(t, http.StatusOK, rr.Code)
	session := decode[domain.ChatSession](t, rr)
	assert.Equal(t, domain.DefaultSessionTitle, session.Title)

	rr = ta.do(t, http.MethodPost, "/chat/message", owner, map[string]interface{}{"session_id": session.ID, "message": "Draft a notice"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, http.MethodGet, "/chat/sessions", owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.ChatSession](t, rr), 1)

	assert.Equal(t, http.StatusForbidden, ta.do(t, http.MethodGet, fmt.Sprintf("/chat/sessions/%d", session.ID), other, nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, "/chat/sessions/99999", owner, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ta.do(t, http.MethodGet, "/chat/sessions", "", nil).Code)

	rr = ta.do(t, http.MethodPost, "/chat/draft", owner, map[string]string{"topic": "Rental agreement"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "**Stub** reply", decode[map[string]string](t, rr)["draft"])

	rr = ta.do(t, http.MethodDelete, fmt.Sprintf("/chat/sessions/%d", session.ID), owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, fmt.Sprintf("/chat/sessions/%d", session.ID), owner, nil).Code)
}

func TestChatUploadAddsDocumentMessage(t *testing.T) {
	ta := newTestApp(t)
	token := ta.register(t, "owner@example.com")

	rr := ta.do(t, http.MethodPost, "/chat/sessions", token, map[string]string{"title": "Brief review"})
	require.Equal(t, http.StatusOK, rr.Code)
	session := decode[domain.ChatSession](t, rr)

	rr = ta.upload(t, "/chat/upload", token, "brief.pdf", []byte("%PDF-1.4 not really"), map[string]string{
		"session_id": fmt.Sprint(session.ID),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ta.do(t, http.MethodGet, fmt.Sprintf("/chat/sessions/%d", session.ID), token, nil)
	history := decode[[]map[string]interface{}](t, rr)
	require.Len(t, history, 1)
	assert.Equal(t, "brief.pdf", history[0]["document_name"])

	rr = ta.upload(t, "/chat/upload", token, "notes.txt", []byte("plain"), map[string]string{
		"session_id": fmt.Sprint(session.ID),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "only PDF files are supported", decode[map[string]string](t, rr)["error"])

	rr = ta.do(t, http.MethodGet, "/cases", token, nil)
	docs := decode[[]domain.Document](t, rr)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.DocumentCompleted, docs[0].Status)
	assert.Equal(t, domain.ChatUploadContent, docs[0].Content)
}

func TestCaseLifecycle(t *testing.T) {
	ta := newTestApp(t)
	token := ta.register(t, "owner@example.com")
	stranger := ta.register(t, "stranger@example.com")
	content := []byte("%PDF-1.4 unreadable scan")

	rr := ta.upload(t, "/cases/upload", token, "case.pdf", content, map[string]string{"language": "Hindi"})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	uploaded := decode[struct {
		CaseID uint   `json:"case_id"`
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}](t, rr)
	assert.Equal(t, string(domain.DocumentPending), uploaded.Status)
	casePath := fmt.Sprintf("/cases/%d", uploaded.CaseID)

	require.Eventually(t, func() bool {
		rr := ta.do(t, http.MethodGet, casePath, token, nil)
		return rr.Code == http.StatusOK && decode[domain.Document](t, rr).Status == domain.DocumentCompleted
	}, 5*time.Second, 20*time.Millisecond)

	doc := decode[domain.Document](t, ta.do(t, http.MethodGet, casePath, token, nil))
	assert.Equal(t, domain.EmptyExtractionText, doc.Content)
	assert.Equal(t, "Hindi", doc.TargetLanguage)

	require.Eventually(t, func() bool {
		rr := ta.do(t, http.MethodGet, "/cases/jobs/"+uploaded.JobID, token, nil)
		return rr.Code == http.StatusOK && decode[map[string]interface{}](t, rr)["status"] == "done"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, "/cases/jobs/"+uploaded.JobID, stranger, nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, casePath, stranger, nil).Code)

	rr = ta.do(t, http.MethodGet, casePath+"/download", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, content, rr.Body.Bytes())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "case.pdf")

	rr = ta.do(t, http.MethodPost, casePath+"/retranslate", token, map[string]string{"language": "English"})
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Eventually(t, func() bool {
		rr := ta.do(t, http.MethodGet, casePath, token, nil)
		d := decode[domain.Document](t, rr)
		return d.Status == domain.DocumentCompleted && d.TargetLanguage == "English"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Len(t, decode[[]domain.Document](t, ta.do(t, http.MethodGet, "/cases/", token, nil)), 1)

	require.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, casePath, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, casePath, token, nil).Code)
}

func TestScheduleRoutes(t *testing.T) {
	ta := newTestApp(t)
	token := ta.register(t, "owner@example.com")
	courtDate := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02T15:04")

	rr := ta.do(t, http.MethodPost, "/schedule", token, map[string]string{"case_name": "State v. Rao", "court_date": courtDate})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	created := decode[domain.Schedule](t, rr)
	assert.True(t, created.NotificationEnabled)
	assert.Equal(t, domain.DefaultScheduleStatus, created.Status)

	rr = ta.do(t, http.MethodPost, "/schedule/", token, map[string]string{"case_name": "X", "court_date": "next tuesday"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodGet, "/schedule/upcoming", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Schedule](t, rr), 1)
	assert.Equal(t, http.StatusBadRequest, ta.do(t, http.MethodGet, "/schedule/upcoming?days=0", token, nil).Code)

	path := fmt.Sprintf("/schedule/%d", created.ID)
	rr = ta.do(t, http.MethodPut, path, token, map[string]interface{}{"status": "Adjourned", "notification_enabled": false})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[domain.Schedule](t, rr)
	assert.Equal(t, "Adjourned", updated.Status)
	assert.False(t, updated.NotificationEnabled)

	assert.Len(t, decode[[]domain.Schedule](t, ta.do(t, http.MethodGet, "/schedule", token, nil)), 1)

	require.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodDelete, path, token, nil).Code)
}

func TestPublicRoutes(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodGet, "/judgments/live", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	live := decode[[]domain.Judgment](t, rr)
	require.Len(t, live, 1)
	assert.Equal(t, "STATE VS. RAO", live[0].Title)
	assert.Equal(t, "Criminal", live[0].Category)

	rr = ta.do(t, http.MethodGet, "/verdicts/recent", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, decode[[]domain.Verdict](t, rr))

	rr = ta.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[map[string]interface{}](t, rr)["status"])

	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodGet, "/", "", nil).Code)

	rr = ta.do(t, http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found", decode[map[string]string](t, rr)["error"])

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	pre := httptest.NewRecorder()
	ta.handler.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Equal(t, "http://app.test", pre.Header().Get("Access-Control-Allow-Origin"))

	rr = ta.do(t, http.MethodPost, "/api/log", "", map[string]string{"level": "error", "message": "render failed"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
