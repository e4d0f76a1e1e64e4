package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/evaluation"
	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/server/ratelimit"
	"github.com/jonathan/resume-evaluator/internal/types"
)

const resumeText = `Jane Doe
jane.doe@example.com | 555-123-4567
Summary
Backend engineer with Go experience.
Experience
- Developed payment APIs in Go
- Led a team of four engineers
- Implemented CI/CD pipelines
- Designed PostgreSQL schemas
- Reduced latency by 40%
Education
BSc Computer Science
Skills
Go, Python, Docker, Kubernetes, SQL`

// memoryStore is an in-memory Store
type memoryStore struct {
	mu          sync.Mutex
	evaluations map[uuid.UUID]types.Evaluation
	links       map[string]types.ShareLink
	clock       time.Time
	pingErr     error
	saveErr     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		evaluations: make(map[uuid.UUID]types.Evaluation),
		links:       make(map[string]types.ShareLink),
		clock:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) SaveEvaluation(_ context.Context, e *types.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.clock = m.clock.Add(time.Hour)
	e.ID = uuid.New()
	e.CreatedAt = m.clock
	m.evaluations[e.ID] = *e
	return nil
}

func (m *memoryStore) GetEvaluation(_ context.Context, id uuid.UUID) (*types.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evaluations[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memoryStore) ListEvaluations(_ context.Context, userID uuid.UUID, limit int) ([]types.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Evaluation, 0)
	for _, e := range m.evaluations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) DeleteEvaluation(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.evaluations[id]; !ok {
		return fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	delete(m.evaluations, id)
	return nil
}

func (m *memoryStore) CreateShareLink(_ context.Context, evaluationID uuid.UUID, ttl time.Duration) (*types.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires := m.clock.Add(ttl)
	link := types.ShareLink{
		Token:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		EvaluationID: evaluationID,
		ExpiresAt:    &expires,
		CreatedAt:    m.clock,
	}
	m.links[link.Token] = link
	return &link, nil
}

func (m *memoryStore) GetSharedEvaluation(_ context.Context, token string) (*types.Evaluation, *types.ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[token]
	if !ok || (link.ExpiresAt != nil && !link.ExpiresAt.After(m.clock)) {
		return nil, nil, nil
	}
	e, ok := m.evaluations[link.EvaluationID]
	if !ok {
		return nil, nil, nil
	}
	link.Views++
	m.links[token] = link
	return &e, &link, nil
}

func (m *memoryStore) Ping(context.Context) error {
	return m.pingErr
}

// textExtractor treats document bytes as plain text
type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, doc types.Document) (*types.ExtractedText, error) {
	text := extraction.FromText(string(doc.Data))
	return &text, nil
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.MaxUploadBytes = 64 << 10
	return cfg
}

func unlimited() *ratelimit.Limiter {
	cfg := ratelimit.DefaultConfig()
	cfg.Enabled = false
	cfg.CleanupInterval = 0
	return ratelimit.NewLimiter(cfg)
}

func newTestServer(t *testing.T, store Store, opts ...evaluation.Option) *Server {
	t.Helper()
	if len(opts) == 0 {
		opts = []evaluation.Option{evaluation.WithExtractor(textExtractor{})}
	}
	p, err := evaluation.NewPipeline(rules.MustDefault(), scoring.DefaultWeights(), opts...)
	require.NoError(t, err)
	limiter := unlimited()
	t.Cleanup(limiter.Stop)
	return New(testConfig(), p, store, limiter)
}

type uploadForm struct {
	filename string
	content  []byte
	fields   map[string]string
}

func multipartBody(t *testing.T, form uploadForm) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if form.filename != "" {
		fw, err := mw.CreateFormFile("file", form.filename)
		require.NoError(t, err)
		_, err = fw.Write(form.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, s *Server, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, s *Server, userID uuid.UUID, filename, content, job string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, uploadForm{
		filename: filename,
		content:  []byte(content),
		fields:   map[string]string{"user_id": userID.String(), "job_description": job},
	})
	return do(t, s, http.MethodPost, "/evaluations", body, ct)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func seed(t *testing.T, s *Server, userID uuid.UUID) types.Evaluation {
	t.Helper()
	w := upload(t, s, userID, "resume.docx", resumeText, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.Evaluation](t, w)
}

func TestHealth(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, store)

	w := do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["database"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	store.pingErr = errors.New("connection refused")
	w = do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode[map[string]string](t, w)["status"])
}

func TestHealth_WithoutStore(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disabled", decode[map[string]string](t, w)["database"])
}

func TestRoles(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/roles", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[RolesResponse](t, w)
	assert.Len(t, resp.Roles, len(rules.MustDefault().Roles))
	assert.Equal(t, "General Professional", resp.FallbackRole)
	assert.Equal(t, scoring.DefaultWeights(), resp.Weights)
}

func TestCreateEvaluation(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, store)
	userID := uuid.New()

	w := upload(t, s, userID, "resume.docx", resumeText, "Go engineer building payment APIs")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	e := decode[types.Evaluation](t, w)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, "resume.docx", e.Filename)
	assert.Equal(t, "Go engineer building payment APIs", e.TargetDescription)
	require.Len(t, e.Report.SubScores, 5)
	assert.Equal(t, 100.0, e.Report.Value(types.ScorerATS))
	assert.Greater(t, e.Report.JDMatch, 0.0)
	assert.NotEmpty(t, e.Report.SuggestedRoles)

	stored, err := store.GetEvaluation(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, e.Report.Overall, stored.Report.Overall)
}

func TestCreateEvaluation_WithoutStore(t *testing.T) {
	s := newTestServer(t, nil)
	w := upload(t, s, uuid.New(), "resume.pdf", resumeText, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uuid.Nil, decode[types.Evaluation](t, w).ID)
}

func TestCreateEvaluation_Errors(t *testing.T) {
	userID := uuid.New().String()
	tests := []struct {
		name       string
		form       uploadForm
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file",
			form:       uploadForm{fields: map[string]string{"user_id": userID}},
			wantStatus: http.StatusBadRequest,
			wantError:  "file",
		},
		{
			name:       "missing user",
			form:       uploadForm{filename: "resume.pdf", content: []byte(resumeText)},
			wantStatus: http.StatusBadRequest,
			wantError:  "UserID",
		},
		{
			name:       "invalid user",
			form:       uploadForm{filename: "resume.pdf", content: []byte(resumeText), fields: map[string]string{"user_id": "bob"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "uuid",
		},
		{
			name:       "unsupported extension",
			form:       uploadForm{filename: "resume.rtf", content: []byte(resumeText), fields: map[string]string{"user_id": userID}},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "unsupported document format",
		},
		{
			name:       "unsupported format field",
			form:       uploadForm{filename: "resume.pdf", content: []byte(resumeText), fields: map[string]string{"user_id": userID, "format": "txt"}},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "unsupported document format: txt",
		},
		{
			name: "job description too long",
			form: uploadForm{filename: "resume.pdf", content: []byte(resumeText), fields: map[string]string{
				"user_id": userID, "job_description": strings.Repeat("a", 20001),
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  "TargetDescription",
		},
		{
			name: "job url not http",
			form: uploadForm{filename: "resume.pdf", content: []byte(resumeText), fields: map[string]string{
				"user_id": userID, "job_url": "ftp://example.com/job",
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  "job_url",
		},
		{
			name: "job url and description",
			form: uploadForm{filename: "resume.pdf", content: []byte(resumeText), fields: map[string]string{
				"user_id": userID, "job_url": "https://example.com/job", "job_description": "Go",
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  "only one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, newMemoryStore())
			body, ct := multipartBody(t, tt.form)
			w := do(t, s, http.MethodPost, "/evaluations", body, ct)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, decode[map[string]string](t, w)["error"], tt.wantError)
		})
	}
}

func TestCreateEvaluation_JobURL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs/1":
			_, _ = w.Write([]byte(`<html><body><nav>Careers</nav><div class="job-description"><p>Go engineer building payment APIs</p></div></body></html>`))
		case "/jobs/spa":
			_, _ = w.Write([]byte(`<html><body><script>render()</script></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer posting.Close()

	s := newTestServer(t, newMemoryStore())
	form := func(path string) uploadForm {
		return uploadForm{
			filename: "resume.docx",
			content:  []byte(resumeText),
			fields:   map[string]string{"user_id": uuid.NewString(), "job_url": posting.URL + path},
		}
	}

	body, ct := multipartBody(t, form("/jobs/1"))
	w := do(t, s, http.MethodPost, "/evaluations", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	e := decode[types.Evaluation](t, w)
	assert.Equal(t, "Go engineer building payment APIs", e.TargetDescription)
	assert.Greater(t, e.Report.JDMatch, 0.0)

	body, ct = multipartBody(t, form("/jobs/missing"))
	w = do(t, s, http.MethodPost, "/evaluations", body, ct)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "HTTP status 404")

	body, ct = multipartBody(t, form("/jobs/spa"))
	w = do(t, s, http.MethodPost, "/evaluations", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateEvaluation_NotMultipart(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	w := do(t, s, http.MethodPost, "/evaluations", bytes.NewBufferString(`{"file":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEvaluation_TooLarge(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	w := upload(t, s, uuid.New(), "resume.pdf", strings.Repeat("x", 128<<10), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCreateEvaluation_CorruptDocument(t *testing.T) {
	s := newTestServer(t, newMemoryStore(), evaluation.WithReportValidation(false))

	w := upload(t, s, uuid.New(), "resume.docx", "not a zip archive", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "extraction error")

	w = upload(t, s, uuid.New(), "resume.pdf", "%PDF-garbage", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateEvaluation_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	s := newTestServer(t, store)

	w := upload(t, s, uuid.New(), "resume.docx", resumeText, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[map[string]string](t, w)["error"])
}

func TestGetEvaluation(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	e := seed(t, s, uuid.New())

	w := do(t, s, http.MethodGet, "/evaluations/"+e.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[types.Evaluation](t, w)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Report.Overall, got.Report.Overall)

	w = do(t, s, http.MethodGet, "/evaluations/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/evaluations/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEvaluation(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	e := seed(t, s, uuid.New())

	w := do(t, s, http.MethodDelete, "/evaluations/"+e.ID.String(), nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodDelete, "/evaluations/"+e.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEvaluationJSON(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	e := seed(t, s, uuid.New())

	w := do(t, s, http.MethodGet, "/evaluations/"+e.ID.String()+"/export.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="evaluation_20240301_100000.json"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, e.ID, decode[types.Evaluation](t, w).ID)
}

func TestCompareEvaluations(t *testing.T) {
	s := newTestServer(t, newMemoryStore())
	userID := uuid.New()

	first := upload(t, s, userID, "v1.docx", "Jane Doe\nI write code.", "")
	require.Equal(t, http.StatusCreated, first.Code)
	before := decode[types.Evaluation](t, first)
	after := seed(t, s, userID)

	w := do(t, s, http.MethodGet, "/evaluations/"+before.ID.String()+"/compare/"+after.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp struct {
		BeforeID uuid.UUID `json:"before_id"`
		AfterID  uuid.UUID `json:"after_id"`
		Overall  struct {
			Change float64 `json:"change"`
		} `json:"overall"`
		SubScores []json.RawMessage `json:"sub_scores"`
		Resolved  []string          `json:"resolved"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, before.ID, cmp.BeforeID)
	assert.Equal(t, after.ID, cmp.AfterID)
	assert.Greater(t, cmp.Overall.Change, 0.0)
	assert.Len(t, cmp.SubScores, 5)
	assert.NotEmpty(t, cmp.Resolved)

	other := seed(t, s, uuid.New())
	w = do(t, s, http.MethodGet, "/evaluations/"+before.ID.String()+"/compare/"+other.ID.String(), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	p, err := evaluation.NewPipeline(rules.MustDefault(), scoring.DefaultWeights())
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Port = 0
	s := New(cfg, p, nil, unlimited())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
