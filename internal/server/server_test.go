package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/plans"
	"github.com/abhisek/planbook/internal/workspace"
)

type testServer struct {
	*Server
	mock *llm.MockProvider
	sess *workspace.Session
}

func newTestServer(t *testing.T, responses ...llm.MockResponse) *testServer {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	if len(responses) == 0 {
		mock.Fallback = generator.DemoResponder
	}
	gen := generator.New(mock, generator.DefaultConfig(), nil)
	sess := workspace.NewSession(plans.NewStore(), gen, lessonplan.DefaultInput(), nil)
	exp := export.NewWithEncoder(nil, export.Options{Printer: export.BrowserPrinter{}})

	srv := New(Deps{
		Session:  sess,
		Renderer: document.NewRenderer(document.Options{}),
		Exporter: exp,
	}, Options{})
	return &testServer{Server: srv, mock: mock, sess: sess}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, target, nil)
	case url.Values:
		req = httptest.NewRequest(method, target, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestAPI_GenerateAcceptList(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/generate", lessonplan.DefaultInput())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var gen generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Equal(t, "Civic Education", gen.Input.Subject)
	assert.NotEmpty(t, gen.Plan.DevelopmentSteps)

	w = ts.do(t, http.MethodPost, "/api/plans", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var saved lessonplan.SavedPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, saved.Input.Week)

	w = ts.do(t, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []lessonplan.SavedPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	assert.Equal(t, 2, ts.sess.State().Form.Week)

	w = ts.do(t, http.MethodDelete, "/api/plans/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, "/api/plans/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_EmptyList(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/plans", nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAPI_GenerateValidation(t *testing.T) {
	ts := newTestServer(t)
	in := lessonplan.DefaultInput()
	in.Subject = ""
	in.Topic = " "

	w := ts.do(t, http.MethodPost, "/api/generate", in)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	fields := make([]string, len(body.Fields))
	for i, f := range body.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"subject", "topic"}, fields)
	assert.Equal(t, 0, ts.mock.CallCount())
}

func TestAPI_GenerateMalformed(t *testing.T) {
	ts := newTestServer(t, llm.MockResponse{Content: json.RawMessage(`{"learningObjectives":["x"]}`)})

	w := ts.do(t, http.MethodPost, "/api/generate", lessonplan.DefaultInput())
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, generator.UserMessage, body.Error)
	assert.Equal(t, "malformed_payload", body.Kind)
	assert.Empty(t, ts.sess.Plans())
}

func TestAPI_AcceptWithoutDraft(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/api/plans", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWeb_FormFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Generate Lesson Plan")
	assert.Contains(t, w.Body.String(), "No plans yet")

	form := url.Values{}
	for _, f := range lessonplan.Fields {
		form.Set(string(f.Key), lessonplan.DefaultInput().Get(f.Key))
	}
	form.Set(string(lessonplan.FieldTopic), "Honesty")

	w = ts.do(t, http.MethodPost, "/generate", form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = ts.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Template Preview: Honesty")
	assert.Contains(t, w.Body.String(), "Lesson Development")

	w = ts.do(t, http.MethodPost, "/draft/accept", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = ts.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Week 1 plan added to collection!")
	assert.Contains(t, w.Body.String(), "Weekly Collection (1)")

	w = ts.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Week 1 plan added to collection!")
	assert.Contains(t, w.Body.String(), `value="2"`)
}

func TestWeb_GenerateInvalidShowsBanner(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/generate", url.Values{"subject": {""}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = ts.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Subject is required")
	assert.Equal(t, 0, ts.mock.CallCount())
}

func TestWeb_GenerateRejectsUnparsableWeek(t *testing.T) {
	for _, week := range []string{"abc", ""} {
		t.Run("week="+week, func(t *testing.T) {
			ts := newTestServer(t)

			w := ts.do(t, http.MethodPost, "/generate", url.Values{"week": {week}, "topic": {"Honesty"}})
			require.Equal(t, http.StatusSeeOther, w.Code)

			st := ts.sess.State()
			assert.Nil(t, st.Draft)
			assert.Equal(t, workspace.BannerError, st.Banner.Kind)
			assert.Contains(t, st.Banner.Text, "week")
			assert.Equal(t, 1, st.Form.Week)
			assert.Equal(t, "Honesty", st.Form.Topic)
			assert.Equal(t, 0, ts.mock.CallCount())
		})
	}
}

func TestAPI_GenerateAcceptsStringWeek(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"schoolName": "TOLPBY GRACE AND GLORY ACADEMY",
		"address":    "Abuja",
		"subject":    "Civic Education",
		"topic":      "Values",
		"subTopic":   "Meaning of values",
		"week":       "3",
	}
	w := ts.do(t, http.MethodPost, "/api/generate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Input lessonplan.LessonInput `json:"input"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Input.Week)

	body["week"] = "three"
	w = ts.do(t, http.MethodPost, "/api/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type countingPrinter struct {
	calls int
}

func (p *countingPrinter) Print(context.Context, *document.Document) error {
	p.calls++
	return nil
}

func TestWeb_PrintStaysInBrowser(t *testing.T) {
	host := &countingPrinter{}
	mock := llm.NewMockProvider()
	mock.Fallback = generator.DemoResponder
	sess := workspace.NewSession(plans.NewStore(), generator.New(mock, generator.DefaultConfig(), nil), lessonplan.DefaultInput(), nil)
	srv := New(Deps{
		Session:  sess,
		Renderer: document.NewRenderer(document.Options{}),
		Exporter: export.NewWithEncoder(nil, export.Options{Printer: host}),
	}, Options{})
	ts := &testServer{Server: srv, mock: mock, sess: sess}

	w := ts.do(t, http.MethodPost, "/api/generate", lessonplan.DefaultInput())
	require.Equal(t, http.StatusOK, w.Code)

	for _, target := range []string{"/export/print?scope=draft", "/export/pdf?scope=draft"} {
		w = ts.do(t, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Contains(t, w.Body.String(), "window.print()", target)
	}
	assert.Equal(t, 0, host.calls, "the host printer must not receive browser print jobs")
}

func TestWeb_Exports(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/export/pdf?scope=collection", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodGet, "/export/pdf?scope=draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodGet, "/export/odt?scope=draft", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/generate", lessonplan.DefaultInput())
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/export/doc?scope=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeWord, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Weekly_Lesson_Plans_Civic_Education.doc")
	assert.Contains(t, w.Body.String(), "urn:schemas-microsoft-com:office:word")

	// No PDF encoder: the browser gets a printable page instead.
	w = ts.do(t, http.MethodGet, "/export/pdf?scope=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.print()")

	w = ts.do(t, http.MethodGet, "/export/print?scope=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.print()")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/health", nil)

	w := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "planbook_http_requests_total")
}

func TestLogoRoute(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, LogoPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts.logo = &export.Logo{Data: []byte("\x89PNG"), MIME: "image/png"}
	w = ts.do(t, http.MethodGet, LogoPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String())
}
