package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/classifier"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/pdf"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	byText map[string][]models.SkillPrediction
	err    error
}

func (s stubClassifier) Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error) {
	if err := classifier.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return classifier.FilterAndSort(s.byText[strings.TrimSpace(text)], threshold), nil
}

type stubReports struct {
	got *pdf.MatchReport
}

func (s *stubReports) Generate(report pdf.MatchReport) ([]byte, error) {
	s.got = &report
	return []byte("%PDF-1.4 stub"), nil
}

var fixtures = map[string][]models.SkillPrediction{
	"job": {
		{Skill: "Python", Confidence: 0.95},
		{Skill: "Docker", Confidence: 0.7},
		{Skill: "Excel", Confidence: 0.3},
	},
	"resume": {
		{Skill: "python", Confidence: 0.9},
		{Skill: "SQL", Confidence: 0.8},
	},
}

func newTestRouter(t *testing.T, c classifier.Client, reports ReportGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := NewRouter(NewHandler(c, reports, time.Second))
	require.NoError(t, err)
	return r
}

func postForm(r http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	r := newTestRouter(t, stubClassifier{}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="analyze_job"`)
	assert.Contains(t, w.Body.String(), `value="0.5"`)
}

func TestAnalyzeJobForm(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	w := postForm(r, url.Values{"action": {"analyze_job"}, "job_description": {"job"}, "threshold": {"0.5"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2 skills found")
	assert.Contains(t, body, "Python (95%)")
	assert.NotContains(t, body, "Excel (")
}

func TestFormValidation(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"threshold out of range", url.Values{"action": {"analyze_job"}, "job_description": {"job"}, "threshold": {"1.5"}}, "threshold must be between 0 and 1"},
		{"threshold not a number", url.Values{"action": {"analyze_job"}, "job_description": {"job"}, "threshold": {"high"}}, "threshold must be a number"},
		{"empty description", url.Values{"action": {"analyze_job"}, "job_description": {"  "}}, "Please enter a job description."},
		{"missing resume", url.Values{"action": {"match_resume"}, "job_text": {"job"}}, "Please provide both a resume and a job description."},
		{"unknown action", url.Values{"action": {"explode"}}, "Unknown action."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(r, tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestMatchResumeForm(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	w := postForm(r, url.Values{"action": {"match_resume"}, "resume_text": {"resume"}, "job_text": {"job"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "50.0% match")
	assert.Contains(t, body, "Matching (1)")
	assert.Contains(t, body, `<span class="skill missing">Docker</span>`)
}

func TestMatchResumeUpload(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("action", "match_resume"))
	require.NoError(t, mw.WriteField("job_text", "job"))
	fw, err := mw.CreateFormFile("resume_file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("resume\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "50.0% match")
}

func TestAPIClassify(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	w := postJSON(r, "/api/classify", map[string]any{"text": "job", "threshold": 0.6})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Skills      []models.SkillPrediction `json:"skills"`
		TotalSkills int                      `json:"total_skills"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalSkills)
	assert.Equal(t, "Python", resp.Skills[0].Skill)

	w = postJSON(r, "/api/classify", map[string]any{"text": "job", "threshold": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/classify", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIClassifyUpstreamFailure(t *testing.T) {
	r := newTestRouter(t, stubClassifier{err: errors.New("space is sleeping")}, nil)

	w := postJSON(r, "/api/classify", map[string]any{"text": "job"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAPIMatch(t *testing.T) {
	r := newTestRouter(t, stubClassifier{byText: fixtures}, nil)

	w := postJSON(r, "/api/match", map[string]any{"resume_text": "resume", "job_text": "job"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50.0, resp["match_percentage"])
	assert.Len(t, resp["matching_skills"], 1)
	assert.Len(t, resp["missing_skills"], 1)
	assert.Len(t, resp["job_skills"], 2)
	assert.Equal(t, 0.5, resp["threshold"])
}

func TestAPIMatchReport(t *testing.T) {
	reports := &stubReports{}
	r := newTestRouter(t, stubClassifier{byText: fixtures}, reports)

	w := postJSON(r, "/api/match/report", map[string]any{"resume_text": "resume", "job_text": "job"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	require.NotNil(t, reports.got)
	assert.Equal(t, 50.0, reports.got.Result.Percentage)

	r = newTestRouter(t, stubClassifier{byText: fixtures}, nil)
	w = postJSON(r, "/api/match/report", map[string]any{"resume_text": "resume", "job_text": "job"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, stubClassifier{}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
