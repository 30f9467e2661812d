package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
	"github.com/tlegrand/emploi-assistant/internal/source"
)

type stubGenerator struct {
	response string
}

func (g *stubGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return g.response, nil
}

func (g *stubGenerator) Model() string {
	return "stub"
}

type stubSource struct {
	src     jobs.Source
	records []jobs.RawRecord
}

func (s *stubSource) Source() jobs.Source {
	return s.src
}

func (s *stubSource) SearchJobs(_ context.Context, _ jobs.SearchCriteria) ([]jobs.RawRecord, error) {
	return s.records, nil
}

func (s *stubSource) Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error) {
	title, _ := raw["title"].(string)
	return &jobs.JobPosting{JobID: "1", Title: title, Company: "ACME", Source: s.src}, nil
}

func newTestServer(generatorResponse string, sources ...*stubSource) *Server {
	logger := zap.NewNop()
	gen := &stubGenerator{response: generatorResponse}

	registry := source.NewEmptyRegistry()
	for _, src := range sources {
		registry.Register(src)
	}

	return NewServer(Deps{
		Analyzer:    cv.NewAnalyzer(gen, logger),
		Searcher:    aggregator.New(registry, logger),
		Enricher:    aggregator.NewEnricher(gen, logger),
		Recommender: recommend.NewRecommender(gen, logger),
		Logger:      logger,
	})
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer("")

	rec := doJSON(t, server, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestHandleSearchJobs(t *testing.T) {
	server := newTestServer("", &stubSource{
		src:     jobs.SourceFranceTravail,
		records: []jobs.RawRecord{{"title": "Développeur Go"}},
	})

	rec := doJSON(t, server, http.MethodPost, "/api/search-jobs", `{"title": "développeur"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response jobs.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if response.TotalCount != 1 || response.Results[0].Title != "Développeur Go" {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestHandleSearchJobsValidation(t *testing.T) {
	server := newTestServer("", &stubSource{src: jobs.SourceIndeed})

	rec := doJSON(t, server, http.MethodPost, "/api/search-jobs", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing title, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPost, "/api/search-jobs", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", rec.Code)
	}
}

func TestHandleSearchJobsNoSources(t *testing.T) {
	server := newTestServer("")

	rec := doJSON(t, server, http.MethodPost, "/api/search-jobs", `{"title": "développeur"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without sources, got %d", rec.Code)
	}
}

func TestHandleAnalyzeCV(t *testing.T) {
	server := newTestServer(`{"full_name": "Jean Dupont", "desired_job": "développeur", "skills": ["Go"]}`)

	rec := doJSON(t, server, http.MethodPost, "/api/analyze-cv", `{"text": "mon cv"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile cv.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if profile.FullName != "Jean Dupont" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestHandleAnalyzeCVValidation(t *testing.T) {
	server := newTestServer("")

	rec := doJSON(t, server, http.MethodPost, "/api/analyze-cv", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without text or pdf, got %d", rec.Code)
	}
}

func TestHandleUploadCVRejectsNonPDF(t *testing.T) {
	server := newTestServer("")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte("plain text")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-cv", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-pdf upload, got %d", rec.Code)
	}
}

func TestHandleRecommendValidation(t *testing.T) {
	server := newTestServer("")

	rec := doJSON(t, server, http.MethodPost, "/api/recommend", `{"postings": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a profile, got %d", rec.Code)
	}
}

func TestHandleRecommend(t *testing.T) {
	server := newTestServer(`{"ranked_jobs": [{"title": "Dev", "company": "ACME", "match_score": 0.8}]}`)

	body := `{"profile": {"full_name": "Jean", "desired_job": "dev"}, "postings": [{"title": "Dev", "company": "ACME"}]}`
	rec := doJSON(t, server, http.MethodPost, "/api/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result recommend.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(result.RankedJobs) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
