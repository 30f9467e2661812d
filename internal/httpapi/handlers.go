package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
)

const maxUploadSize = 10 << 20 // 10 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeCVRequest struct {
	Text      string `json:"text"`
	PDFBase64 string `json:"pdf_base64"`
}

func (s *Server) analyzeRequest(r *http.Request, req analyzeCVRequest) (*cv.Profile, error) {
	switch {
	case req.Text != "":
		return s.analyzer.AnalyzeText(r.Context(), req.Text)
	case req.PDFBase64 != "":
		return s.analyzer.AnalyzePDFBase64(r.Context(), req.PDFBase64)
	default:
		return nil, errors.New("either text or pdf_base64 is required")
	}
}

func (s *Server) handleAnalyzeCV(w http.ResponseWriter, r *http.Request) {
	var req analyzeCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Text == "" && req.PDFBase64 == "" {
		s.respondError(w, http.StatusBadRequest, "either text or pdf_base64 is required")
		return
	}

	profile, err := s.analyzeRequest(r, req)
	if err != nil {
		s.logger.Error("analyzing CV", zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.respondError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "reading uploaded file")
		return
	}

	profile, err := s.analyzer.AnalyzePDF(r.Context(), data)
	if err != nil {
		s.logger.Error("analyzing uploaded CV", zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	var criteria jobs.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if criteria.Title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	resp, err := s.searcher.Search(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, jobs.ErrNoSourceAvailable) {
			s.respondError(w, http.StatusServiceUnavailable, "no job source is configured")
			return
		}

		s.logger.Error("searching jobs", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

type recommendRequest struct {
	Profile  *cv.Profile        `json:"profile"`
	Postings []*jobs.JobPosting `json:"postings"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Profile == nil {
		s.respondError(w, http.StatusBadRequest, "profile is required")
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req.Profile, req.Postings)
	if err != nil {
		s.logger.Error("generating recommendations", zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

type pipelineRequest struct {
	Text      string `json:"text"`
	PDFBase64 string `json:"pdf_base64"`
	Location  string `json:"location"`
}

type pipelineResponse struct {
	Profile         *cv.Profile          `json:"profile"`
	Search          *jobs.SearchResponse `json:"search"`
	Recommendations *recommend.Result    `json:"recommendations,omitempty"`
}

// handlePipeline runs the full flow in one call: analyze the CV, search for
// the desired job, then rank the results against the profile.
func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	var req pipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Text == "" && req.PDFBase64 == "" {
		s.respondError(w, http.StatusBadRequest, "either text or pdf_base64 is required")
		return
	}

	ctx := r.Context()

	profile, err := s.analyzeRequest(r, analyzeCVRequest{Text: req.Text, PDFBase64: req.PDFBase64})
	if err != nil {
		s.logger.Error("analyzing CV", zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if profile.DesiredJob == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "no desired job could be extracted from the CV")
		return
	}

	location := req.Location
	if location == "" {
		location = profile.Location
	}

	criteria := jobs.SearchCriteria{
		Title:    profile.DesiredJob,
		Location: location,
	}

	if s.enricher != nil {
		if keywords, err := s.enricher.Enrich(ctx, profile.PromptContext(), profile.DesiredJob, location); err != nil {
			s.logger.Warn("enriching search keywords", zap.Error(err))
		} else {
			criteria.Keywords = keywords
		}
	}

	search, err := s.searcher.Search(ctx, criteria)
	if err != nil {
		if errors.Is(err, jobs.ErrNoSourceAvailable) {
			s.respondError(w, http.StatusServiceUnavailable, "no job source is configured")
			return
		}

		s.logger.Error("searching jobs", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	resp := pipelineResponse{Profile: profile, Search: search}

	if len(search.Results) > 0 {
		result, err := s.recommender.Recommend(ctx, profile, search.Results)
		if err != nil {
			s.logger.Warn("generating recommendations", zap.Error(err))
		} else {
			resp.Recommendations = result
		}
	}

	s.respondJSON(w, http.StatusOK, resp)
}
