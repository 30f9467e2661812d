// Package recommend ranks job postings against a candidate profile and
// produces CV and career guidance through the LLM service.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/ai"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

//go:embed prompt.md
var promptTemplate string

// RankedJob is one posting scored against the profile.
type RankedJob struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	MatchScore float64 `json:"match_score"`
	Reason     string  `json:"reason"`
}

// Result is the full recommendation output.
type Result struct {
	RankedJobs        []RankedJob `json:"ranked_jobs"`
	CVImprovements    []string    `json:"cv_improvements"`
	HighlightedSkills []string    `json:"highlighted_skills"`
	MissingSkills     []string    `json:"missing_skills"`
	CareerAdvice      string      `json:"career_advice"`
}

type Recommender struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewRecommender(generator ai.Generator, logger *zap.Logger) *Recommender {
	return &Recommender{
		generator: generator,
		logger:    logger,
	}
}

// Recommend evaluates the postings against the profile. Postings may be
// empty: the result then only carries CV guidance.
func (r *Recommender) Recommend(ctx context.Context, profile *cv.Profile, postings []*jobs.JobPosting) (*Result, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE}}", profile.PromptContext())
	prompt = strings.ReplaceAll(prompt, "{{JOB_POSTINGS}}", formatPostings(postings))

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	result, err := parseResult(raw)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("generated recommendations",
		zap.Int("ranked_jobs", len(result.RankedJobs)),
		zap.Int("cv_improvements", len(result.CVImprovements)),
	)

	return result, nil
}

func formatPostings(postings []*jobs.JobPosting) string {
	if len(postings) == 0 {
		return "(aucune offre fournie)"
	}

	var b strings.Builder
	for i, p := range postings {
		fmt.Fprintf(&b, "%d. %s chez %s (%s)\n", i+1, p.Title, p.Company, p.Location.String())
		if p.JobType != "" {
			fmt.Fprintf(&b, "   Type de contrat: %s\n", p.JobType)
		}
		if len(p.RequiredSkills) > 0 {
			fmt.Fprintf(&b, "   Compétences: %s\n", strings.Join(p.RequiredSkills, ", "))
		}
	}
	return b.String()
}

func parseResult(raw string) (*Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no json object in llm response")
	}

	var result Result
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("parse recommendation json: %w", err)
	}

	return &result, nil
}
