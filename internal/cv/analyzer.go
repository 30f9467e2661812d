// Package cv extracts a structured candidate profile from a résumé: PDF text
// extraction plus LLM-driven field extraction.
package cv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/ai"
)

//go:embed prompt.md
var promptTemplate string

// Analyzer turns résumé text into a Profile through the LLM service.
type Analyzer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewAnalyzer(generator ai.Generator, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		logger:    logger,
	}
}

// AnalyzeText extracts the profile from plain résumé text.
func (a *Analyzer) AnalyzeText(ctx context.Context, cvText string) (*Profile, error) {
	cvText = strings.TrimSpace(cvText)
	if cvText == "" {
		return nil, errors.New("cv text is empty")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{CV_TEXT}}", cvText)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	profile, err := parseProfile(raw)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("extracted cv profile",
		zap.String("desired_job", profile.DesiredJob),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experiences", len(profile.Experiences)),
	)

	return profile, nil
}

// AnalyzePDF extracts the profile from raw PDF bytes.
func (a *Analyzer) AnalyzePDF(ctx context.Context, data []byte) (*Profile, error) {
	text, err := ExtractText(data)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeText(ctx, text)
}

// AnalyzePDFBase64 extracts the profile from a base64-encoded PDF.
func (a *Analyzer) AnalyzePDFBase64(ctx context.Context, encoded string) (*Profile, error) {
	text, err := ExtractTextFromBase64(encoded)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeText(ctx, text)
}

// parseProfile pulls the JSON object out of the completion, tolerating fenced
// code blocks and surrounding commentary.
func parseProfile(raw string) (*Profile, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no json object in llm response")
	}

	var profile Profile
	if err := json.Unmarshal([]byte(raw[start:end+1]), &profile); err != nil {
		return nil, fmt.Errorf("parse profile json: %w", err)
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	return &profile, nil
}
