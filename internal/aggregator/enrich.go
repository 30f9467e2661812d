package aggregator

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/ai"
)

//go:embed enrich_prompt.md
var enrichPromptTemplate string

// Enricher asks the LLM for extra search keywords derived from a candidate
// profile and a target role.
type Enricher struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewEnricher(generator ai.Generator, logger *zap.Logger) *Enricher {
	return &Enricher{
		generator: generator,
		logger:    logger,
	}
}

// Enrich returns relevant keywords for the search. An empty profile yields no
// keywords without calling the LLM.
func (e *Enricher) Enrich(ctx context.Context, profileContext, jobTitle, location string) ([]string, error) {
	if strings.TrimSpace(profileContext) == "" {
		return nil, nil
	}

	prompt := strings.ReplaceAll(enrichPromptTemplate, "{{PROFILE}}", profileContext)
	prompt = strings.ReplaceAll(prompt, "{{JOB_TITLE}}", jobTitle)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("enrich query: %w", err)
	}

	keywords := SplitKeywords(raw)

	e.logger.Debug("enriched search query", zap.Strings("keywords", keywords))

	return keywords, nil
}

// SplitKeywords parses a comma-separated keyword list, tolerating extra
// whitespace, blank entries and a variable keyword count.
func SplitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
