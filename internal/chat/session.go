// Package chat is the conversational front of the assistant. It classifies
// each user message into an intent, routes it to the right agent and turns
// low-level failures into plain-language guidance.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/ai"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/jobs"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
)

//go:embed chat_prompt.md
var chatPromptTemplate string

const (
	// historyLimit keeps the last three exchanges in the conversation prompt.
	historyLimit = 6

	maxDisplayedResults  = 5
	maxDescriptionLength = 200

	msgNoSourceConfigured = "Actuellement, je ne peux pas effectuer de recherche d'emploi car aucune source " +
		"n'est correctement configurée. Pour utiliser cette fonctionnalité, l'administrateur doit configurer " +
		"les clés API pour les plateformes de recherche d'emploi."
	msgNoCV = "Pour cette demande, je vous conseille de d'abord charger votre CV."
)

type exchange struct {
	role    string
	content string
}

// Session holds one user's conversation state: the extracted profile and a
// bounded message history. It is not safe for concurrent use.
type Session struct {
	generator   ai.Generator
	analyzer    *cv.Analyzer
	searcher    *aggregator.Aggregator
	enricher    *aggregator.Enricher
	recommender *recommend.Recommender
	logger      *zap.Logger

	profile *cv.Profile
	history []exchange
}

type Deps struct {
	Generator   ai.Generator
	Analyzer    *cv.Analyzer
	Searcher    *aggregator.Aggregator
	Enricher    *aggregator.Enricher
	Recommender *recommend.Recommender
	Logger      *zap.Logger
}

func NewSession(deps Deps) *Session {
	return &Session{
		generator:   deps.Generator,
		analyzer:    deps.Analyzer,
		searcher:    deps.Searcher,
		enricher:    deps.Enricher,
		recommender: deps.Recommender,
		logger:      deps.Logger,
	}
}

// LoadCV extracts and stores the profile for this session.
func (s *Session) LoadCV(ctx context.Context, pdfData []byte) (*cv.Profile, error) {
	profile, err := s.analyzer.AnalyzePDF(ctx, pdfData)
	if err != nil {
		return nil, err
	}
	s.profile = profile
	return profile, nil
}

// SetProfile installs an already-extracted profile.
func (s *Session) SetProfile(profile *cv.Profile) {
	s.profile = profile
}

// ProcessMessage handles one user message and returns the assistant's answer.
func (s *Session) ProcessMessage(ctx context.Context, message string) string {
	intent, err := classifyIntent(ctx, s.generator, message)
	if err != nil {
		s.logger.Warn("intent classification failed", zap.Error(err))
	}

	s.logger.Debug("classified message intent", zap.String("intent", string(intent)))

	var response string
	switch intent {
	case IntentAnalyzeCV:
		response = s.handleAnalyzeCV()
	case IntentImproveCV:
		response = s.handleImproveCV(ctx)
	case IntentSearch:
		response = s.handleSearch(ctx, message)
	case IntentRecommend:
		response = s.handleRecommend(ctx)
	default:
		response = s.handleConversation(ctx, message)
	}

	s.remember(message, response)

	return response
}

func (s *Session) handleAnalyzeCV() string {
	if s.profile == nil {
		return msgNoCV
	}
	return formatProfile(s.profile)
}

func (s *Session) handleImproveCV(ctx context.Context) string {
	if s.profile == nil {
		return msgNoCV
	}

	result, err := s.recommender.Recommend(ctx, s.profile, nil)
	if err != nil {
		return "Désolé, une erreur s'est produite lors de la génération des suggestions d'amélioration. Veuillez réessayer plus tard."
	}

	if len(result.CVImprovements) == 0 {
		return "Je n'ai pas de suggestions spécifiques pour améliorer votre CV. Il semble bien structuré pour le poste que vous recherchez."
	}

	var b strings.Builder
	b.WriteString("Voici mes suggestions pour améliorer votre CV :\n\n")
	for _, improvement := range result.CVImprovements {
		fmt.Fprintf(&b, "- %s\n", improvement)
	}
	return b.String()
}

func (s *Session) handleSearch(ctx context.Context, message string) string {
	if s.profile == nil {
		return msgNoCV
	}

	location := ExtractLocation(message)
	if location == "" {
		location = s.profile.Location
	}

	keywords, err := s.enricher.Enrich(ctx, s.profile.PromptContext(), s.profile.DesiredJob, location)
	if err != nil {
		// Enrichment is best-effort; the search proceeds without keywords.
		s.logger.Warn("query enrichment failed", zap.Error(err))
	}

	criteria := jobs.SearchCriteria{
		Title:          s.profile.DesiredJob,
		Location:       location,
		RadiusKM:       70,
		Keywords:       keywords,
		LimitPerSource: 5,
	}

	response, err := s.searcher.Search(ctx, criteria)
	if err != nil {
		if errors.Is(err, jobs.ErrNoSourceAvailable) {
			return msgNoSourceConfigured
		}
		return "Désolé, une erreur s'est produite lors de la recherche d'emploi. Veuillez réessayer plus tard."
	}

	return formatSearchResults(response)
}

func (s *Session) handleRecommend(ctx context.Context) string {
	if s.profile == nil {
		return msgNoCV
	}

	result, err := s.recommender.Recommend(ctx, s.profile, nil)
	if err != nil {
		return "Désolé, une erreur s'est produite lors de la génération des recommandations. Veuillez réessayer plus tard."
	}

	return formatRecommendations(result)
}

func (s *Session) handleConversation(ctx context.Context, message string) string {
	prompt := strings.ReplaceAll(chatPromptTemplate, "{{HISTORY}}", s.formatHistory())
	prompt = strings.ReplaceAll(prompt, "{{MESSAGE}}", message)

	response, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("conversation failed", zap.Error(err))
		return "Désolé, je n'ai pas pu traiter votre message. Veuillez réessayer."
	}

	return response
}

func (s *Session) remember(message, response string) {
	s.history = append(s.history,
		exchange{role: "user", content: message},
		exchange{role: "assistant", content: response},
	)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
}

func (s *Session) formatHistory() string {
	var b strings.Builder
	for _, e := range s.history {
		role := "Utilisateur"
		if e.role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", role, e.content)
	}
	return b.String()
}
