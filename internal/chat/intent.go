package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	_ "embed"

	"github.com/tlegrand/emploi-assistant/internal/ai"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentAnalyzeCV Intent = "analyze_cv"
	IntentImproveCV Intent = "improve_cv"
	IntentSearch    Intent = "search_jobs"
	IntentRecommend Intent = "get_recommendations"
	IntentOther     Intent = "other"
)

//go:embed intent_prompt.md
var intentPromptTemplate string

// classifyIntent asks the LLM which intent the message carries. Anything
// unrecognized falls back to the general-conversation intent.
func classifyIntent(ctx context.Context, generator ai.Generator, message string) (Intent, error) {
	prompt := strings.ReplaceAll(intentPromptTemplate, "{{MESSAGE}}", message)

	raw, err := generator.GenerateContent(ctx, prompt)
	if err != nil {
		return IntentOther, fmt.Errorf("classify intent: %w", err)
	}

	switch Intent(strings.TrimSpace(strings.ToLower(raw))) {
	case IntentAnalyzeCV:
		return IntentAnalyzeCV, nil
	case IntentImproveCV:
		return IntentImproveCV, nil
	case IntentSearch:
		return IntentSearch, nil
	case IntentRecommend:
		return IntentRecommend, nil
	default:
		return IntentOther, nil
	}
}

var knownCities = []string{"paris", "lyon", "marseille", "toulouse", "nice", "bordeaux", "lille"}

var (
	postalCodeRe = regexp.MustCompile(`(?:^|[^0-9])([0-9]{5})(?:[^0-9]|$)`)
	deptCodeRe   = regexp.MustCompile(`département ([0-9]{2})`)
)

// ExtractLocation finds a location mentioned in the message: a known city
// name on a word boundary, a common "à Lyon" style phrase, a 5-digit postal
// code or an explicit department code. Empty when nothing matches.
func ExtractLocation(message string) string {
	lower := strings.ToLower(message)
	padded := " " + lower + " "

	for _, city := range knownCities {
		if strings.Contains(padded, " "+city+" ") ||
			strings.Contains(padded, " "+city+",") ||
			strings.Contains(padded, " "+city+".") {
			return city
		}

		phrases := []string{
			"à " + city, "dans " + city, "sur " + city,
			"vers " + city, "autour de " + city, "près de " + city,
			"en région " + city, "ville de " + city,
		}
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				return city
			}
		}
	}

	if m := postalCodeRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}

	if m := deptCodeRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}

	return ""
}
