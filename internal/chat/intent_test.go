package chat

import (
	"context"
	"errors"
	"testing"
)

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return g.response, g.err
}

func (g *stubGenerator) Model() string {
	return "stub"
}

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		response string
		want     Intent
	}{
		{"search_jobs", IntentSearch},
		{" Search_Jobs \n", IntentSearch},
		{"analyze_cv", IntentAnalyzeCV},
		{"improve_cv", IntentImproveCV},
		{"get_recommendations", IntentRecommend},
		{"other", IntentOther},
		{"something unexpected", IntentOther},
	}

	for _, tc := range cases {
		intent, err := classifyIntent(context.Background(), &stubGenerator{response: tc.response}, "message")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.response, err)
		}
		if intent != tc.want {
			t.Fatalf("classifyIntent with %q = %s, expected %s", tc.response, intent, tc.want)
		}
	}
}

func TestClassifyIntentFallsBackOnError(t *testing.T) {
	intent, err := classifyIntent(context.Background(), &stubGenerator{err: errors.New("boom")}, "message")
	if err == nil {
		t.Fatal("expected an error")
	}
	if intent != IntentOther {
		t.Fatalf("expected fallback intent, got %s", intent)
	}
}

func TestExtractLocation(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Je cherche un poste à Lyon", "lyon"},
		{"cherche un emploi sur Bordeaux", "bordeaux"},
		{"un travail près de Lille svp", "lille"},
		{"Paris, de préférence", "paris"},
		{"je vise le 75011", "75011"},
		{"plutôt dans le département 69", "69"},
		{"un poste en télétravail", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ExtractLocation(tc.message); got != tc.want {
			t.Fatalf("ExtractLocation(%q) = %q, expected %q", tc.message, got, tc.want)
		}
	}
}
