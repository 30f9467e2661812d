package cv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
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

func TestAnalyzeText(t *testing.T) {
	gen := &stubGenerator{response: "Voici le profil extrait :\n```json\n" + `{
		"full_name": "Jean Dupont",
		"desired_job": "Développeur backend",
		"location": "Lyon",
		"skills": ["Go", "PostgreSQL"],
		"experiences": [{"company": "ACME", "position": "Développeur"}]
	}` + "\n```"}

	analyzer := NewAnalyzer(gen, zap.NewNop())

	profile, err := analyzer.AnalyzeText(context.Background(), "texte du cv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.FullName != "Jean Dupont" || profile.DesiredJob != "Développeur backend" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if len(profile.Skills) != 2 || len(profile.Experiences) != 1 {
		t.Fatalf("unexpected profile lists: %+v", profile)
	}
}

func TestAnalyzeTextRejectsEmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{}, zap.NewNop())

	if _, err := analyzer.AnalyzeText(context.Background(), "   \n"); err == nil {
		t.Fatal("expected an error for empty cv text")
	}
}

func TestAnalyzeTextRejectsNonJSONResponse(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{response: "désolé, je ne peux pas"}, zap.NewNop())

	if _, err := analyzer.AnalyzeText(context.Background(), "texte du cv"); err == nil {
		t.Fatal("expected an error for a response without json")
	}
}

func TestAnalyzeTextPropagatesGeneratorError(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{err: errors.New("quota exceeded")}, zap.NewNop())

	if _, err := analyzer.AnalyzeText(context.Background(), "texte du cv"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseProfileDefaultsSkills(t *testing.T) {
	profile, err := parseProfile(`{"full_name": "Jean"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Skills == nil {
		t.Fatal("expected skills to default to an empty slice")
	}
}

func TestExtractTextFromBase64RejectsBadInput(t *testing.T) {
	if _, err := ExtractTextFromBase64("not-base64!!"); err == nil {
		t.Fatal("expected an error for invalid base64")
	}
}

func TestExtractTextRejectsEmptyAndCorrupt(t *testing.T) {
	if _, err := ExtractText(nil); err == nil {
		t.Fatal("expected an error for empty content")
	}

	if _, err := ExtractText([]byte("not a pdf at all")); err == nil {
		t.Fatal("expected an error for a corrupt file")
	}
}

func TestPromptContext(t *testing.T) {
	profile := &Profile{
		DesiredJob: "Développeur backend",
		Skills:     []string{"Go", "SQL"},
		Experiences: []Experience{
			{Company: "ACME", Position: "Développeur"},
		},
		Education: []Education{
			{Diploma: "Master", FieldOfStudy: "Informatique"},
		},
	}

	ctx := profile.PromptContext()

	for _, want := range []string{
		"Poste recherché: Développeur backend",
		"Compétences: Go, SQL",
		"Développeur chez ACME",
		"Master en Informatique",
	} {
		if !strings.Contains(ctx, want) {
			t.Fatalf("expected %q in prompt context:\n%s", want, ctx)
		}
	}
}
