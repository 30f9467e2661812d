package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestIsTemporary(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{genai.APIError{Code: 429}, true},
		{genai.APIError{Code: 500}, true},
		{genai.APIError{Code: 503}, true},
		{genai.APIError{Code: 400}, false},
		{genai.APIError{Code: 401}, false},
		{errors.New("plain error"), false},
	}

	for _, tc := range cases {
		if got := isTemporary(tc.err); got != tc.want {
			t.Fatalf("isTemporary(%v) = %v, expected %v", tc.err, got, tc.want)
		}
	}
}

func TestCollectText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: nil},
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						nil,
						{Text: "  first  "},
						{Text: ""},
						{Text: "second"},
					},
				},
			},
		},
	}

	if got := collectText(resp); got != "first\nsecond" {
		t.Fatalf("unexpected collected text: %q", got)
	}

	if got := collectText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("expected empty text for empty response, got %q", got)
	}
}

func TestGeneratorModel(t *testing.T) {
	var g *Generator
	if got := g.Model(); got != "" {
		t.Fatalf("nil generator should report an empty model, got %q", got)
	}

	g = &Generator{modelName: "gemini-2.5-flash"}
	if got := g.Model(); got != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %q", got)
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	g := &Generator{}
	if _, err := g.GenerateContent(nil, ""); err == nil {
		t.Fatal("expected an error for an uninitialized generator")
	}
}
