package llm

import (
	"errors"
	"strings"
	"testing"

	"market-digest/internal/types"
)

func TestParseResponsePlainObject(t *testing.T) {
	raw := `{"title":"聯準會維持利率","summary":"短評","market_impact":"neutral","importance_score":6}`
	a, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Title != "聯準會維持利率" || a.Impact != types.ImpactNeutral || a.Score != 6 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestParseResponseFencedJSON(t *testing.T) {
	raw := "```json\n{\"title\":\"t\",\"summary\":\"s\",\"market_impact\":\"bullish\",\"importance_score\":8}\n```"
	a, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Impact != types.ImpactBullish || a.Score != 8 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestParseResponseSingletonList(t *testing.T) {
	raw := `[{"title":"t","summary":"s","market_impact":"bearish","importance_score":3}]`
	a, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Impact != types.ImpactBearish {
		t.Errorf("expected bearish, got %s", a.Impact)
	}
}

func TestParseResponseNormalizesImpactCase(t *testing.T) {
	raw := `{"title":"t","summary":"s","market_impact":"Bullish","importance_score":5}`
	a, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Impact != types.ImpactBullish {
		t.Errorf("expected lowercase bullish, got %s", a.Impact)
	}
}

func TestParseResponseZeroScoreNeedsNoTitle(t *testing.T) {
	// a duplicate verdict may come back with empty fields
	raw := `{"title":"","summary":"","market_impact":"neutral","importance_score":0}`
	a, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Score != 0 {
		t.Errorf("expected score 0, got %d", a.Score)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the market looks fine today"},
		{"empty list", "[]"},
		{"bad impact", `{"title":"t","summary":"s","market_impact":"sideways","importance_score":5}`},
		{"score too high", `{"title":"t","summary":"s","market_impact":"neutral","importance_score":11}`},
		{"negative score", `{"title":"t","summary":"s","market_impact":"neutral","importance_score":-1}`},
		{"missing title", `{"title":"","summary":"s","market_impact":"neutral","importance_score":4}`},
	}
	for _, tc := range cases {
		if _, err := ParseResponse(tc.raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", tc.name, err)
		}
	}
}

func TestBuildPromptIncludesAcceptedTitles(t *testing.T) {
	art := types.RawArticle{Title: "Fed holds rates", Description: "desc", Source: "Reuters"}
	p := BuildPrompt(art, []string{"第一則", "第二則"}, "Traditional Chinese")
	if !strings.Contains(p, "第一則") || !strings.Contains(p, "第二則") {
		t.Error("prompt must list the accepted titles")
	}
	if !strings.Contains(p, "Traditional Chinese") {
		t.Error("prompt must carry the target language")
	}
	if !strings.Contains(p, art.Title) {
		t.Error("prompt must carry the article title")
	}
}

func TestBuildPromptEmptyBatch(t *testing.T) {
	p := BuildPrompt(types.RawArticle{Title: "t"}, nil, "Traditional Chinese")
	if !strings.Contains(p, "(none yet)") {
		t.Error("empty batch must render the placeholder")
	}
}
