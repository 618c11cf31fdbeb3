package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"market-digest/internal/types"
)

// ErrMalformed reports a summarizer response that failed strict schema
// validation. Callers treat it like any other analysis failure and apply
// the fallback policy.
var ErrMalformed = errors.New("malformed summarizer response")

// ErrNotConfigured reports that no LLM provider is configured for the run.
var ErrNotConfigured = errors.New("no llm provider configured")

// ResponseSchema is the JSON contract every provider instructs the model
// to follow: one object per article.
const ResponseSchema = `{
  "title": "translated headline",
  "summary": "2-3 sentence market-focused summary",
  "market_impact": "bullish|bearish|neutral",
  "importance_score": 0-10 (integer)
}`

// SystemPrompt is shared across providers.
const SystemPrompt = "You are a professional financial analyst curating a daily market digest. Respond ONLY with valid JSON."

// BuildPrompt renders the per-article instruction. acceptedTitles are the
// target-language titles already accepted in this category batch; the model
// must assign importance_score 0 when the article covers the same topic as
// one of them.
func BuildPrompt(article types.RawArticle, acceptedTitles []string, targetLanguage string) string {
	accepted := "(none yet)"
	if len(acceptedTitles) > 0 {
		accepted = "- " + strings.Join(acceptedTitles, "\n- ")
	}

	return fmt.Sprintf(`Analyze this financial news article.

Title: %s
Description: %s
Source: %s

Already accepted stories in this batch:
%s

Task:
1. Translate the headline and write a short summary in %s.
2. Judge the market impact: bullish, bearish, or neutral.
3. Assign an importance score from 0 to 10 for how much this story moves markets in the next 24 hours.
4. If the article covers the same topic as an already accepted story, or is irrelevant noise, set importance_score to 0.

Respond ONLY with a single JSON object matching this schema:
%s`,
		article.Title, article.Description, article.Source,
		accepted, targetLanguage, ResponseSchema)
}

// ParseResponse validates a raw model reply into a single Analysis record.
// Providers sometimes wrap the object in a markdown fence or return a
// singleton list; both are normalized here so the curation engine never
// branches on response shape. Anything else is ErrMalformed.
func ParseResponse(content string) (types.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var rec types.Analysis
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		// The contract is one object per article, but tolerate a
		// singleton list and take its first element.
		var list []types.Analysis
		if lerr := json.Unmarshal([]byte(content), &list); lerr != nil || len(list) == 0 {
			return types.Analysis{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rec = list[0]
	}

	rec.Impact = types.MarketImpact(strings.ToLower(string(rec.Impact)))
	switch rec.Impact {
	case types.ImpactBullish, types.ImpactBearish, types.ImpactNeutral:
	default:
		return types.Analysis{}, fmt.Errorf("%w: market_impact %q", ErrMalformed, rec.Impact)
	}
	if rec.Score < 0 || rec.Score > 10 {
		return types.Analysis{}, fmt.Errorf("%w: importance_score %d out of range", ErrMalformed, rec.Score)
	}
	if rec.Score > 0 && rec.Title == "" {
		return types.Analysis{}, fmt.Errorf("%w: missing title", ErrMalformed)
	}
	return rec, nil
}
