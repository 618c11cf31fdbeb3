package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"market-digest/internal/llm"
	"market-digest/internal/store"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// ClaudeSummarizer implements the Summarizer interface using the Anthropic
// messages API.
type ClaudeSummarizer struct {
	cfg      *store.Config
	client   *http.Client
	endpoint string
}

func NewClaudeSummarizer(cfg *store.Config) *ClaudeSummarizer {
	// default messages endpoint; override via CLAUDE_API_ENDPOINT for
	// proxy/bedrock/vertex setups
	endpoint := "https://api.anthropic.com/v1/messages"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeSummarizer{
		cfg:      cfg,
		client:   &http.Client{Timeout: 60 * time.Second},
		endpoint: endpoint,
	}
}

func (s *ClaudeSummarizer) Summarize(ctx context.Context, article types.RawArticle, acceptedTitles []string) (types.Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return types.Analysis{}, errors.New("CLAUDE_API_KEY missing")
	}

	prompt := llm.BuildPrompt(article, acceptedTitles, s.cfg.Curation.TargetLanguage)

	body := map[string]any{
		"model":      s.cfg.LLM.Model,
		"max_tokens": s.cfg.LLM.MaxTokens,
		"system":     llm.SystemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return types.Analysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.Analysis{}, fmt.Errorf("claude http %d", resp.StatusCode)
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.Analysis{}, err
	}
	if len(r.Content) == 0 {
		return types.Analysis{}, errors.New("no content")
	}

	return llm.ParseResponse(strings.TrimSpace(r.Content[0].Text))
}
