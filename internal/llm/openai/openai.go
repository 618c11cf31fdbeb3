package openai

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

type OpenAISummarizer struct {
	cfg      *store.Config
	client   *http.Client
	endpoint string
}

func NewOpenAISummarizer(cfg *store.Config) *OpenAISummarizer {
	endpoint := "https://api.openai.com/v1/chat/completions"
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &OpenAISummarizer{
		cfg:      cfg,
		client:   &http.Client{Timeout: 60 * time.Second},
		endpoint: endpoint,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, article types.RawArticle, acceptedTitles []string) (types.Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return types.Analysis{}, errors.New("OPENAI_API_KEY missing")
	}

	prompt := llm.BuildPrompt(article, acceptedTitles, s.cfg.Curation.TargetLanguage)

	body := map[string]any{
		"model": s.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": llm.SystemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": s.cfg.LLM.Temperature,
		"max_tokens":  s.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return types.Analysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.Analysis{}, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.Analysis{}, err
	}
	if len(r.Choices) == 0 {
		return types.Analysis{}, errors.New("no choices")
	}

	return llm.ParseResponse(strings.TrimSpace(r.Choices[0].Message.Content))
}
