package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"market-digest/internal/logger"
	"market-digest/internal/store"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// NewsAPIClient queries the newsapi.org /v2/everything endpoint with a
// keyword disjunction constrained to a publisher allow/deny list. Any
// transport or parse failure yields an empty slice, never an error: news
// is curated downstream and a silent category is an acceptable outcome.
type NewsAPIClient struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	pageSize       int
	sortBy         string
	domains        []string
	excludeDomains []string
}

func NewNewsAPIClient(cfg *store.Config, apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		client:         &http.Client{Timeout: 20 * time.Second},
		baseURL:        "https://newsapi.org/v2/everything",
		apiKey:         apiKey,
		pageSize:       cfg.News.PageSize,
		sortBy:         cfg.News.SortBy,
		domains:        cfg.News.Domains,
		excludeDomains: cfg.News.ExcludeDomains,
	}
}

// NewNewsAPIClientWithBase is used by tests to point at a stub server.
func NewNewsAPIClientWithBase(cfg *store.Config, apiKey, baseURL string) *NewsAPIClient {
	c := NewNewsAPIClient(cfg, apiKey)
	c.baseURL = baseURL
	return c
}

func (c *NewsAPIClient) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsAPIClient) Search(ctx context.Context, query string) []types.RawArticle {
	ctx, span := trace.StartSpan(ctx, "newsapi-search")
	defer span.End()

	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("sortBy", c.sortBy)
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	if len(c.domains) > 0 {
		q.Set("domains", strings.Join(c.domains, ","))
	}
	if len(c.excludeDomains) > 0 {
		q.Set("excludeDomains", strings.Join(c.excludeDomains, ","))
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		logger.Degraded(ctx, "news", "bad request", "error", err)
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Degraded(ctx, "news", "fetch failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Degraded(ctx, "news", "bad status", "status", resp.StatusCode)
		return nil
	}

	var r newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		logger.Degraded(ctx, "news", "decode failed", "error", err)
		return nil
	}
	if r.Status != "ok" {
		logger.Degraded(ctx, "news", "api status not ok", "status", r.Status)
		return nil
	}

	articles := make([]types.RawArticle, 0, len(r.Articles))
	for _, a := range r.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, types.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	logger.Info(ctx, "News search completed", "query", query, "articles", len(articles))
	return articles
}
