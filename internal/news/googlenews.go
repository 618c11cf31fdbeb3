package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"market-digest/internal/logger"
	"market-digest/internal/types"
)

// GoogleNewsScraper is the credential-free fallback provider: when no
// NewsAPI key is configured, category queries are run against the Google
// News search page instead. Scraped articles carry no description, so the
// summarizer works from the headline alone.
type GoogleNewsScraper struct {
	timeout  time.Duration
	maxItems int
}

func NewGoogleNewsScraper(maxItems int) *GoogleNewsScraper {
	return &GoogleNewsScraper{
		timeout:  20 * time.Second,
		maxItems: maxItems,
	}
}

func (s *GoogleNewsScraper) Name() string { return "googlenews" }

func (s *GoogleNewsScraper) Search(ctx context.Context, query string) []types.RawArticle {
	articles := []types.RawArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= s.maxItems {
			return
		}

		title := strings.TrimSpace(e.ChildText("h3, h4"))
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}

		// Google News links are relative redirect paths
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		articles = append(articles, types.RawArticle{
			Title:  title,
			Source: "Google News",
			URL:    link,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Degraded(ctx, "news", "scrape error", "url", r.Request.URL.String(), "error", err)
	})

	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		logger.Degraded(ctx, "news", "scrape failed", "query", query, "error", err)
		return nil
	}
	c.Wait()

	logger.Info(ctx, "Google News scrape completed", "query", query, "articles", len(articles))
	return articles
}
