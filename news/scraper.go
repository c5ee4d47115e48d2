// Package news maintains a small in-memory pool of current news
// articles fetched from public RSS feeds, and extracts article body text
// for quiz generation.
package news

import (
	"context"
	"encoding/xml"
	"html"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/toto789520/atugame/game"
)

const (
	perFeedLimit  = 10
	maxArticles   = 20
	minTitleLen   = 30
	maxContentLen = 2000

	fetchTimeout = 10 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Feed is one RSS source.
type Feed struct {
	Source string
	URL    string
}

// DefaultFeeds mirrors the sources the game was built around.
var DefaultFeeds = []Feed{
	{Source: "Le Monde", URL: "https://www.lemonde.fr/rss/une.xml"},
	{Source: "France Info", URL: "https://www.francetvinfo.fr/titres.rss"},
	{Source: "BBC", URL: "https://feeds.bbci.co.uk/news/rss.xml"},
	{Source: "The Guardian", URL: "https://www.theguardian.com/international/rss"},
}

type rss struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Scraper caches articles behind an RWMutex; reads (random pick, news
// endpoint) vastly outnumber refreshes.
type Scraper struct {
	mu         sync.RWMutex
	articles   []game.Article
	lastUpdate time.Time

	feeds  []Feed
	client *http.Client
	logger *slog.Logger
}

func NewScraper(feeds []Feed, logger *slog.Logger) *Scraper {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		feeds:  feeds,
		client: &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// Update refreshes the article pool from every feed. Feed failures are
// logged and skipped; the pool is only replaced when at least one feed
// answered.
func (s *Scraper) Update(ctx context.Context) {
	var collected []game.Article
	got := false
	for _, feed := range s.feeds {
		articles, err := s.fetchFeed(ctx, feed)
		if err != nil {
			s.logger.Warn("feed fetch failed", "source", feed.Source, "err", err)
			continue
		}
		got = true
		collected = append(collected, articles...)
	}
	if !got {
		return
	}

	unique := dedupe(collected)
	if len(unique) > maxArticles {
		unique = unique[:maxArticles]
	}

	s.mu.Lock()
	s.articles = unique
	s.lastUpdate = time.Now()
	s.mu.Unlock()

	s.logger.Info("articles updated", "count", len(unique))
}

// Run refreshes on the given interval until ctx is cancelled.
func (s *Scraper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Update(ctx)
		}
	}
}

func (s *Scraper) fetchFeed(ctx context.Context, feed Feed) ([]game.Article, error) {
	body, err := s.get(ctx, feed.URL)
	if err != nil {
		return nil, err
	}

	var doc rss
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	var articles []game.Article
	for _, item := range doc.Channel.Items {
		if len(articles) >= perFeedLimit {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || !strings.HasPrefix(link, "http") {
			continue
		}
		articles = append(articles, game.Article{
			Title:  title,
			URL:    link,
			Source: feed.Source,
		})
	}
	return articles, nil
}

func dedupe(articles []game.Article) []game.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]game.Article, 0, len(articles))
	for _, a := range articles {
		if len(a.Title) <= minTitleLen {
			continue
		}
		key := strings.ToLower(a.Title)
		if len(key) > 50 {
			key = key[:50]
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

// Articles returns the cached pool and when it was last refreshed.
func (s *Scraper) Articles() ([]game.Article, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]game.Article(nil), s.articles...), s.lastUpdate
}

// RandomArticle picks one cached article at random, refreshing first if
// the pool is empty. game.ErrNoArticles when every feed is down.
func (s *Scraper) RandomArticle(ctx context.Context) (game.Article, error) {
	s.mu.RLock()
	n := len(s.articles)
	s.mu.RUnlock()

	if n == 0 {
		s.Update(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.articles) == 0 {
		return game.Article{}, game.ErrNoArticles
	}
	return s.articles[rand.Intn(len(s.articles))], nil
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ArticleContent fetches the article page and returns its visible text,
// capped at maxContentLen runes. Failures degrade to an empty string:
// the quiz generator can work from the title alone.
func (s *Scraper) ArticleContent(ctx context.Context, url string) string {
	body, err := s.get(ctx, url)
	if err != nil {
		s.logger.Warn("article fetch failed", "url", url, "err", err)
		return ""
	}

	text := scriptRe.ReplaceAllString(string(body), " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxContentLen {
		runes = runes[:maxContentLen]
	}
	return string(runes)
}

func (s *Scraper) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, 2<<20))
}
