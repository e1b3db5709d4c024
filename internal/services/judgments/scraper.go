// Package judgments serves recent court judgments scraped from the court
// homepage and a curated list of landmark verdicts.
package judgments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/iyunix/go-legalist/internal/domain"
)

// Logger defines the logging interface used by the scraper
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	listingDate  = regexp.MustCompile(`(\d{2}-[A-Za-z]{3}-\d{4})`)
	uploadedDate = regexp.MustCompile(`Uploaded On (\d{2}-\d{2}-\d{4})`)
)

// Scraper fetches the live judgments listing and caches it for CacheTTL.
type Scraper struct {
	config *Config
	client *http.Client
	logger Logger
	now    func() time.Time

	mu        sync.Mutex
	cached    []domain.Judgment
	fetchedAt time.Time
}

func NewScraper(config *Config, logger Logger) (*Scraper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scraper{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
		now:    time.Now,
	}, nil
}

// FetchLive returns judgments from the last WindowDays days. A failed
// fetch serves the previous result when there is one, otherwise an empty list.
func (s *Scraper) FetchLive(ctx context.Context) []domain.Judgment {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != nil && now.Sub(s.fetchedAt) < s.config.CacheTTL {
		return s.cached
	}

	judgments, err := s.fetch(ctx, now)
	if err != nil {
		s.logger.Warn("failed to fetch live judgments", "url", s.config.URL, "error", err)
		if s.cached != nil {
			return s.cached
		}
		return []domain.Judgment{}
	}

	s.cached = judgments
	s.fetchedAt = now
	s.logger.Info("live judgments refreshed", "count", len(judgments))
	return judgments
}

func (s *Scraper) fetch(ctx context.Context, now time.Time) ([]domain.Judgment, error) {
	base, err := url.Parse(s.config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return ParseJudgments(resp.Body, base, now, s.config.WindowDays)
}

// ParseJudgments collects view-pdf links dated within the last windowDays
// days (one day of slack ahead for timezone skew), de-duplicated by href.
func ParseJudgments(r io.Reader, base *url.URL, now time.Time, windowDays int) ([]domain.Judgment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	from := now.AddDate(0, 0, -windowDays)
	to := now.AddDate(0, 0, 1)
	seen := make(map[string]bool)
	out := []domain.Judgment{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if j, ok := judgmentFromLink(n, base, now.Location(), from, to, seen); ok {
				out = append(out, j)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func judgmentFromLink(n *html.Node, base *url.URL, loc *time.Location, from, to time.Time, seen map[string]bool) (domain.Judgment, bool) {
	href := attr(n, "href")
	if !strings.Contains(href, "view-pdf") || seen[href] {
		return domain.Judgment{}, false
	}
	text := strings.Join(strings.Fields(nodeText(n)), " ")
	if text == "" {
		return domain.Judgment{}, false
	}

	date, ok := parseListingDate(text, loc)
	if !ok || date.Before(from) || date.After(to) {
		return domain.Judgment{}, false
	}
	seen[href] = true

	link := href
	if ref, err := url.Parse(href); err == nil {
		link = base.ResolveReference(ref).String()
	}

	title := text
	if i := strings.Index(text, " - "); i >= 0 {
		title = text[:i]
	}

	return domain.Judgment{
		Title:    title,
		Text:     text,
		Link:     link,
		Date:     date.Format("2006-01-02"),
		Category: categorize(text),
	}, true
}

// parseListingDate reads "06-Jan-2026", falling back to "Uploaded On 06-01-2026".
func parseListingDate(text string, loc *time.Location) (time.Time, bool) {
	if m := listingDate.FindStringSubmatch(text); m != nil {
		if t, err := time.ParseInLocation("02-Jan-2006", m[1], loc); err == nil {
			return t, true
		}
	}
	if m := uploadedDate.FindStringSubmatch(text); m != nil {
		if t, err := time.ParseInLocation("02-01-2006", m[1], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func categorize(text string) string {
	switch {
	case strings.Contains(text, "Crl."), strings.Contains(text, "Criminal"), strings.Contains(text, "SLP(Crl)"):
		return "Criminal"
	case strings.Contains(text, "C.A."), strings.Contains(text, "Civil"), strings.Contains(text, "SLP(C)"):
		return "Civil"
	default:
		return "Other"
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
