// Package ingest loads internship listings from outside sources into
// Postgres: the bundled JSON file format and HTML internship boards.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"internhub/internal/domain/internship"
)

const defaultMaxPages = 5

var ErrEmptyBoardURL = errors.New("empty board url")

type BoardOptions struct {
	// MaxPages bounds how many list pages are followed through rel="next".
	MaxPages    int
	Parallelism int
	Delay       time.Duration
}

// BoardScraper reads server-rendered boards where each listing is an element
// carrying data-internship="<id>" and its fields live in [data-field=...]
// children. A card without a description but with a detail link gets the
// description from the detail page.
type BoardScraper struct {
	baseURL     string
	allowedHost string
	opts        BoardOptions
	log         *logrus.Entry
	now         func() time.Time
}

func NewBoardScraper(baseURL string, opts BoardOptions, logger *logrus.Logger) (*BoardScraper, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrEmptyBoardURL
	}
	host, err := hostFromBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BoardScraper{
		baseURL:     baseURL,
		allowedHost: host,
		opts:        opts,
		log:         logger.WithFields(logrus.Fields{"component": "board_scraper", "host": host}),
		now:         time.Now,
	}, nil
}

type boardCard struct {
	listing   internship.Internship
	detailURL string
}

func (s *BoardScraper) Scrape(ctx context.Context) ([]internship.Internship, error) {
	cards, err := s.scrapeListPages(ctx)
	if err != nil {
		return nil, err
	}

	s.fillDetails(ctx, cards)

	out := make([]internship.Internship, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.listing)
	}
	s.log.WithField("listings", len(out)).Info("board scraped")
	return out, nil
}

func (s *BoardScraper) newCollector(opts ...colly.CollectorOption) *colly.Collector {
	opts = append([]colly.CollectorOption{colly.AllowedDomains(s.allowedHost)}, opts...)
	c := colly.NewCollector(opts...)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: s.opts.Parallelism, Delay: s.opts.Delay})
	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})
	return c
}

func (s *BoardScraper) scrapeListPages(ctx context.Context) ([]*boardCard, error) {
	c := s.newCollector(colly.MaxDepth(s.opts.MaxPages))

	var cards []*boardCard
	seen := map[string]struct{}{}

	c.OnHTML("[data-internship]", func(e *colly.HTMLElement) {
		card, ok := s.parseCard(e)
		if !ok {
			return
		}
		if _, dup := seen[card.listing.SourceKey]; dup {
			return
		}
		seen[card.listing.SourceKey] = struct{}{}
		cards = append(cards, card)
	})

	c.OnHTML(`a[rel="next"]`, func(e *colly.HTMLElement) {
		if ctx.Err() != nil {
			return
		}
		if next := e.Request.AbsoluteURL(e.Attr("href")); next != "" {
			_ = e.Request.Visit(next)
		}
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		if reqErr == nil {
			reqErr = fmt.Errorf("visit %s: %w", r.Request.URL, err)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(s.baseURL); err != nil {
		return nil, err
	}
	c.Wait()

	if reqErr != nil && len(cards) == 0 {
		return nil, reqErr
	}
	if reqErr != nil {
		s.log.WithError(reqErr).Warn("board page failed, keeping partial results")
	}
	return cards, nil
}

func (s *BoardScraper) parseCard(e *colly.HTMLElement) (*boardCard, bool) {
	field := func(name string) string {
		return strings.TrimSpace(e.ChildText(`[data-field="` + name + `"]`))
	}
	attr := func(name, a string) string {
		return strings.TrimSpace(e.ChildAttr(`[data-field="`+name+`"]`, a))
	}

	title := field("title")
	company := field("company")
	if title == "" || company == "" {
		return nil, false
	}

	applyURL := attr("apply", "href")
	if applyURL != "" {
		applyURL = e.Request.AbsoluteURL(applyURL)
	}

	ref := strings.TrimSpace(e.Attr("data-internship"))
	if ref == "" {
		ref = applyURL
	}
	if ref == "" {
		return nil, false
	}
	key := "board:" + s.allowedHost + ":" + ref

	loc := internship.Location{City: field("city"), State: field("state")}
	if loc.City == "" && loc.State == "" {
		loc = internship.Location{Raw: field("location")}
	}

	now := s.now().UTC()
	it := internship.Internship{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)),
		SourceKey:   key,
		Title:       title,
		Role:        field("role"),
		Company:     company,
		Location:    loc,
		Stipend:     field("stipend"),
		Duration:    field("duration"),
		SectorTags:  splitList(field("sectors")),
		Skills:      splitList(field("skills")),
		WorkMode:    internship.ParseWorkMode(field("work_mode")),
		Description: field("description"),
		ApplyURL:    applyURL,
		PostedAt:    parseDate(pickNonEmpty(attr("posted", "datetime"), field("posted"))),
		Deadline:    parseDate(pickNonEmpty(attr("deadline", "datetime"), field("deadline"))),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	card := &boardCard{listing: it}
	if it.Description == "" {
		if href := attr("detail", "href"); href != "" {
			card.detailURL = e.Request.AbsoluteURL(href)
		}
	}
	return card, true
}

// fillDetails fetches detail pages on the worker pool. A failed detail page
// leaves the card without a description.
func (s *BoardScraper) fillDetails(ctx context.Context, cards []*boardCard) {
	var pending []*boardCard
	for _, c := range cards {
		if c.detailURL != "" {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return
	}

	pool := NewWorkerPool(s.opts.Parallelism, len(pending))
	pool.SetRateLimit(s.opts.Delay)
	results := pool.Run(ctx)

	var mu sync.Mutex
	for _, card := range pending {
		card := card
		pool.Submit(func(ctx context.Context) error {
			desc, err := s.scrapeDetail(ctx, card.detailURL)
			if err != nil {
				return err
			}
			mu.Lock()
			card.listing.Description = desc
			mu.Unlock()
			return nil
		})
	}
	pool.Close()

	for res := range results {
		if res.Err != nil {
			s.log.WithError(res.Err).Warn("detail page failed")
		}
	}
}

func (s *BoardScraper) scrapeDetail(ctx context.Context, detailURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := s.newCollector()

	var desc string
	c.OnHTML(`[data-field="description"]`, func(e *colly.HTMLElement) {
		if desc == "" {
			desc = strings.TrimSpace(e.Text)
		}
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(detailURL); err != nil {
		return "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", fmt.Errorf("detail %s: %w", detailURL, reqErr)
	}
	return desc, nil
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "InternHubIngest/0.1",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func hostFromBaseURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse board url: %w", err)
	}
	host := u.Host
	if host == "" {
		return "", fmt.Errorf("board url %q has no host", base)
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h, nil
	}
	return host, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02 Jan 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}
