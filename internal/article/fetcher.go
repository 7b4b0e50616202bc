package article

import (
	"articlesummarizer/internal/domain"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	fetchClientTimeout = 30 * time.Second
	maxBodyBytes       = 10 << 20
)

type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

func NewFetcher(log *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchClientTimeout},
		log:    log,
	}
}

// Fetch downloads rawURL and extracts its title and main text.
// Every failure is a domain.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	a, err := f.fetch(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		return domain.Article{}, domain.NewError(domain.KindFetch, "fetch article", err)
	}

	return a, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		return domain.Article{}, err
	}

	body, err := f.download(ctx, pageURL)
	if err != nil {
		return domain.Article{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.Article{}, fmt.Errorf("create document from reader: %w", err)
	}

	pageTitle := documentTitle(doc)
	a := domain.Article{URL: rawURL}

	parsed, readabilityErr := readability.FromReader(bytes.NewReader(body), pageURL)
	if readabilityErr != nil {
		f.log.WarnContext(ctx, "Readability extraction failed so fallback will be used",
			"error", readabilityErr,
			"url", rawURL)
	} else {
		a.Title = strings.TrimSpace(parsed.Title)
		a.Byline = normalizeSpace(parsed.Byline)
		a.SiteName = normalizeSpace(parsed.SiteName)
		a.Text = readabilityText(parsed)
	}

	if a.Text == "" {
		f.log.InfoContext(ctx, "Using fallback extractor",
			"url", rawURL)

		a.Text = fallbackText(doc)
	}

	if a.Text == "" {
		return domain.Article{}, errors.New("no extractable content")
	}

	if a.Title == "" {
		a.Title = pageTitle
	}

	if a.Title == "" {
		f.log.WarnContext(ctx, "Empty article title",
			"url", rawURL)
	}

	f.log.InfoContext(ctx, "Article is extracted",
		"url", rawURL,
		"title", a.Title,
		"textLength", len([]rune(a.Text)))

	return a, nil
}

func parsePageURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("URL is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme (URL = %s)", rawURL)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("URL host is empty (URL = %s)", rawURL)
	}

	return u, nil
}

func (f *Fetcher) download(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req) //nolint:gosec // URL is provided by the user on purpose
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", pageURL.String())
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("create charset reader: %w", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
