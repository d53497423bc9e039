// Package fetcher downloads a web page and extracts its main article text.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/resilience/circuitbreaker"
	"link-summarizer/internal/usecase/summarize"
	"link-summarizer/internal/utils/text"
)

// ReadabilityFetcher implements summarize.ArticleFetcher with the Mozilla
// Readability algorithm (go-shiori/go-readability).
//
// Each Fetch makes exactly one outbound request (plus redirects) and never
// retries. Downloads run through a circuit breaker so that a broken egress fails
// fast.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	resolver       *net.Resolver
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

var _ summarize.ArticleFetcher = (*ReadabilityFetcher)(nil)

// page is a downloaded document.
type page struct {
	body     []byte
	finalURL *url.URL
}

// NewReadabilityFetcher creates a fetcher with the given limits.
//
// Example:
//
//	cfg := fetcher.DefaultConfig()
//	f := fetcher.NewReadabilityFetcher(cfg)
//	article, err := f.Fetch(ctx, "https://example.com/article")
func NewReadabilityFetcher(config Config) *ReadabilityFetcher {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	cbConfig := circuitbreaker.ArticleFetchConfig()
	cbConfig.Ignore = clientSide

	f := &ReadabilityFetcher{
		resolver:       net.DefaultResolver,
		circuitBreaker: circuitbreaker.New(cbConfig),
		config:         config,
	}

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if config.DenyPrivateIPs {
		dialer.Control = dialControl
	}

	f.client = &http.Client{
		// Backstop only; the per-request context carries the real deadline.
		Timeout: 2 * config.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if _, err := validateURL(req.Context(), f.resolver, req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return f
}

// Fetch downloads urlStr and extracts the article.
//
// Download failures wrap summarize.ErrNetwork and unparseable HTML wraps
// summarize.ErrParse. A page that parses but has no readable text yields an
// Article with empty Text and a nil error; deciding that this is a failure is
// the caller's job.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, urlStr string) (entity.Article, error) {
	u, err := validateURL(ctx, f.resolver, urlStr, f.config.DenyPrivateIPs)
	if err != nil {
		return entity.Article{}, err
	}

	p, err := circuitbreaker.Do(f.circuitBreaker, func() (page, error) {
		return f.download(ctx, u)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			return entity.Article{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return entity.Article{}, err
	}

	return extract(ctx, p)
}

// download performs the HTTP request and reads the size-limited body.
func (f *ReadabilityFetcher) download(ctx context.Context, u *url.URL) (page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return page{}, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return page{}, f.classifyTransportError(ctx, reqCtx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page{}, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		if reqCtx.Err() != nil {
			return page{}, f.classifyTransportError(ctx, reqCtx, err)
		}
		return page{}, fmt.Errorf("%w: failed to read response body: %v", summarize.ErrNetwork, err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return page{}, fmt.Errorf("%w: exceeds limit of %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	finalURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	return page{
		body:     body,
		finalURL: finalURL,
	}, nil
}

func (f *ReadabilityFetcher) classifyTransportError(ctx, reqCtx context.Context, err error) error {
	switch {
	case errors.Is(err, summarize.ErrNetwork):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", summarize.ErrNetwork, ctx.Err())
	case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: exceeded %v", ErrTimeout, f.config.Timeout)
	default:
		return fmt.Errorf("%w: %v", summarize.ErrNetwork, err)
	}
}

// extract runs Readability over the page. Readability detects the page
// encoding itself, so the raw body is passed through undecoded. TextContent is
// preferred; when it is empty the extracted Content HTML is reduced to text
// with goquery.
func extract(ctx context.Context, p page) (entity.Article, error) {
	parsed, err := readability.FromReader(bytes.NewReader(p.body), p.finalURL)
	if err != nil {
		return entity.Article{}, fmt.Errorf("%w: %v", summarize.ErrParse, err)
	}

	body := text.NormalizeParagraphs(parsed.TextContent)
	if body == "" && strings.TrimSpace(parsed.Content) != "" {
		slog.DebugContext(ctx, "using goquery text of article content",
			slog.String("url", p.finalURL.String()),
			slog.Int("content_length", len(parsed.Content)))
		body = htmlToText(parsed.Content)
	}

	return entity.Article{
		URL:      p.finalURL.String(),
		Title:    strings.TrimSpace(parsed.Title),
		Byline:   strings.TrimSpace(parsed.Byline),
		SiteName: strings.TrimSpace(parsed.SiteName),
		Text:     body,
	}, nil
}

// htmlToText joins paragraph texts with blank lines, or falls back to the
// document text when there are no paragraphs.
func htmlToText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var paragraphs []string
	doc.Find("p, h1, h2, h3, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	if len(paragraphs) == 0 {
		return text.NormalizeParagraphs(doc.Text())
	}
	return text.NormalizeParagraphs(strings.Join(paragraphs, "\n\n"))
}
