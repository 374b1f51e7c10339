// Package remote fetches job sources published over HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"tasker/internal/config"
	"tasker/internal/domain/consts"
	"tasker/internal/tasks"
	"tasker/internal/utils/logging"
	"tasker/internal/validation"

	"github.com/gocolly/colly"
	"golang.org/x/net/publicsuffix"
)

const indexKey = "index"

// Result is the outcome of fetching one remote job source.
type Result struct {
	URL   string
	Tasks *tasks.Tasks
	Err   error
}

// CookieSource supplies cookies to send with a remote job request.
type CookieSource interface {
	Cookies(ctx context.Context, rawURL string) ([]*http.Cookie, error)
}

// Fetcher retrieves remote job documents and resolves them.
type Fetcher struct {
	// Timeout bounds each request. Zero waits indefinitely.
	Timeout time.Duration

	// Parallelism caps concurrent requests.
	Parallelism int

	// Cookies is optional. When nil, requests carry no cookies.
	Cookies CookieSource
}

// NewFetcher returns a Fetcher with default parallelism and no timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{Parallelism: consts.DefaultFetchParallel}
}

// Fetch retrieves every URL and returns one Result per URL in declaration order.
//
// Failures are isolated per URL: a failed request, a body that is not text, a parse
// error or a resolution error only marks that URL's Result.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	for i, u := range urls {
		results[i].URL = u
	}
	if len(urls) == 0 {
		return results
	}

	c, err := f.newCollector()
	if err != nil {
		for i := range results {
			results[i].Err = err
		}
		logging.E("Could not set up remote job fetcher: %v", err)
		return results
	}

	c.OnResponse(func(r *colly.Response) {
		i, ok := resultIndex(r.Ctx, len(results))
		if !ok {
			return
		}
		results[i].Tasks, results[i].Err = parseBody(results[i].URL, r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		i, ok := resultIndex(r.Ctx, len(results))
		if !ok {
			return
		}
		if r.StatusCode != 0 {
			err = fmt.Errorf("HTTP %d: %w", r.StatusCode, err)
		}
		results[i].Err = fmt.Errorf("request failed: %w", err)
	})

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		if _, err := validation.ValidateRemoteURL(u); err != nil {
			results[i].Err = err
			continue
		}

		if f.Cookies != nil {
			f.attachCookies(ctx, c, u)
		}

		reqCtx := colly.NewContext()
		reqCtx.Put(indexKey, strconv.Itoa(i))

		logging.D(1, "Fetching remote jobs from %q", u)
		if err := c.Request(http.MethodGet, u, nil, reqCtx, nil); err != nil {
			results[i].Err = fmt.Errorf("request failed: %w", err)
		}
	}
	c.Wait()

	for _, r := range results {
		if r.Err != nil {
			logging.E("Skipping remote jobs from %q: %v", r.URL, r.Err)
			continue
		}
		logging.D(1, "Fetched %d job(s) from %q", r.Tasks.JobCount(), r.URL)
	}
	return results
}

// newCollector initializes Colly for one fetch round.
func (f *Fetcher) newCollector() (*colly.Collector, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := colly.NewCollector(
		colly.Async(true),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(consts.UserAgent),
		colly.MaxBodySize(0), // colly truncates at 10MB by default
	)
	c.SetRequestTimeout(f.Timeout)
	c.SetCookieJar(jar)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: max(f.Parallelism, 1),
	}); err != nil {
		return nil, fmt.Errorf("failed to set fetch parallelism: %w", err)
	}
	return c, nil
}

// attachCookies loads cookies for a URL into the collector's jar.
func (f *Fetcher) attachCookies(ctx context.Context, c *colly.Collector, rawURL string) {
	cookies, err := f.Cookies.Cookies(ctx, rawURL)
	if err != nil {
		logging.W("Could not load cookies for %q, fetching without: %v", rawURL, err)
		return
	}
	if len(cookies) == 0 {
		return
	}
	if err := c.SetCookies(rawURL, cookies); err != nil {
		logging.W("Could not set cookies for %q: %v", rawURL, err)
	}
}

// parseBody parses and resolves one fetched job document.
func parseBody(rawURL string, body []byte) (*tasks.Tasks, error) {
	if !utf8.Valid(body) {
		return nil, errors.New("response body is not valid UTF-8 text")
	}

	format := config.FormatTOML
	if u, err := url.Parse(rawURL); err == nil {
		format = config.FormatFromPath(u.Path)
	}

	src, err := config.ParseTaskSource(body, format)
	if err != nil {
		return nil, fmt.Errorf("invalid job document: %w", err)
	}

	t, err := tasks.Resolve(src)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve jobs: %w", err)
	}
	return t, nil
}

// resultIndex recovers the result slot stored in the request context.
func resultIndex(ctx *colly.Context, n int) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	i, err := strconv.Atoi(ctx.Get(indexKey))
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
