package remote

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	"tasker/internal/utils/logging"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"
	"golang.org/x/net/publicsuffix"
)

// BrowserCookies reads cookies for remote job hosts from locally installed browsers.
type BrowserCookies struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

// NewBrowserCookies initializes a new browser cookie source.
func NewBrowserCookies() *BrowserCookies {
	return &BrowserCookies{
		cookies: make(map[string][]*http.Cookie),
	}
}

// Cookies retrieves cookies for a given URL, caching them per base domain.
func (bc *BrowserCookies) Cookies(ctx context.Context, rawURL string) ([]*http.Cookie, error) {
	domain, err := baseDomain(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	bc.mu.RLock()
	if cookies, ok := bc.cookies[domain]; ok {
		bc.mu.RUnlock()
		return cookies, nil
	}
	bc.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kookyCookies := kooky.ReadCookies(kooky.Valid, kooky.Domain(domain))
	cookies := convertToHTTPCookies(kookyCookies)
	logging.D(1, "Found %d browser cookie(s) for %s", len(cookies), domain)

	bc.mu.Lock()
	bc.cookies[domain] = cookies
	bc.mu.Unlock()

	return cookies, nil
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Domain: c.Domain,
			Secure: c.Secure,
		}
	}
	return httpCookies
}

// baseDomain returns the registrable domain for a URL, or the bare host for IPs and single-label hosts.
func baseDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return domain, nil
}
