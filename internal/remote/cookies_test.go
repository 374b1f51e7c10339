package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestBrowserCookiesCachedPerDomain(t *testing.T) {
	t.Parallel()

	bc := NewBrowserCookies()
	bc.cookies["example.com"] = []*http.Cookie{{Name: "session", Value: "abc123"}}

	got, err := bc.Cookies(context.Background(), "https://jobs.example.com/jobs.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Value != "abc123" {
		t.Fatalf("expected cached cookie for the base domain, got %v", got)
	}
}

func TestBrowserCookiesCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBrowserCookies().Cookies(ctx, "https://uncached.example.org/jobs.toml"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled before reading browsers, got %v", err)
	}
}

func TestBrowserCookiesBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewBrowserCookies().Cookies(context.Background(), "/no/host"); err == nil {
		t.Fatalf("expected error for URL without host")
	}
}
