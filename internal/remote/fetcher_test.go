package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tasker/internal/tasks"
)

const validJobs = `
[[profile]]
name = "audio"
args = ["-x"]

[[download]]
name = "podcast"
profile = "audio"
url = "https://example.com/podcast"
`

func newJobServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/valid.toml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validJobs))
	})
	mux.HandleFunc("/valid.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("profile:\n  - name: video\ndownload:\n  - name: clips\n    profile: video\n    url: https://example.com/clips\n"))
	})
	mux.HandleFunc("/malformed.toml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[[profile]\nname = "))
	})
	mux.HandleFunc("/dangling.toml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[[profile]]\nname = \"audio\"\n\n[[download]]\nname = \"x\"\nprofile = \"missing\"\nurl = \"https://example.com/x\"\n"))
	})
	mux.HandleFunc("/binary.toml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x80, 0x81, 0x82})
	})
	mux.HandleFunc("/slow.toml", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(validJobs))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchIsolatesFailures(t *testing.T) {
	srv := newJobServer(t)

	urls := []string{
		srv.URL + "/malformed.toml",
		srv.URL + "/valid.toml",
		srv.URL + "/missing.toml",
		srv.URL + "/dangling.toml",
		srv.URL + "/binary.toml",
		srv.URL + "/valid.yaml",
	}

	results := NewFetcher().Fetch(context.Background(), urls)
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}

	for i, r := range results {
		if r.URL != urls[i] {
			t.Fatalf("result %d out of declaration order: got %q, want %q", i, r.URL, urls[i])
		}
	}

	for _, i := range []int{1, 5} {
		if results[i].Err != nil {
			t.Fatalf("expected %q to succeed, got %v", urls[i], results[i].Err)
		}
		if results[i].Tasks == nil || results[i].Tasks.JobCount() != 1 {
			t.Fatalf("expected one job from %q, got %+v", urls[i], results[i].Tasks)
		}
	}

	for _, i := range []int{0, 2, 3, 4} {
		if results[i].Err == nil {
			t.Fatalf("expected %q to fail", urls[i])
		}
		if results[i].Tasks != nil {
			t.Fatalf("expected no tasks for failed %q", urls[i])
		}
	}

	if !strings.Contains(results[2].Err.Error(), "404") {
		t.Fatalf("expected HTTP status in error, got %v", results[2].Err)
	}
	var unknown *tasks.UnknownProfileError
	if !errors.As(results[3].Err, &unknown) {
		t.Fatalf("expected resolution error for dangling reference, got %v", results[3].Err)
	}
}

func TestFetchOrderIndependentOfCompletion(t *testing.T) {
	srv := newJobServer(t)

	urls := []string{srv.URL + "/slow.toml", srv.URL + "/valid.yaml"}
	results := NewFetcher().Fetch(context.Background(), urls)

	if results[0].URL != urls[0] || results[1].URL != urls[1] {
		t.Fatalf("results not in declaration order: %+v", results)
	}
	if results[0].Err != nil || results[1].Err != nil {
		t.Fatalf("unexpected errors: %v, %v", results[0].Err, results[1].Err)
	}
	if _, ok := results[0].Tasks.Profile("audio"); !ok {
		t.Fatalf("expected slow source's jobs in first slot")
	}
}

func TestFetchDuplicateURLs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(validJobs))
	}))
	t.Cleanup(srv.Close)

	results := NewFetcher().Fetch(context.Background(), []string{srv.URL + "/jobs.toml", srv.URL + "/jobs.toml"})
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("result %d: unexpected error %v", i, r.Err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected each declared URL to be fetched, got %d requests", hits.Load())
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := newJobServer(t)

	f := NewFetcher()
	f.Timeout = 50 * time.Millisecond

	results := f.Fetch(context.Background(), []string{srv.URL + "/slow.toml"})
	if results[0].Err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := newJobServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewFetcher().Fetch(ctx, []string{srv.URL + "/valid.toml"})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", results[0].Err)
	}
}

func TestFetchNoURLs(t *testing.T) {
	if results := NewFetcher().Fetch(context.Background(), nil); len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

type staticCookies []*http.Cookie

func (s staticCookies) Cookies(context.Context, string) ([]*http.Cookie, error) {
	return s, nil
}

func TestFetchAttachesCookies(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			got.Store(c.Value)
		}
		w.Write([]byte(validJobs))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher()
	f.Cookies = staticCookies{{Name: "session", Value: "abc123", Path: "/"}}

	results := f.Fetch(context.Background(), []string{srv.URL + "/jobs.toml"})
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if v, _ := got.Load().(string); v != "abc123" {
		t.Fatalf("expected session cookie to be sent, got %q", v)
	}
}

func TestBaseDomain(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://jobs.example.com/user/repo/main/jobs.toml": "example.com",
		"https://jobs.example.co.uk/a.toml":                 "example.co.uk",
		"http://127.0.0.1:8080/jobs.toml":                   "127.0.0.1",
		"http://localhost/jobs.toml":                        "localhost",
	}
	for in, want := range cases {
		got, err := baseDomain(in)
		if err != nil {
			t.Fatalf("baseDomain(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("baseDomain(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := baseDomain("/relative/path"); err == nil {
		t.Fatalf("expected error for URL without host")
	}
}

func TestFetchRejectsInvalidURLs(t *testing.T) {
	srv := newJobServer(t)

	urls := []string{"ftp://example.com/jobs.toml", srv.URL + "/valid.toml", "not a url"}
	results := NewFetcher().Fetch(context.Background(), urls)

	if results[0].Err == nil || results[2].Err == nil {
		t.Fatalf("expected invalid URLs to fail, got %+v", results)
	}
	if results[1].Err != nil {
		t.Fatalf("expected valid URL to succeed, got %v", results[1].Err)
	}
}

func TestFetchReadsLargeBodies(t *testing.T) {
	var body bytes.Buffer
	body.WriteString(validJobs)
	body.WriteString("# ")
	body.Write(bytes.Repeat([]byte("a"), 11<<20))
	body.WriteString(`

[[download]]
name = "after-padding"
profile = "audio"
url = "https://example.com/after"
`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body.Bytes())
	}))
	t.Cleanup(srv.Close)

	results := NewFetcher().Fetch(context.Background(), []string{srv.URL + "/jobs.toml"})
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if n := results[0].Tasks.JobCount(); n != 2 {
		t.Fatalf("expected both jobs from an 11MB document, got %d", n)
	}
}
