package scrape

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"zr3/marketer/internal/action"
)

type stubPrimary struct {
	title, content string
	err            error
	calls          int
}

func (s *stubPrimary) Scrape(ctx context.Context, url string) (string, string, error) {
	s.calls++
	return s.title, s.content, s.err
}

type stubFallback struct {
	calls int
}

func (s *stubFallback) Scrape(ctx context.Context, url string) action.Result {
	s.calls++
	return action.Result{Status: action.StatusOK, Title: "fallback", URL: url, Method: action.MethodHTTP}
}

func TestScraper_PrimarySucceeds(t *testing.T) {
	primary := &stubPrimary{title: "Example Domain", content: "body"}
	fallback := &stubFallback{}

	res := New(primary, fallback, zaptest.NewLogger(t)).Scrape(context.Background(), "https://example.com")
	assert.Equal(t, action.Result{
		Status:  action.StatusOK,
		Title:   "Example Domain",
		Content: "body",
		URL:     "https://example.com",
		Method:  action.MethodBrowser,
	}, res)
	assert.Equal(t, 0, fallback.calls)
}

func TestScraper_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &stubPrimary{err: errors.New("chromium not found")}
	fallback := &stubFallback{}

	res := New(primary, fallback, zaptest.NewLogger(t)).Scrape(context.Background(), "https://example.com")
	assert.Equal(t, action.MethodHTTP, res.Method)
	assert.Equal(t, "fallback", res.Title)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestScraper_NoPrimary(t *testing.T) {
	fallback := &stubFallback{}

	res := New(nil, fallback, zaptest.NewLogger(t)).Scrape(context.Background(), "https://example.com")
	assert.Equal(t, action.MethodHTTP, res.Method)
	assert.Equal(t, 1, fallback.calls)
}

func TestScraper_MissingBrowserFallsBackToHTTP(t *testing.T) {
	srv := serve(t, http.StatusOK, exampleDomain)
	log := zaptest.NewLogger(t)

	primary := NewBrowserScraper(BrowserConfig{
		Headless:   true,
		Bin:        filepath.Join(t.TempDir(), "no-such-chromium"),
		NavTimeout: 2 * time.Second,
	}, DefaultPolicy(), log)

	res := New(primary, newHTTPScraper(t), log).Scrape(context.Background(), srv.URL)
	assert.Equal(t, action.StatusOK, res.Status)
	assert.Equal(t, action.MethodHTTP, res.Method)
	assert.Equal(t, "Example Domain", res.Title)
}
