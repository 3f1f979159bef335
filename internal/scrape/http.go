/*
Copyright © 2023 Zak Reynolds <zak.reynolds@zakjr.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"zr3/marketer/internal/action"
)

const maxBodyBytes = 5 << 20

// HTTPScraper is the fallback path: one GET, parsed with goquery.
type HTTPScraper struct {
	client *http.Client
	policy Policy
	log    *zap.Logger
}

func NewHTTPScraper(timeout time.Duration, policy Policy, log *zap.Logger) *HTTPScraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPScraper{
		client: &http.Client{Timeout: timeout},
		policy: policy,
		log:    log.Named("http"),
	}
}

// Scrape never panics and never returns an error: failures become error records.
func (s *HTTPScraper) Scrape(ctx context.Context, url string) (res action.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = s.failed(url, fmt.Errorf("panic: %v", r))
		}
	}()

	title, content, err := s.fetch(ctx, url)
	if err != nil {
		s.log.Warn("http scrape failed", zap.String("url", url), zap.Error(err))
		return s.failed(url, err)
	}
	return action.Result{
		Status:  action.StatusOK,
		Title:   title,
		Content: content,
		URL:     url,
		Method:  action.MethodHTTP,
	}
}

func (s *HTTPScraper) failed(url string, err error) action.Result {
	return action.Result{
		Status:  action.StatusError,
		Content: err.Error(),
		URL:     url,
		Method:  action.MethodHTTP,
	}
}

func (s *HTTPScraper) fetch(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.policy.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", "", fmt.Errorf("decode body: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	title, content := s.policy.extractDocument(doc)
	return title, content, nil
}

// extractDocument applies the fallback cleaning rules to a parsed document.
func (p Policy) extractDocument(doc *goquery.Document) (string, string) {
	doc.Find("script, style, noscript, template").Remove()

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	var lines []string
	for _, sel := range p.Selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			lines = textLines(found)
			if len(lines) > 0 {
				break
			}
		}
	}
	if len(lines) == 0 {
		lines = textLines(doc.Find("body"))
	}

	var kept []string
	for _, line := range lines {
		if len(kept) == p.HTTPMaxLines {
			break
		}
		if runeLen(line) < p.HTTPLineMinChars || p.IsChallenge(line) {
			continue
		}
		kept = append(kept, line)
	}

	content := strings.Join(kept, "\n")
	if content == "" {
		content = p.ProtectedMessage(title)
	}
	return title, Truncate(content, p.HTTPMaxChars, p.Marker)
}

// textLines returns one whitespace-collapsed line per non-blank text node.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if line := strings.Join(strings.Fields(n.Data), " "); line != "" {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}
