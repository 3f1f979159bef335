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
	"strings"
	"time"
)

// Page is the read-only view of a loaded document the browser path extracts from.
type Page interface {
	Title() (string, error)
	// Texts returns the rendered text of every element matching selector.
	Texts(selector string) ([]string, error)
	BodyText() (string, error)
}

// Extract pulls title and main content from a loaded page.
func (p Policy) Extract(ctx context.Context, page Page) (string, string, error) {
	body, err := page.BodyText()
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	for i := 0; i < p.ChallengeRechecks && p.IsChallenge(body); i++ {
		if err := wait(ctx, p.ChallengeWait); err != nil {
			return "", "", err
		}
		again, err := page.BodyText()
		if err != nil {
			break
		}
		body = again
	}

	title, err := page.Title()
	if err != nil {
		return "", "", fmt.Errorf("read title: %w", err)
	}
	title = strings.TrimSpace(title)

	content := p.selectContent(page)
	if content == "" {
		content = p.keepSnippets([]string{body})
	}
	if runeLen(content) < p.ContentMinChars {
		content = p.ProtectedMessage(title)
	}
	return title, Truncate(content, p.BrowserMaxChars, p.Marker), nil
}

// selectContent returns the text of the first selector clearing SelectorMinChars.
func (p Policy) selectContent(page Page) string {
	for _, sel := range p.Selectors {
		texts, err := page.Texts(sel)
		if err != nil || len(texts) == 0 {
			continue
		}
		if joined := p.keepSnippets(texts); runeLen(joined) > p.SelectorMinChars {
			return joined
		}
	}
	return ""
}

// keepSnippets splits each fragment into lines and drops short or challenge lines.
func (p Policy) keepSnippets(fragments []string) string {
	var blocks []string
	for _, frag := range fragments {
		var kept []string
		for _, line := range strings.Split(frag, "\n") {
			line = strings.Join(strings.Fields(line), " ")
			if runeLen(line) < p.FragmentMinChars || p.IsChallenge(line) {
				continue
			}
			kept = append(kept, line)
		}
		if len(kept) > 0 {
			blocks = append(blocks, strings.Join(kept, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
