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

// Package scrape extracts readable text from a web page. A stealth headless
// browser is tried first; a plain HTTP fetch is the fallback.
package scrape

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Policy holds the content heuristics. They are brittle by nature, so callers
// replace the whole value rather than patching control flow.
type Policy struct {
	// Selectors are tried in order, most specific first.
	Selectors []string
	// ChallengePhrases mark anti-bot interstitial text. Matched case-insensitively.
	ChallengePhrases []string

	SelectorMinChars int
	FragmentMinChars int
	ContentMinChars  int

	HTTPLineMinChars int
	HTTPMaxLines     int

	BrowserMaxChars int
	HTTPMaxChars    int
	Marker          string

	ChallengeWait     time.Duration
	ChallengeRechecks int

	UserAgent string
}

func DefaultPolicy() Policy {
	return Policy{
		Selectors: []string{
			"main",
			"article",
			"[role=main]",
			".content",
			"#content",
			".post-content",
			".entry-content",
			".article-body",
			"h1, h2, h3, p",
		},
		ChallengePhrases: []string{
			"just a moment",
			"verifying you are human",
			"verify you are human",
			"checking your browser",
			"checking if the site connection is secure",
			"cloudflare",
			"enable javascript and cookies",
			"attention required",
			"ddos protection",
		},
		SelectorMinChars:  500,
		FragmentMinChars:  30,
		ContentMinChars:   50,
		HTTPLineMinChars:  10,
		HTTPMaxLines:      30,
		BrowserMaxChars:   5000,
		HTTPMaxChars:      3000,
		Marker:            "\n\n[...truncated...]",
		ChallengeWait:     5 * time.Second,
		ChallengeRechecks: 1,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
}

// IsChallenge reports whether text contains any challenge phrase.
func (p Policy) IsChallenge(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range p.ChallengePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ProtectedMessage is substituted when a page yields no usable text.
func (p Policy) ProtectedMessage(title string) string {
	if strings.TrimSpace(title) == "" {
		title = "untitled page"
	}
	return fmt.Sprintf("Page %q returned no readable content. The site is likely protected by bot detection or renders its content client-side.", title)
}

// Truncate cuts s to max runes and appends marker when anything was cut.
func Truncate(s string, max int, marker string) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + marker
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
