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
package chat

import (
	"regexp"
	"strings"

	"zr3/marketer/internal/action"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'\]]+`)

// DetectURLs returns the http(s) URLs in text in order of appearance, without
// duplicates and without trailing sentence punctuation. A closing parenthesis
// is kept only when it balances one inside the URL.
func DetectURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, m := range urlPattern.FindAllString(text, -1) {
		u := trimURL(m)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

func trimURL(u string) string {
	for {
		trimmed := strings.TrimRight(u, ".,;:!?")
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, ")") > strings.Count(trimmed, "(") {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if trimmed == u {
			return u
		}
		u = trimmed
	}
}

type scraped struct {
	url    string
	result action.Result
}

// buildPrompt appends one delimited block per scraped URL, then the previous
// action result if there is one.
func buildPrompt(text string, pages []scraped, previous *action.Result) string {
	if len(pages) == 0 && previous == nil {
		return text
	}
	var sb strings.Builder
	sb.WriteString(text)
	for _, p := range pages {
		sb.WriteString("\n\n--- SCRAPED CONTENT FROM " + p.url + " ---\n")
		sb.WriteString(p.result.Text())
		sb.WriteString("\n--- END SCRAPED CONTENT ---")
	}
	if previous != nil {
		sb.WriteString("\n\n--- PREVIOUS ACTION RESULT ---\n")
		sb.WriteString(previous.Text())
		sb.WriteString("\n--- END ACTION RESULT ---")
	}
	return sb.String()
}
