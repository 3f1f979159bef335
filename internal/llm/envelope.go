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
package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"zr3/marketer/internal/action"
)

// Envelope is the structured answer. Action is nil when nothing is proposed.
type Envelope struct {
	Reply  string             `json:"reply"`
	Action *action.Descriptor `json:"action"`
}

// ParseEnvelope decodes raw as an envelope, tolerating a surrounding markdown
// code fence. When raw is not an envelope the whole text becomes the reply and
// ok is false.
func ParseEnvelope(raw string) (env Envelope, ok bool) {
	body := stripFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return Envelope{Reply: raw}, false
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{Reply: raw}, false
	}
	if env.Action != nil {
		if env.Action.Type == "" {
			env.Action = nil
		} else if env.Action.Params == nil {
			env.Action.Params = action.Params{}
		}
	}
	return env, true
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return s
	}
	s = strings.TrimSpace(s[nl+1:])
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// IsRateLimit reports whether err is a rate limit or quota failure.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota")
}

// FriendlyError is the text shown to the user for a failed completion.
func FriendlyError(err error) string {
	if IsRateLimit(err) {
		return "The model API is rate limited or out of quota. Check your plan and billing, then try again. (" + err.Error() + ")"
	}
	return "Could not get a response from the model: " + err.Error()
}
