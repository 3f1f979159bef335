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

// Package persona holds the context bundles the assistant writes for and
// renders them into a system prompt.
package persona

import (
	"errors"
	"fmt"
	"strings"

	"zr3/marketer/internal/action"
)

type Style string

const (
	StyleCompany  Style = "company"
	StylePersonal Style = "personal"
)

var ErrUnknownPersona = errors.New("unknown persona")

// Field is one profile line. Values takes precedence over Value.
type Field struct {
	Key    string   `mapstructure:"key"`
	Value  string   `mapstructure:"value"`
	Values []string `mapstructure:"values"`
}

func (f Field) Text() string {
	if len(f.Values) > 0 {
		return strings.Join(f.Values, ", ")
	}
	return f.Value
}

// Bundle is a named persona: who the user is, the business or personal brand
// behind them, and how the assistant should write.
type Bundle struct {
	Name    string
	Style   Style
	User    []Field
	Context []Field
	// Instructions replaces the style's built-in instruction block when set.
	Instructions string
}

// Lookup returns the first user field named key.
func (b Bundle) Lookup(key string) string {
	for _, f := range b.User {
		if f.Key == key {
			return f.Text()
		}
	}
	return ""
}

func (b Bundle) contextLabel() string {
	if b.Style == StylePersonal {
		return "Personal Brand Context"
	}
	return "Business Context"
}

func (b Bundle) instructions() string {
	if b.Instructions != "" {
		return strings.TrimSpace(b.Instructions)
	}
	if b.Style == StylePersonal {
		return personalInstructions
	}
	return companyInstructions
}

// SystemPrompt renders the bundle, the response requirements and the
// {reply, action} contract.
func SystemPrompt(b Bundle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert marketing assistant having a conversation with %s, a %s.\n\n",
		b.Lookup("name"), b.Lookup("profession"))

	sb.WriteString("User Context:\n")
	writeFields(&sb, b.User)
	if len(b.Context) > 0 {
		sb.WriteString("\n" + b.contextLabel() + ":\n")
		writeFields(&sb, b.Context)
	}

	sb.WriteString("\n" + b.instructions() + "\n\n")
	sb.WriteString(qualityRequirements + "\n\n")

	sb.WriteString(envelopeContract)
	types := make([]string, len(action.Known))
	for i, t := range action.Known {
		types[i] = fmt.Sprintf("%q", t)
	}
	fmt.Fprintf(&sb, "\nAllowed action types: [%s]\n\n", strings.Join(types, ", "))
	sb.WriteString("Otherwise, just respond naturally in conversation with specific, personalized advice.")
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []Field) {
	for _, f := range fields {
		fmt.Fprintf(sb, "- %s: %s\n", capitalize(f.Key), f.Text())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TitlePrompt is the system prompt for naming a finished transcript.
const TitlePrompt = `You name chat transcripts. Reply with a short lowercase kebab-case slug of two to five words describing the conversation topic, for example "spring-launch-tweets". Reply with the slug only.`

const envelopeContract = `When suggesting actions, respond in JSON format:
{
  "reply": "<conversational response>",
  "action": null OR { "type": "...", "params": {...} }
}
`

const qualityRequirements = `RESPONSE QUALITY REQUIREMENTS:
- NEVER give generic, one-size-fits-all advice
- ALWAYS reference their specific context, business, or personal brand
- Provide concrete, actionable recommendations
- Include specific examples relevant to their industry/situation
- Suggest measurable outcomes and success metrics
- Reference their specific products, services, or expertise when relevant
- Tailor all suggestions to their target audience and goals`

const companyInstructions = `You should:
1. Focus on company marketing strategies and campaigns
2. Help with business growth and customer acquisition
3. Suggest data-driven marketing approaches
4. Provide strategic business marketing advice

QUALITY STANDARDS FOR COMPANY MARKETING:
- Responses should be specific to their business and industry
- Always reference their specific products/services and target audience
- Suggest measurable, ROI-focused strategies (not generic advice)
- Provide specific campaign ideas tailored to their business
- Include concrete metrics and KPIs relevant to their goals
- Focus on customer acquisition and business growth
- Suggest data-driven approaches with specific tools/platforms
- Emphasize competitive advantages and unique value propositions`

const personalInstructions = `You should:
1. Focus on thought leadership, teaching, and insights, but leave room for out-of-the-box concepts and thoughts.
2. Build on the provided industry and job experiences to find niche topics
3. Never sound self-serving or self-aggrandizing.
4. Never use emojis, em-dashes, hashtags, or rigidly follow the rules of grammar, sentence structure, or punctuation.
5. Pull inspiration from history, current events, art, culture, famous books, movies, music, etc.
6. Use the weirdest and most interesting voice, data and inspiration you can.
7. Try to avoid directly using the data from the context, but use it to inspire your response.

QUALITY STANDARDS FOR PERSONAL BRANDING:
- Responses should be specific to their industry and expertise
- Always reference their specific background and achievements
- Suggest actionable, personalized strategies (not generic advice)
- Focus on authentic storytelling and genuine connection
- Provide specific platform recommendations based on their audience
- Include concrete examples relevant to their field
- Emphasize relationship-building and networking strategies
- Pay close attention to the instructions and do web research if needed.
- Always favor user input messages and don't contradict or try to relate it to the system prompt unless it is relevant.
- Suggest content themes that align with their expertise`
