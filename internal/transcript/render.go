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
package transcript

import (
	"strings"
	"time"

	"zr3/marketer/internal/session"
)

func div(title string) string {
	return "\n\n## " + title + "\n\n"
}

// Render produces the markdown body of a transcript.
func Render(sess *session.Session, title string, at time.Time, system string) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n" + at.Format(TimeFormat))
	sb.WriteString("\n\npersona: " + sess.Persona + "\nsession: " + sess.ID)

	sb.WriteString(div("chat conversation"))
	for _, m := range sess.Messages() {
		sb.WriteString(m.Role + ":\n" + m.Content + "\n\n")
		if m.Action != nil {
			sb.WriteString("proposed action: " + m.Action.String() + "\n\n")
		}
		if m.Result != nil {
			sb.WriteString("action result:\n" + m.Result.Text() + "\n\n")
		}
	}

	sb.WriteString(strings.TrimPrefix(div("system"), "\n\n"))
	sb.WriteString(system)
	return sb.String()
}

// Conversation renders just the exchanged messages, used when asking the model
// for a title.
func Conversation(sess *session.Session) string {
	var sb strings.Builder
	for _, m := range sess.Messages() {
		sb.WriteString(m.Role + ":\n" + m.Content + "\n\n")
	}
	return strings.TrimSpace(sb.String())
}
