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

// Package session keeps the state of one conversation. A Session is not safe
// for concurrent use.
package session

import (
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"zr3/marketer/internal/action"
)

// Message is one transcript entry as displayed and logged.
type Message struct {
	Role    string
	Content string
	// Action is the proposal attached to an assistant message, Result its
	// outcome once confirmed.
	Action *action.Descriptor
	Result *action.Result
	Time   time.Time
}

type Session struct {
	ID      string
	Persona string
	Started time.Time

	messages []Message
	history  []openai.ChatCompletionMessage
	pending  int
	result   *action.Result

	now func() time.Time
}

func New(persona string) *Session {
	s := &Session{now: time.Now}
	s.Reset(persona)
	return s
}

// Reset starts a fresh conversation under persona with a new ID.
func (s *Session) Reset(persona string) {
	s.ID = uuid.NewString()
	s.Persona = persona
	s.Started = s.now()
	s.messages = nil
	s.history = nil
	s.pending = -1
	s.result = nil
}

// AddTurn records the user's original text and the assistant's reply. A
// proposed action becomes the pending one, replacing any stale proposal.
func (s *Session) AddTurn(user, reply string, proposed *action.Descriptor) {
	now := s.now()
	s.messages = append(s.messages,
		Message{Role: openai.ChatMessageRoleUser, Content: user, Time: now},
		Message{Role: openai.ChatMessageRoleAssistant, Content: reply, Action: proposed, Time: now},
	)
	s.history = append(s.history,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
	)
	s.pending = -1
	if proposed != nil {
		s.pending = len(s.messages) - 1
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	return len(s.messages)
}

// History returns at most the last window messages sent to the model. A window
// of zero or less returns everything.
func (s *Session) History(window int) []openai.ChatCompletionMessage {
	h := s.history
	if window > 0 && len(h) > window {
		h = h[len(h)-window:]
	}
	out := make([]openai.ChatCompletionMessage, len(h))
	copy(out, h)
	return out
}

// Pending returns the action awaiting confirmation.
func (s *Session) Pending() (action.Descriptor, bool) {
	if s.pending < 0 {
		return action.Descriptor{}, false
	}
	return *s.messages[s.pending].Action, true
}

// Resolve attaches res to the message that proposed the pending action and
// keeps it for the next prompt.
func (s *Session) Resolve(res action.Result) {
	if s.pending < 0 {
		return
	}
	s.messages[s.pending].Result = &res
	s.pending = -1
	s.result = &res
}

// Skip drops the pending action without touching any result.
func (s *Session) Skip() {
	s.pending = -1
}

// TakeResult returns the last action result once.
func (s *Session) TakeResult() (action.Result, bool) {
	if s.result == nil {
		return action.Result{}, false
	}
	res := *s.result
	s.result = nil
	return res, true
}

// PeekResult returns the waiting result without consuming it.
func (s *Session) PeekResult() (action.Result, bool) {
	if s.result == nil {
		return action.Result{}, false
	}
	return *s.result, true
}
