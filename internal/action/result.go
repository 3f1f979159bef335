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
package action

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Status string

const (
	StatusOK     Status = "ok"
	StatusError  Status = "error"
	StatusPosted Status = "posted"
)

type Method string

const (
	MethodBrowser Method = "browser"
	MethodHTTP    Method = "http"
)

// Result is the one record the worker prints per invocation.
type Result struct {
	Status  Status `json:"status"`
	Msg     string `json:"msg,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
	Method  Method `json:"method,omitempty"`
}

// Errorf builds an error record carrying msg.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Msg: fmt.Sprintf(format, args...)}
}

func (r Result) Failed() bool {
	return r.Status == StatusError
}

// Text is the human readable form used for display and prompt injection.
func (r Result) Text() string {
	var sb strings.Builder
	sb.WriteString("status: " + string(r.Status))
	if r.Method != "" {
		sb.WriteString(" (via " + string(r.Method) + ")")
	}
	if r.URL != "" {
		sb.WriteString("\nurl: " + r.URL)
	}
	if r.Title != "" {
		sb.WriteString("\ntitle: " + r.Title)
	}
	if r.Msg != "" {
		sb.WriteString("\nmessage: " + r.Msg)
	}
	if r.Content != "" {
		sb.WriteString("\n\n" + r.Content)
	}
	return sb.String()
}

// WriteLine writes r as exactly one line of JSON.
func (r Result) WriteLine(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// ParseResult decodes the last non-empty line of worker output.
func ParseResult(out string) (Result, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return Result{}, fmt.Errorf("worker printed no result")
	}
	var r Result
	if err := json.Unmarshal([]byte(last), &r); err != nil {
		return Result{}, fmt.Errorf("decode worker result: %w", err)
	}
	if r.Status == "" {
		return Result{}, fmt.Errorf("worker result has no status: %q", last)
	}
	return r, nil
}
