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

// Package action defines the descriptor the assistant proposes and the single
// result record the worker prints for it.
package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Type string

const (
	TypeScrapeURL Type = "scrape_url"
	TypePostTweet Type = "post_tweet"
)

// Known lists the action types the assistant is allowed to propose.
var Known = []Type{TypeScrapeURL, TypePostTweet}

type Params map[string]any

// Descriptor is one instruction for the worker. It is consumed exactly once.
type Descriptor struct {
	Type   Type   `json:"type"`
	Params Params `json:"params"`
}

var ErrMissingType = errors.New("action type is empty")

// Decode parses a serialized descriptor as passed on the worker command line.
func Decode(raw string) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Descriptor{}, fmt.Errorf("decode action: %w", err)
	}
	if d.Type == "" {
		return Descriptor{}, ErrMissingType
	}
	if d.Params == nil {
		d.Params = Params{}
	}
	return d, nil
}

// Encode renders the descriptor as compact JSON.
func (d Descriptor) Encode() (string, error) {
	if d.Params == nil {
		d.Params = Params{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode action: %w", err)
	}
	return string(b), nil
}

// String is used when showing a proposed action to the user. Passwords are masked.
func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(string(d.Type))
	keys := d.Params.keys()
	if len(keys) == 0 {
		return sb.String()
	}
	sb.WriteString("(")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		v := fmt.Sprint(d.Params[k])
		if k == "password" {
			v = "********"
		}
		sb.WriteString(k + "=" + v)
	}
	sb.WriteString(")")
	return sb.String()
}

// MissingParamError reports a required parameter that is absent or not a string.
type MissingParamError struct {
	Name string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing required param %q", e.Name)
}

// String returns a required, non-empty string parameter.
func (p Params) String(name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", &MissingParamError{Name: name}
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &MissingParamError{Name: name}
	}
	return s, nil
}

// Optional returns a string parameter or "" when absent.
func (p Params) Optional(name string) string {
	s, _ := p[name].(string)
	return s
}

func (p Params) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
