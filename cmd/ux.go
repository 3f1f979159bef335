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
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/chat"
)

// ux is the terminal side of a conversation. In quiet mode only model output,
// proposals and errors are printed.
type ux struct {
	quiet     bool
	spin      *spinner.Spinner
	assistant *color.Color
	note      *color.Color
	warn      *color.Color
	bad       *color.Color
}

func newUX(quiet bool) *ux {
	s := spinner.New(spinner.CharSets[19], 100*time.Millisecond)
	s.Prefix = "╰─ "
	s.Color("cyan")
	return &ux{
		quiet:     quiet,
		spin:      s,
		assistant: color.New(color.FgCyan),
		note:      color.New(color.Faint),
		warn:      color.New(color.FgYellow),
		bad:       color.New(color.FgRed),
	}
}

// wait shows the spinner until the returned func is called.
func (u *ux) wait() func() {
	if u.quiet {
		return func() {}
	}
	u.spin.Start()
	return func() {
		if u.spin.Active() {
			u.spin.Stop()
		}
	}
}

func (u *ux) prompt() {
	fmt.Print("\n≫ ")
}

func (u *ux) reply(text string) {
	if u.quiet {
		fmt.Println(text)
		return
	}
	fmt.Println(u.assistant.Sprint("╰─ ") + text)
}

func (u *ux) info(format string, args ...any) {
	if u.quiet {
		return
	}
	u.note.Printf(format+"\n", args...)
}

func (u *ux) fail(format string, args ...any) {
	u.bad.Fprintf(os.Stderr, format+"\n", args...)
}

func (u *ux) scraped(turn chat.Turn) {
	for _, r := range turn.Scraped {
		if r.Failed() {
			u.warn.Printf("could not read %s: %s\n", r.URL, firstNonEmpty(r.Content, r.Msg))
			continue
		}
		u.info("read %s (%q via %s)", r.URL, r.Title, r.Method)
	}
}

func (u *ux) proposal(desc action.Descriptor, hint string) {
	u.warn.Println("proposed action: " + desc.String())
	if hint != "" {
		u.info("%s", hint)
	}
}

func (u *ux) result(res action.Result) {
	c := u.assistant
	if res.Failed() {
		c = u.bad
	}
	c.Println("action result:")
	fmt.Println(res.Text())
}

// confirmWithUser asks a y/n question on stdin.
func confirmWithUser(reader *bufio.Reader) bool {
	for {
		fmt.Print("\n≫ ")
		userPrompt, err := reader.ReadString('\n')
		checkError(err, "problem reading stdin", true)
		userPrompt = strings.TrimSpace(userPrompt)
		if userPrompt == "quit" || userPrompt == "exit" || userPrompt == "n" || userPrompt == "N" {
			return false
		} else if userPrompt == "y" || userPrompt == "Y" {
			return true
		} else {
			fmt.Println("please enter 'y' or 'n'")
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
