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
	"io"
	"os"
	"strings"

	termutil "github.com/andrew-d/go-termutil"
	"github.com/spf13/cobra"

	"zr3/marketer/internal/llm"
)

var askApprove bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask one question, optionally with piped input",
	Long: `ask sends a single message, built from the argument and anything piped on
stdin, and prints the reply. If the model proposes an action you are asked to
confirm it on the terminal; pass --approve to run it without asking.

  cat notes.md | marketer ask "turn these into a launch thread"`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// start with a blank user prompt
		userPrompt := ""
		if len(args) > 0 {
			userPrompt += args[0]
		}

		// if stdin was provided, add that to prompt
		interactive := termutil.Isatty(os.Stdin.Fd())
		if !interactive {
			inreader := bufio.NewReader(os.Stdin)
			pipedinput, err := io.ReadAll(inreader)
			if err == nil {
				userPrompt += "\n\n"
				userPrompt += string(pipedinput)
			}
		}
		userPrompt = strings.TrimSpace(userPrompt)
		if userPrompt == "" {
			checkError(cmd.Help(), "could not print help", false)
			return
		}

		res, err := loadResources()
		checkError(err, "could not set up the assistant", true)
		defer res.Log.Sync()

		o, err := res.newOrchestrator()
		checkError(err, "could not locate the worker executable", true)

		ctx := cmd.Context()
		ui := newUX(res.Config.Quiet)
		ui.info("asking %s!", o.Persona().Name)

		stop := ui.wait()
		turn, err := o.Send(ctx, userPrompt)
		stop()
		ui.scraped(turn)
		if err != nil {
			ui.fail("%s", llm.FriendlyError(err))
			os.Exit(1)
		}
		ui.reply(turn.Reply)

		if turn.Action != nil {
			approved := askApprove
			if !approved {
				if !interactive {
					ui.proposal(*turn.Action, "not run: stdin is not a terminal, pass --approve to run proposed actions")
				} else {
					ui.proposal(*turn.Action, "run it? (y/n)")
					approved = confirmWithUser(bufio.NewReader(os.Stdin))
				}
			}
			if approved {
				stop := ui.wait()
				result, err := o.Confirm(ctx)
				stop()
				checkError(err, "action did not finish", false)
				ui.result(result)
			} else {
				checkError(o.Skip(), "could not skip the action", false)
			}
		}

		saveTranscript(ctx, ui, res, o)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askApprove, "approve", false, "run a proposed action without asking")
}
