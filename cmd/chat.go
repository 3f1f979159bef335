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
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zr3/marketer/internal/chat"
	"zr3/marketer/internal/llm"
	"zr3/marketer/internal/persona"
	"zr3/marketer/internal/transcript"
)

const chatHelp = `commands:
  /approve   run the proposed action
  /skip      drop the proposed action
  /reset     start over (the current conversation is logged)
  /persona   list personas, or /persona <name> to switch
  /help      show this
  quit       end the chat`

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [first message]",
	Short: "Chat with the marketing assistant",
	Long: `chat starts an interactive conversation with the configured persona.
Any http(s) URL you type is read before the model answers. When the model
proposes an action it waits for /approve or /skip.

` + chatHelp,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := loadResources()
		checkError(err, "could not set up the chat", true)
		defer res.Log.Sync()

		o, err := res.newOrchestrator()
		checkError(err, "could not locate the worker executable", true)

		ctx := cmd.Context()
		ui := newUX(res.Config.Quiet)
		ui.info("chatting with %s! type /help for commands", o.Persona().Name)

		if len(args) > 0 {
			send(ctx, ui, o, args[0])
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			// get prompt
			ui.prompt()
			userPrompt, err := reader.ReadString('\n')
			if errors.Is(err, io.EOF) && strings.TrimSpace(userPrompt) == "" {
				break
			}
			if !errors.Is(err, io.EOF) {
				checkError(err, "problem reading stdin", true)
			}
			userPrompt = strings.TrimSpace(userPrompt)
			if userPrompt == "" {
				continue
			}
			if userPrompt == "quit" || userPrompt == "exit" {
				break
			}
			if strings.HasPrefix(userPrompt, "/") {
				command(ctx, ui, res, o, userPrompt)
				continue
			}
			send(ctx, ui, o, userPrompt)
		}

		ui.info("chat ended!")
		saveTranscript(ctx, ui, res, o)
	},
}

func send(ctx context.Context, ui *ux, o *chat.Orchestrator, text string) {
	stop := ui.wait()
	turn, err := o.Send(ctx, text)
	stop()

	ui.scraped(turn)
	if err != nil {
		ui.fail("%s", llm.FriendlyError(err))
		return
	}
	ui.reply(turn.Reply)
	if turn.Action != nil {
		ui.proposal(*turn.Action, "type /approve to run it or /skip to drop it")
	}
}

func command(ctx context.Context, ui *ux, res *LoadedResources, o *chat.Orchestrator, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/approve", "/yes", "/y":
		stop := ui.wait()
		result, err := o.Confirm(ctx)
		stop()
		if errors.Is(err, chat.ErrNoPendingAction) {
			ui.info("nothing to approve")
			return
		}
		if err != nil {
			ui.fail("action did not finish: %v", err)
		}
		ui.result(result)

	case "/skip", "/no", "/n":
		if err := o.Skip(); err != nil {
			ui.info("nothing to skip")
			return
		}
		ui.info("action skipped")

	case "/reset":
		saveTranscript(ctx, ui, res, o)
		o.Reset()
		ui.info("conversation cleared")

	case "/persona":
		if len(fields) == 1 {
			for _, name := range res.Personas.Names() {
				marker := "  "
				if name == o.Persona().Name {
					marker = "* "
				}
				ui.info("%s%s", marker, name)
			}
			return
		}
		p, err := res.Personas.Get(fields[1])
		if err != nil {
			ui.fail("%v", err)
			return
		}
		saveTranscript(ctx, ui, res, o)
		o.SwitchPersona(p)
		ui.info("now chatting with %s, conversation cleared", p.Name)

	case "/help":
		ui.info("%s", chatHelp)

	default:
		ui.fail("unknown command %s, try /help", fields[0])
	}
}

// saveTranscript names the conversation with the title model and writes it to
// the log path.
func saveTranscript(ctx context.Context, ui *ux, res *LoadedResources, o *chat.Orchestrator) {
	sess := o.Session()
	if res.Config.NoLog || sess.Len() == 0 {
		return
	}

	title, err := res.Titles.Complete(ctx, persona.TitlePrompt, nil, transcript.Conversation(sess))
	checkError(err, "could not complete request for title slug", false)
	if err != nil {
		title = "unknown-topic"
	}

	entry, err := res.Transcripts.Save(sess, title, o.SystemPrompt())
	checkError(err, "could not write the transcript", false)
	if err == nil {
		ui.info("transcript: %s", res.Transcripts.Path(entry))
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
