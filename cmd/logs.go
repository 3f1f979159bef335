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
	"fmt"

	"github.com/spf13/cobra"

	"zr3/marketer/internal/transcript"
)

var (
	logsLimit         int
	logsCaseSensitive bool
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List and search stored transcripts",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent transcripts, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		entries, err := transcript.NewStore(cfg.LogPath).List(logsLimit)
		checkError(err, "could not read the transcript index", true)

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "no transcripts yet")
			return
		}
		for i, e := range entries {
			fmt.Fprintf(out, "%d. %s\n   %s, %s, %d messages\n   %s\n",
				i+1, e.Title, e.Timestamp.Format("Jan 2, 2006 at 3:04 PM"), e.Persona, e.Messages, e.File)
		}
	},
}

var logsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search every transcript line by line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		hits, err := transcript.NewStore(cfg.LogPath).Search(args[0], logsCaseSensitive)
		checkError(err, "could not search transcripts", true)

		out := cmd.OutOrStdout()
		if len(hits) == 0 {
			fmt.Fprintf(out, "no results for %q\n", args[0])
			return
		}
		for _, h := range hits {
			fmt.Fprintf(out, "%s:%d: %s\n", h.File, h.Line, h.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd, logsSearchCmd)

	logsListCmd.Flags().IntVar(&logsLimit, "limit", 10, "number of transcripts to show")
	logsSearchCmd.Flags().BoolVarP(&logsCaseSensitive, "case-sensitive", "c", false, "match case")
}
