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
	"github.com/spf13/cobra"

	"zr3/marketer/internal/worker"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker <action-json>",
	Short: "Run one action and print its result as a single JSON line",
	Long: `worker executes a single action descriptor and prints exactly one JSON
result line on stdout. Diagnostics go to stderr. The chat commands start it as
a child process for every approved action and every URL read.

Supported actions:
  {"type":"scrape_url","params":{"url":"https://example.com"}}
  {"type":"post_tweet","params":{"text":"..."}}

post_tweet takes username and password from MARKETER_SOCIAL_USERNAME and
MARKETER_SOCIAL_PASSWORD (or social.* in the config file) unless the params
carry them. A malformed descriptor exits nonzero without printing a result.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		defer log.Sync()

		d := newDispatcher(cfg, log)
		err := worker.Run(cmd.Context(), d, args[0], cmd.OutOrStdout())
		checkError(err, "malformed action descriptor", true)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
