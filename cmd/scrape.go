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
)

var scrapeText bool

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Read a page in-process, browser first with an HTTP fallback",
	Long: `scrape runs the same browser-then-HTTP reader the worker uses, in this
process, and prints the result record. Use --text for a readable form.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		defer log.Sync()

		res := newScraper(cfg, log).Scrape(cmd.Context(), args[0])
		if scrapeText {
			fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			return
		}
		checkError(res.WriteLine(cmd.OutOrStdout()), "could not write result", true)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&scrapeText, "text", false, "print a readable summary instead of JSON")
}
