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

// peepCmd represents the peep command
var peepCmd = &cobra.Command{
	Use:   "peep",
	Short: "Print the path of the latest transcript",
	Long: `peep prints the path of the newest transcript, so it composes with other
tools:

  less $(marketer peep)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		latest, err := transcript.NewStore(cfg.LogPath).Latest()
		checkError(err, "no transcript found in "+cfg.LogPath, true)
		fmt.Fprintln(cmd.OutOrStdout(), latest)
	},
}

func init() {
	rootCmd.AddCommand(peepCmd)
}
