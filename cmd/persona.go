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

	"zr3/marketer/internal/persona"
)

// personaCmd represents the persona command
var personaCmd = &cobra.Command{
	Args:  cobra.MaximumNArgs(1),
	Use:   "persona [name]",
	Short: "List personas, or print the system prompt of one",
	Long: `Without a name, persona lists the built-in bundles and those loaded from
the personas file, marking the configured one. With a name it prints the
system prompt that bundle produces.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		personas, err := loadPersonas(cfg)
		checkError(err, "could not read the personas file: "+cfg.Personas, true)

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range personas.Names() {
				marker := "  "
				if name == cfg.Persona {
					marker = "* "
				}
				fmt.Fprintln(out, marker+name)
			}
			return
		}

		b, err := personas.Get(args[0])
		if err != nil {
			fmt.Fprintln(out, "persona ["+args[0]+"] doesn't exist. add it to "+cfg.Personas)
			return
		}
		fmt.Fprintln(out, persona.SystemPrompt(b))
	},
}

func init() {
	configCmd.AddCommand(personaCmd)
}
