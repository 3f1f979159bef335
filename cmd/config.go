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
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect settings and personas",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings, secrets masked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(out, "# "+used)
		}
		for _, line := range settingLines(viper.AllSettings(), "") {
			fmt.Fprintln(out, line)
		}
	},
}

// settingLines flattens nested settings to sorted "a.b: value" lines.
func settingLines(settings map[string]any, prefix string) []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		key := prefix + k
		if nested, ok := settings[k].(map[string]any); ok {
			lines = append(lines, settingLines(nested, key+".")...)
			continue
		}
		value := fmt.Sprint(settings[k])
		if isSecret(key) && value != "" {
			value = "********"
		}
		lines = append(lines, key+": "+value)
	}
	return lines
}

func isSecret(key string) bool {
	return strings.HasPrefix(key, "secrets.") || strings.HasSuffix(key, "password")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
