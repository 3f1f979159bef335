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
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zr3/marketer/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketer",
	Short: "A chat assistant that drafts marketing and runs approved web actions",
	Long: `marketer talks to an OpenAI-compatible model with a marketing persona.
URLs in your messages are read before the model answers, and the model may
propose an action (read a page, post an update) that only runs once you
approve it. Actions run in a separate worker process:

  marketer chat
  marketer ask "three hooks for our spring launch"
  marketer worker '{"type":"scrape_url","params":{"url":"https://example.com"}}'`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/marketer/config.yml)")

	rootCmd.PersistentFlags().Bool("quiet", false, "hide the CLI ux and only show model output")
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.PersistentFlags().Bool("no-log", false, "do not write a transcript when the conversation ends")
	viper.BindPFlag("no-log", rootCmd.PersistentFlags().Lookup("no-log"))

	rootCmd.PersistentFlags().String("persona", "", "persona bundle to chat as (default is company)")
	viper.BindPFlag("persona", rootCmd.PersistentFlags().Lookup("persona"))

	rootCmd.PersistentFlags().String("log-level", "", "diagnostics level on stderr: debug, info, warn, error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// a .env in the working directory is optional
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	config.SetDefaults(viper.GetViper(), home)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(viper.GetString("configpath"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "could not load config file:", err)
		}
	}
}

// workerArgs are the arguments that make a child process see the same config.
func workerArgs() []string {
	if cfgFile != "" {
		return []string{"--config", cfgFile, "worker"}
	}
	return []string{"worker"}
}

func checkError(err error, message string, isFatal bool) {
	if err != nil {
		fmt.Fprintln(os.Stderr, message)
		if isFatal {
			log.Fatal(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
