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

// Package config is the typed view over the viper settings used by the commands.
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	OpenAIKey string
	Persona   string
	Personas  string
	LogPath   string
	NoLog     bool
	Quiet     bool

	LLM     LLM
	Chat    Chat
	Worker  Worker
	Scrape  Scrape
	Social  Social
	Logging Logging
}

type LLM struct {
	Model       string
	TitleModel  string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

type Chat struct {
	HistoryWindow int
}

type Worker struct {
	Timeout time.Duration
}

type Scrape struct {
	Browser           bool
	Headless          bool
	BrowserBin        string
	NavTimeout        time.Duration
	ChallengeWait     time.Duration
	ChallengeRechecks int
	HTTPTimeout       time.Duration
}

type Social struct {
	Username string
	Password string
}

type Logging struct {
	Level  string
	Format string
}

// SetDefaults registers defaults and env bindings on v. home is the user's home
// directory and anchors the config and log paths.
func SetDefaults(v *viper.Viper, home string) {
	configPath := filepath.Join(home, ".config", "marketer") + string(filepath.Separator)

	v.SetDefault("configpath", configPath)
	v.SetDefault("logpath", filepath.Join(home, ".marketer")+string(filepath.Separator))
	v.SetDefault("persona", "company")
	v.SetDefault("personas-file", configPath+"personas.yml")

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.title-model", "gpt-4o-mini")
	v.SetDefault("llm.base-url", "")
	v.SetDefault("llm.max-tokens", 1000)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.json-mode", false)

	v.SetDefault("chat.history-window", 10)
	v.SetDefault("worker.timeout", 90*time.Second)

	v.SetDefault("scrape.browser", true)
	v.SetDefault("scrape.headless", true)
	v.SetDefault("scrape.browser-bin", "")
	v.SetDefault("scrape.nav-timeout", 30*time.Second)
	v.SetDefault("scrape.challenge-wait", 5*time.Second)
	v.SetDefault("scrape.challenge-rechecks", 1)
	v.SetDefault("scrape.http-timeout", 15*time.Second)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	_ = v.BindEnv("secrets.openai-key", "OPENAI_API_KEY", "MARKETER_OPENAI_KEY")
	_ = v.BindEnv("llm.base-url", "OPENAI_BASE_URL")
	_ = v.BindEnv("social.username", "MARKETER_SOCIAL_USERNAME")
	_ = v.BindEnv("social.password", "MARKETER_SOCIAL_PASSWORD")
	_ = v.BindEnv("log.level", "MARKETER_LOG_LEVEL")
}

// FromViper reads the effective settings.
func FromViper(v *viper.Viper) Config {
	return Config{
		OpenAIKey: v.GetString("secrets.openai-key"),
		Persona:   v.GetString("persona"),
		Personas:  v.GetString("personas-file"),
		LogPath:   v.GetString("logpath"),
		NoLog:     v.GetBool("no-log"),
		Quiet:     v.GetBool("quiet"),
		LLM: LLM{
			Model:       v.GetString("llm.model"),
			TitleModel:  v.GetString("llm.title-model"),
			BaseURL:     v.GetString("llm.base-url"),
			MaxTokens:   v.GetInt("llm.max-tokens"),
			Temperature: float32(v.GetFloat64("llm.temperature")),
			JSONMode:    v.GetBool("llm.json-mode"),
		},
		Chat: Chat{
			HistoryWindow: v.GetInt("chat.history-window"),
		},
		Worker: Worker{
			Timeout: v.GetDuration("worker.timeout"),
		},
		Scrape: Scrape{
			Browser:           v.GetBool("scrape.browser"),
			Headless:          v.GetBool("scrape.headless"),
			BrowserBin:        v.GetString("scrape.browser-bin"),
			NavTimeout:        v.GetDuration("scrape.nav-timeout"),
			ChallengeWait:     v.GetDuration("scrape.challenge-wait"),
			ChallengeRechecks: v.GetInt("scrape.challenge-rechecks"),
			HTTPTimeout:       v.GetDuration("scrape.http-timeout"),
		},
		Social: Social{
			Username: v.GetString("social.username"),
			Password: v.GetString("social.password"),
		},
		Logging: Logging{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
