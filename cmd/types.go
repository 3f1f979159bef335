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
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/browser"
	"zr3/marketer/internal/chat"
	"zr3/marketer/internal/config"
	"zr3/marketer/internal/llm"
	"zr3/marketer/internal/logging"
	"zr3/marketer/internal/persona"
	"zr3/marketer/internal/runner"
	"zr3/marketer/internal/scrape"
	"zr3/marketer/internal/social"
	"zr3/marketer/internal/transcript"
	"zr3/marketer/internal/worker"
)

var errNoAPIKey = errors.New("no API key: set OPENAI_API_KEY or secrets.openai-key in the config file")

// LoadedResources is everything a conversational command needs.
type LoadedResources struct {
	Config      config.Config
	Log         *zap.Logger
	Personas    *persona.Registry
	ChatPersona persona.Bundle
	LLM         *llm.Client
	Titles      *llm.Client
	Transcripts *transcript.Store
}

func loadConfig() (config.Config, *zap.Logger) {
	cfg := config.FromViper(viper.GetViper())
	return cfg, logging.Must(cfg.Logging.Level, cfg.Logging.Format)
}

func loadPersonas(cfg config.Config) (*persona.Registry, error) {
	personas := persona.NewRegistry()
	if err := personas.LoadFile(cfg.Personas); err != nil {
		return nil, err
	}
	return personas, nil
}

func loadResources() (*LoadedResources, error) {
	cfg, log := loadConfig()
	if cfg.OpenAIKey == "" {
		return nil, errNoAPIKey
	}

	personas, err := loadPersonas(cfg)
	if err != nil {
		return nil, err
	}
	chatPersona, err := personas.Get(cfg.Persona)
	if err != nil {
		return nil, err
	}

	client := llm.New(llm.Config{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		JSONMode:    cfg.LLM.JSONMode,
	}, log)

	return &LoadedResources{
		Config:      cfg,
		Log:         log,
		Personas:    personas,
		ChatPersona: chatPersona,
		LLM:         client,
		Titles:      client.WithModel(cfg.LLM.TitleModel),
		Transcripts: transcript.NewStore(cfg.LogPath),
	}, nil
}

// newOrchestrator wires the chat loop to a worker subprocess for both URL
// reads and confirmed actions.
func (r *LoadedResources) newOrchestrator() (*chat.Orchestrator, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	w := runner.New(runner.SelfCommand(exe, workerArgs()...), r.Config.Worker.Timeout, r.Log)
	return chat.New(r.LLM, w, w, r.ChatPersona, r.Config.Chat.HistoryWindow, r.Log), nil
}

func newPolicy(cfg config.Config) scrape.Policy {
	policy := scrape.DefaultPolicy()
	policy.ChallengeWait = cfg.Scrape.ChallengeWait
	policy.ChallengeRechecks = cfg.Scrape.ChallengeRechecks
	return policy
}

// newScraper is the in-process browser-then-HTTP scraper used by the worker.
func newScraper(cfg config.Config, log *zap.Logger) *scrape.Scraper {
	policy := newPolicy(cfg)
	fallback := scrape.NewHTTPScraper(cfg.Scrape.HTTPTimeout, policy, log)
	var primary scrape.Primary
	if cfg.Scrape.Browser {
		primary = scrape.NewBrowserScraper(scrape.BrowserConfig{
			Headless:   cfg.Scrape.Headless,
			Bin:        cfg.Scrape.BrowserBin,
			NavTimeout: cfg.Scrape.NavTimeout,
		}, policy, log)
	}
	return scrape.New(primary, fallback, log)
}

func newDispatcher(cfg config.Config, log *zap.Logger) *worker.Dispatcher {
	poster := social.NewPoster(browser.Config{
		Headless:  cfg.Scrape.Headless,
		Bin:       cfg.Scrape.BrowserBin,
		UserAgent: newPolicy(cfg).UserAgent,
	}, social.DefaultSelectors(), log)

	d := worker.NewDispatcher(log)
	d.Handle(action.TypeScrapeURL, worker.ScrapeHandler(newScraper(cfg, log)))
	d.Handle(action.TypePostTweet, worker.PostHandler(poster, social.Credentials{
		Username: cfg.Social.Username,
		Password: cfg.Social.Password,
	}))
	return d
}
