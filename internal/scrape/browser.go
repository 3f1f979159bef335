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
package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zr3/marketer/internal/browser"
)

// BrowserConfig bounds the primary path.
type BrowserConfig struct {
	Headless   bool
	Bin        string
	NavTimeout time.Duration
}

// BrowserScraper is the primary path: a fresh stealth browser per call.
type BrowserScraper struct {
	cfg    BrowserConfig
	policy Policy
	log    *zap.Logger
}

func NewBrowserScraper(cfg BrowserConfig, policy Policy, log *zap.Logger) *BrowserScraper {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	return &BrowserScraper{cfg: cfg, policy: policy, log: log.Named("browser")}
}

// Scrape returns the page title and extracted content. Panics from the
// automation library are reported as errors.
func (s *BrowserScraper) Scrape(ctx context.Context, url string) (title, content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser automation panicked: %v", r)
		}
	}()

	// navigation plus every challenge wait
	budget := s.cfg.NavTimeout + time.Duration(s.policy.ChallengeRechecks+1)*s.policy.ChallengeWait
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	session, err := browser.Open(ctx, browser.Config{
		Headless:  s.cfg.Headless,
		Bin:       s.cfg.Bin,
		UserAgent: s.policy.UserAgent,
	}, s.log)
	if err != nil {
		return "", "", err
	}
	defer session.Close()

	s.log.Debug("navigating", zap.String("url", url))
	if err := session.Navigate(ctx, url, s.cfg.NavTimeout); err != nil {
		return "", "", err
	}

	return s.policy.Extract(ctx, session.View(ctx))
}
