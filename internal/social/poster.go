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

// Package social posts a status update through a real browser session.
package social

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zr3/marketer/internal/browser"
)

// Selectors locate the login and compose controls. Platforms change these often.
type Selectors struct {
	LoginURL    string
	Username    string
	Password    string
	LoginButton string
	ComposeURL  string
	Compose     string
	Submit      string
}

func DefaultSelectors() Selectors {
	return Selectors{
		LoginURL:    "https://twitter.com/login",
		Username:    `input[name="session[username_or_email]"]`,
		Password:    `input[name="session[password]"]`,
		LoginButton: `div[data-testid="LoginForm_Login_Button"]`,
		ComposeURL:  "https://twitter.com/compose/tweet",
		Compose:     `div[aria-label="Tweet text"]`,
		Submit:      `div[data-testid="tweetButtonInline"]`,
	}
}

type Credentials struct {
	Username string
	Password string
}

// Poster logs in and submits one post per call.
type Poster struct {
	browser   browser.Config
	selectors Selectors
	settle    time.Duration
	navTime   time.Duration
	log       *zap.Logger
}

func NewPoster(cfg browser.Config, selectors Selectors, log *zap.Logger) *Poster {
	return &Poster{
		browser:   cfg,
		selectors: selectors,
		settle:    3 * time.Second,
		navTime:   30 * time.Second,
		log:       log.Named("social"),
	}
}

// Post submits text. Nothing is read back, so a nil error means the submit
// click happened, not that the post is live.
func (p *Poster) Post(ctx context.Context, creds Credentials, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser automation panicked: %v", r)
		}
	}()

	s, err := browser.Open(ctx, p.browser, p.log)
	if err != nil {
		return err
	}
	defer s.Close()

	sel := p.selectors
	if err := s.Navigate(ctx, sel.LoginURL, p.navTime); err != nil {
		return err
	}
	if err := s.Fill(ctx, sel.Username, creds.Username); err != nil {
		return err
	}
	if err := s.Fill(ctx, sel.Password, creds.Password); err != nil {
		return err
	}
	if err := s.Click(ctx, sel.LoginButton); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.settle):
	}

	if err := s.Navigate(ctx, sel.ComposeURL, p.navTime); err != nil {
		return err
	}
	if err := s.Fill(ctx, sel.Compose, text); err != nil {
		return err
	}
	if err := s.Click(ctx, sel.Submit); err != nil {
		return err
	}
	p.log.Info("post submitted", zap.Int("chars", len(text)))
	return nil
}
