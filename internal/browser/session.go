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

// Package browser launches a throwaway stealth Chromium for a single action.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// Config controls how the browser is launched.
type Config struct {
	Headless  bool
	Bin       string
	UserAgent string
	Width     int
	Height    int
	// OpTimeout bounds each individual page operation (eval, element lookup).
	OpTimeout time.Duration
}

func (c Config) size() (int, int) {
	w, h := c.Width, c.Height
	if w == 0 {
		w = 1920
	}
	if h == 0 {
		h = 1080
	}
	return w, h
}

func (c Config) opTimeout() time.Duration {
	if c.OpTimeout <= 0 {
		return 10 * time.Second
	}
	return c.OpTimeout
}

// Session owns one browser process and its single stealth page. It is created
// and torn down within one action.
type Session struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *zap.Logger
}

// closeTimeout bounds the BrowserClose call during teardown.
const closeTimeout = 5 * time.Second

// Open launches Chromium with automation flags stripped and opens a stealth page.
// ctx bounds the setup calls only. The browser connection outlives it so Close
// can still reach Chromium after ctx has expired; callers bound page work
// through the contexts they pass to Navigate, Fill, Click and View.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*Session, error) {
	w, h := cfg.size()

	l := launcher.New().
		Leakless(true).
		Headless(cfg.Headless).
		Delete(flags.Flag("enable-automation")).
		Set(flags.Flag("disable-blink-features"), "AutomationControlled").
		Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", w, h))
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(context.WithoutCancel(ctx))
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	s := &Session{cfg: cfg, launcher: l, browser: b, log: log}

	page, err := stealth.Page(b.Context(ctx))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open stealth page: %w", err)
	}
	s.page = page.Context(b.GetContext())
	page = s.page.Context(ctx)

	if cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			s.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if _, err := page.EvalOnNewDocument(MaskAutomationScript); err != nil {
		s.Close()
		return nil, fmt.Errorf("inject init script: %w", err)
	}

	scale := 1.0
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  w,
		Height: h,
		Scale:  &scale,
		Mobile: false,
	}); err != nil {
		log.Debug("set viewport failed", zap.Error(err))
	}

	return s, nil
}

// Navigate loads url and waits for the network to go almost idle, bounded by timeout.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := s.page.Context(ctx)
	idle := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	idle()

	if ctx.Err() != nil {
		s.log.Debug("network never went idle, continuing with what loaded", zap.String("url", url))
	}
	return nil
}

// Fill types text into the first element matching selector.
func (s *Session) Fill(ctx context.Context, selector, text string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	lookup, cancel := context.WithTimeout(ctx, s.cfg.opTimeout())
	defer cancel()
	el, err := s.page.Context(lookup).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	return el.Context(ctx), nil
}

// View returns the read-only page view used for extraction.
func (s *Session) View(ctx context.Context) *View {
	return &View{ctx: ctx, page: s.page, timeout: s.cfg.opTimeout()}
}

// Close shuts the browser down and removes its profile directory. When
// Chromium does not acknowledge BrowserClose the process is killed, so Close
// always returns.
func (s *Session) Close() {
	closed := false
	if s.browser != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		err := s.browser.Context(ctx).Close()
		cancel()
		if err != nil {
			s.log.Debug("close browser", zap.Error(err))
		} else {
			closed = true
		}
	}
	if s.launcher != nil {
		if !closed {
			s.launcher.Kill()
		}
		s.launcher.Cleanup()
	}
}

// View reads rendered text from the session page, each call bounded by timeout.
type View struct {
	ctx     context.Context
	page    *rod.Page
	timeout time.Duration
}

func (v *View) Title() (string, error) {
	return v.evalString(titleScript)
}

func (v *View) BodyText() (string, error) {
	return v.evalString(bodyTextScript)
}

func (v *View) Texts(selector string) ([]string, error) {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	els, err := v.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		out = append(out, text)
	}
	return out, nil
}

func (v *View) evalString(js string) (string, error) {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	res, err := v.page.Context(ctx).Eval(js)
	if err != nil {
		return "", fmt.Errorf("eval: %w", err)
	}
	return res.Value.Str(), nil
}
