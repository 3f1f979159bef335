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

// Package runner executes actions in a separate worker process so automation
// crashes never take the chat process down.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"zr3/marketer/internal/action"
)

var ErrTimeout = errors.New("timed out, the site may be protected or slow to respond")

// CommandFunc builds the worker command for one serialized descriptor.
type CommandFunc func(ctx context.Context, payload string) *exec.Cmd

// SelfCommand runs `exe args... payload`, normally the current binary with "worker".
func SelfCommand(exe string, args ...string) CommandFunc {
	return func(ctx context.Context, payload string) *exec.Cmd {
		argv := append(append([]string{}, args...), payload)
		return exec.CommandContext(ctx, exe, argv...)
	}
}

type Runner struct {
	command CommandFunc
	timeout time.Duration
	log     *zap.Logger
}

func New(command CommandFunc, timeout time.Duration, log *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Runner{command: command, timeout: timeout, log: log.Named("runner")}
}

// Run executes desc in a fresh worker process under the wall-clock timeout.
// Output from a timed-out worker is discarded.
func (r *Runner) Run(ctx context.Context, desc action.Descriptor) (action.Result, error) {
	payload, err := desc.Encode()
	if err != nil {
		return action.Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.command(ctx, payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// the worker's browser children may hold the pipes open after a kill
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err = cmd.Run()
	r.log.Debug("worker finished",
		zap.String("type", string(desc.Type)),
		zap.Duration("took", time.Since(start)),
		zap.String("stderr", tail(stderr.String(), 2000)),
	)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return action.Result{}, fmt.Errorf("worker %w (limit %s)", ErrTimeout, r.timeout)
	}
	if err != nil {
		return action.Result{}, fmt.Errorf("worker failed: %w: %s", err, lastLine(stderr.String()))
	}
	return action.ParseResult(stdout.String())
}

// Scrape runs scrape_url through the worker and folds runner failures into an
// error record, so it can stand in wherever a URL scraper is expected.
func (r *Runner) Scrape(ctx context.Context, url string) action.Result {
	res, err := r.Run(ctx, action.Descriptor{
		Type:   action.TypeScrapeURL,
		Params: action.Params{"url": url},
	})
	if err != nil {
		return action.Result{Status: action.StatusError, Content: err.Error(), URL: url}
	}
	return res
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
