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

// Package chat runs conversation turns: URL scraping before the model call,
// the model call itself and the confirm-or-skip gate for proposed actions.
package chat

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/llm"
	"zr3/marketer/internal/persona"
	"zr3/marketer/internal/session"
)

var ErrNoPendingAction = errors.New("no action is waiting for confirmation")

type Completer interface {
	Complete(ctx context.Context, system string, history []openai.ChatCompletionMessage, prompt string) (string, error)
}

type URLScraper interface {
	Scrape(ctx context.Context, url string) action.Result
}

type ActionRunner interface {
	Run(ctx context.Context, desc action.Descriptor) (action.Result, error)
}

// Turn is what one Send produced.
type Turn struct {
	Reply  string
	Action *action.Descriptor
	// Scraped holds the records for the URLs found in the input, in order.
	Scraped []action.Result
	// Structured is false when the model did not answer with an envelope.
	Structured bool
}

type Orchestrator struct {
	llm     Completer
	scraper URLScraper
	runner  ActionRunner
	window  int
	log     *zap.Logger

	persona persona.Bundle
	system  string
	session *session.Session
}

func New(llm Completer, scraper URLScraper, runner ActionRunner, p persona.Bundle, window int, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		llm:     llm,
		scraper: scraper,
		runner:  runner,
		window:  window,
		log:     log.Named("chat"),
		persona: p,
		system:  persona.SystemPrompt(p),
		session: session.New(p.Name),
	}
}

func (o *Orchestrator) Session() *session.Session { return o.session }

func (o *Orchestrator) Persona() persona.Bundle { return o.persona }

func (o *Orchestrator) SystemPrompt() string { return o.system }

// Send runs one turn. Every URL in text is scraped, one after another, before
// the model is called. If the model call fails the session is left as it was.
func (o *Orchestrator) Send(ctx context.Context, text string) (Turn, error) {
	var turn Turn
	var pages []scraped
	for _, u := range DetectURLs(text) {
		o.log.Info("scraping", zap.String("url", u))
		res := o.scraper.Scrape(ctx, u)
		if res.Failed() {
			o.log.Warn("scrape failed", zap.String("url", u), zap.String("content", res.Content), zap.String("msg", res.Msg))
		}
		pages = append(pages, scraped{url: u, result: res})
		turn.Scraped = append(turn.Scraped, res)
	}

	var previous *action.Result
	if res, ok := o.session.PeekResult(); ok {
		previous = &res
	}

	prompt := buildPrompt(text, pages, previous)
	raw, err := o.llm.Complete(ctx, o.system, o.session.History(o.window), prompt)
	if err != nil {
		return Turn{Scraped: turn.Scraped}, err
	}

	env, ok := llm.ParseEnvelope(raw)
	turn.Structured = ok
	turn.Reply = env.Reply
	turn.Action = env.Action
	if turn.Reply == "" && turn.Action == nil {
		turn.Reply = raw
	}
	o.session.AddTurn(text, turn.Reply, turn.Action)
	if previous != nil {
		o.session.TakeResult()
	}
	if turn.Action != nil {
		o.log.Info("action proposed", zap.Stringer("action", turn.Action))
	}
	return turn, nil
}

// Pending is the proposed action awaiting Confirm or Skip.
func (o *Orchestrator) Pending() (action.Descriptor, bool) {
	return o.session.Pending()
}

// Confirm executes the pending action in the worker. A runner failure is
// recorded as an error result and also returned.
func (o *Orchestrator) Confirm(ctx context.Context) (action.Result, error) {
	desc, ok := o.session.Pending()
	if !ok {
		return action.Result{}, ErrNoPendingAction
	}
	o.log.Info("running action", zap.Stringer("action", desc))
	res, err := o.runner.Run(ctx, desc)
	if err != nil {
		res = action.Errorf("%v", err)
	}
	o.session.Resolve(res)
	return res, err
}

// Skip drops the pending action. Nothing is executed.
func (o *Orchestrator) Skip() error {
	if _, ok := o.session.Pending(); !ok {
		return ErrNoPendingAction
	}
	o.session.Skip()
	return nil
}

// SwitchPersona starts a new conversation under p.
func (o *Orchestrator) SwitchPersona(p persona.Bundle) {
	o.persona = p
	o.system = persona.SystemPrompt(p)
	o.session.Reset(p.Name)
}

// Reset clears the conversation and keeps the persona.
func (o *Orchestrator) Reset() {
	o.session.Reset(o.persona.Name)
}
