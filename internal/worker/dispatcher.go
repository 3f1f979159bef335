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

// Package worker is the one-shot action executor: one descriptor in, one
// result line out.
package worker

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"zr3/marketer/internal/action"
)

// Handler executes one action. Failures are expressed as error records.
type Handler func(ctx context.Context, params action.Params) action.Result

type Dispatcher struct {
	handlers map[action.Type]Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{handlers: make(map[action.Type]Handler), log: log}
}

// Handle registers h for t, replacing any previous handler.
func (d *Dispatcher) Handle(t action.Type, h Handler) {
	d.handlers[t] = h
}

// Dispatch always returns a record, including when the handler panics.
func (d *Dispatcher) Dispatch(ctx context.Context, desc action.Descriptor) (res action.Result) {
	h, ok := d.handlers[desc.Type]
	if !ok {
		d.log.Warn("unknown action", zap.String("type", string(desc.Type)))
		return action.Errorf("Unknown action")
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("action panicked", zap.String("type", string(desc.Type)), zap.Any("panic", r))
			res = action.Errorf("%s failed: %v", desc.Type, r)
		}
	}()

	d.log.Debug("dispatching", zap.String("type", string(desc.Type)))
	return h(ctx, desc.Params)
}

// Run decodes raw, dispatches it and prints the record as one line to out.
// A malformed descriptor is returned as an error and nothing is printed.
func Run(ctx context.Context, d *Dispatcher, raw string, out io.Writer) error {
	desc, err := action.Decode(raw)
	if err != nil {
		return err
	}
	res := d.Dispatch(ctx, desc)
	if err := res.WriteLine(out); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
