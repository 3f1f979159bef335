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

	"go.uber.org/zap"

	"zr3/marketer/internal/action"
)

// Primary is the browser-driven attempt.
type Primary interface {
	Scrape(ctx context.Context, url string) (title, content string, err error)
}

// Fallback is the attempt that always produces a record.
type Fallback interface {
	Scrape(ctx context.Context, url string) action.Result
}

// Scraper tries the primary path once and hands over to the fallback on any failure.
type Scraper struct {
	primary  Primary
	fallback Fallback
	log      *zap.Logger
}

// New composes the two paths. primary may be nil, in which case only the
// fallback runs.
func New(primary Primary, fallback Fallback, log *zap.Logger) *Scraper {
	return &Scraper{primary: primary, fallback: fallback, log: log}
}

func (s *Scraper) Scrape(ctx context.Context, url string) action.Result {
	if s.primary != nil {
		title, content, err := s.primary.Scrape(ctx, url)
		if err == nil {
			return action.Result{
				Status:  action.StatusOK,
				Title:   title,
				Content: content,
				URL:     url,
				Method:  action.MethodBrowser,
			}
		}
		s.log.Warn("browser scrape failed, falling back to http", zap.String("url", url), zap.Error(err))
	}
	return s.fallback.Scrape(ctx, url)
}
