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
package worker

import (
	"context"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/social"
)

type URLScraper interface {
	Scrape(ctx context.Context, url string) action.Result
}

type Poster interface {
	Post(ctx context.Context, creds social.Credentials, text string) error
}

// ScrapeHandler serves scrape_url.
func ScrapeHandler(s URLScraper) Handler {
	return func(ctx context.Context, params action.Params) action.Result {
		url, err := params.String("url")
		if err != nil {
			return action.Errorf("%v", err)
		}
		return s.Scrape(ctx, url)
	}
}

// PostHandler serves post_tweet. Credentials in params win; fallback holds the
// configured ones for when the descriptor carries none.
func PostHandler(p Poster, fallback social.Credentials) Handler {
	return func(ctx context.Context, params action.Params) action.Result {
		text, err := params.String("text")
		if err != nil {
			return action.Errorf("%v", err)
		}
		creds := social.Credentials{
			Username: params.Optional("username"),
			Password: params.Optional("password"),
		}
		if creds.Username == "" {
			creds.Username = fallback.Username
		}
		if creds.Password == "" {
			creds.Password = fallback.Password
		}
		if creds.Username == "" {
			return action.Errorf("%v", &action.MissingParamError{Name: "username"})
		}
		if creds.Password == "" {
			return action.Errorf("%v", &action.MissingParamError{Name: "password"})
		}

		if err := p.Post(ctx, creds, text); err != nil {
			return action.Errorf("post failed: %v", err)
		}
		return action.Result{Status: action.StatusPosted}
	}
}
