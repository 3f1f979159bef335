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
package persona

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yamlv3"
)

// Registry is the set of bundles available to switch between.
type Registry struct {
	bundles map[string]Bundle
}

// NewRegistry starts with the company and personal bundles.
func NewRegistry() *Registry {
	r := &Registry{bundles: make(map[string]Bundle)}
	r.Add(Company())
	r.Add(Personal())
	return r
}

// Add registers b, replacing a bundle of the same name.
func (r *Registry) Add(b Bundle) {
	r.bundles[b.Name] = b
}

func (r *Registry) Get(name string) (Bundle, error) {
	b, ok := r.bundles[name]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownPersona, name)
	}
	return b, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bundles))
	for n := range r.bundles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type fileBundle struct {
	Name             string  `mapstructure:"name"`
	Style            string  `mapstructure:"style"`
	User             []Field `mapstructure:"user"`
	Context          []Field `mapstructure:"context"`
	Instructions     string  `mapstructure:"instructions"`
	InstructionsFile string  `mapstructure:"instructions-file"`
}

// LoadFile adds the bundles listed under "personas" in a YAML file. A missing
// file is not an error. A relative instructions-file is resolved against the
// file's directory.
//
//	personas:
//	  - name: acme
//	    style: company
//	    user:
//	      - {key: name, value: Acme Rockets}
//	    context:
//	      - {key: products, values: [rockets, anvils]}
func (r *Registry) LoadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	c := config.New("personas")
	c.AddDriver(yamlv3.Driver)
	if err := c.LoadFiles(path); err != nil {
		return fmt.Errorf("load personas %s: %w", path, err)
	}
	if !c.Exists("personas") {
		return nil
	}
	var list []fileBundle
	if err := c.BindStruct("personas", &list); err != nil {
		return fmt.Errorf("parse personas %s: %w", path, err)
	}

	for i, fb := range list {
		if fb.Name == "" {
			return fmt.Errorf("persona #%d in %s has no name", i+1, path)
		}
		style := Style(fb.Style)
		if style == "" {
			style = StyleCompany
		}
		if style != StyleCompany && style != StylePersonal {
			return fmt.Errorf("persona %q: unknown style %q", fb.Name, fb.Style)
		}
		b := Bundle{
			Name:         fb.Name,
			Style:        style,
			User:         fb.User,
			Context:      fb.Context,
			Instructions: fb.Instructions,
		}
		if fb.InstructionsFile != "" {
			file := fb.InstructionsFile
			if !filepath.IsAbs(file) {
				file = filepath.Join(filepath.Dir(path), file)
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("persona %q: instructions could not be read: %w", fb.Name, err)
			}
			b.Instructions = string(content)
		}
		r.Add(b)
	}
	return nil
}
