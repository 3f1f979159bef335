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

// Package transcript writes finished conversations as markdown files and keeps
// an index of them for listing, searching and peeking.
package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"zr3/marketer/internal/session"
)

// TimeFormat is the timestamp prefix of every transcript file name.
const TimeFormat = "2006-01-02--15-04-05-MST"

const indexFile = "index.json"

var ErrNoTranscripts = errors.New("no transcripts found")

// Entry is one line of the index.
type Entry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Persona   string    `json:"persona"`
	Messages  int       `json:"messages"`
}

type index struct {
	Chats []Entry `json:"chats"`
}

// Hit is one matching line from Search.
type Hit struct {
	File string
	Line int
	Text string
}

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string { return s.dir }

// Path returns the absolute path of an entry's file.
func (s *Store) Path(e Entry) string {
	return filepath.Join(s.dir, e.File)
}

// Save writes the conversation and puts it at the head of the index.
func (s *Store) Save(sess *session.Session, title, system string) (Entry, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("create log dir: %w", err)
	}
	slug := Slug(title)
	now := s.now().Local()
	entry := Entry{
		ID:        sess.ID,
		File:      now.Format(TimeFormat) + "." + slug + ".md",
		Title:     slug,
		Timestamp: now,
		Persona:   sess.Persona,
		Messages:  sess.Len(),
	}

	if err := os.WriteFile(s.Path(entry), []byte(Render(sess, slug, now, system)), 0o644); err != nil {
		return Entry{}, fmt.Errorf("write transcript: %w", err)
	}

	idx, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	idx.Chats = append([]Entry{entry}, idx.Chats...)
	if err := s.save(idx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns all of them.
func (s *Store) List(limit int) ([]Entry, error) {
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(idx.Chats) > limit {
		return idx.Chats[:limit], nil
	}
	return idx.Chats, nil
}

// Latest returns the path of the newest transcript. Without an index the most
// recently modified markdown file in the directory is used.
func (s *Store) Latest() (string, error) {
	idx, err := s.load()
	if err != nil {
		return "", err
	}
	if len(idx.Chats) > 0 {
		return s.Path(idx.Chats[0]), nil
	}

	var latest string
	var latestTime time.Time
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(latestTime) {
			latest, latestTime = path, info.ModTime()
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("walk log dir: %w", err)
	}
	if latest == "" {
		return "", ErrNoTranscripts
	}
	return latest, nil
}

// Search scans every transcript line by line for query.
func (s *Store) Search(query string, caseSensitive bool) ([]Hit, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.md"))
	if err != nil {
		return nil, err
	}
	// names start with a timestamp, so reverse order is newest first
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if !caseSensitive {
		query = strings.ToLower(query)
	}
	var hits []Hit
	for _, file := range files {
		found, err := searchFile(file, query, caseSensitive)
		if err != nil {
			return nil, err
		}
		hits = append(hits, found...)
	}
	return hits, nil
}

func searchFile(path, query string, caseSensitive bool) ([]Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []Hit
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		hay := line
		if !caseSensitive {
			hay = strings.ToLower(line)
		}
		if strings.Contains(hay, query) {
			hits = append(hits, Hit{File: filepath.Base(path), Line: n, Text: strings.TrimSpace(line)})
		}
	}
	return hits, sc.Err()
}

func (s *Store) load() (index, error) {
	var idx index
	b, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return idx, fmt.Errorf("read index: %w", err)
	}
	if err := json.Unmarshal(b, &idx); err != nil {
		return idx, fmt.Errorf("decode index: %w", err)
	}
	return idx, nil
}

func (s *Store) save(idx index) error {
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), b, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces      = regexp.MustCompile(`[\s-]+`)
)

// Slug turns a model supplied title into a file-safe name.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = unsafeChars.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	if s == "" {
		return "unknown-topic"
	}
	return s
}
