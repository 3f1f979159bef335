package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/session"
)

func newStore(t *testing.T, times ...time.Time) *Store {
	s := NewStore(t.TempDir())
	s.now = func() time.Time {
		now := times[0]
		if len(times) > 1 {
			times = times[1:]
		}
		return now
	}
	return s
}

func conversation() *session.Session {
	sess := session.New("company")
	sess.AddTurn("Summarize https://example.com for me", "Want me to read it?",
		&action.Descriptor{Type: action.TypeScrapeURL, Params: action.Params{"url": "https://example.com"}})
	sess.Resolve(action.Result{Status: action.StatusOK, Title: "Example Domain", Method: action.MethodHTTP})
	sess.AddTurn("thanks", "Anytime.", nil)
	return sess
}

func TestSave_WritesMarkdownAndIndex(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	s := newStore(t, at)
	sess := conversation()

	e, err := s.Save(sess, "Example Domain Summary!", "SYSTEM PROMPT")
	require.NoError(t, err)
	assert.Equal(t, at.Format(TimeFormat)+".example-domain-summary.md", e.File)
	assert.Equal(t, sess.ID, e.ID)
	assert.Equal(t, "company", e.Persona)
	assert.Equal(t, 4, e.Messages)

	b, err := os.ReadFile(s.Path(e))
	require.NoError(t, err)
	md := string(b)
	assert.True(t, strings.HasPrefix(md, "# example-domain-summary\n\n"+at.Format(TimeFormat)))
	assert.Contains(t, md, "\n\n## chat conversation\n\nuser:\nSummarize https://example.com for me\n\n")
	assert.Contains(t, md, "proposed action: scrape_url(url=https://example.com)")
	assert.Contains(t, md, "action result:\nstatus: ok (via http)")
	assert.True(t, strings.HasSuffix(md, "## system\n\nSYSTEM PROMPT"))

	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.File, list[0].File)
	assert.True(t, at.Equal(list[0].Timestamp))
}

func TestList_NewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	s := newStore(t, base, base.Add(time.Minute), base.Add(2*time.Minute))

	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Save(session.New("company"), title, "")
		require.NoError(t, err)
	}

	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)

	limited, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, s.Path(list[0]), latest)
}

func TestLatest_WithoutIndex(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNoTranscripts)

	older := filepath.Join(s.Dir(), "a.md")
	newer := filepath.Join(s.Dir(), "b.md")
	require.NoError(t, os.WriteFile(older, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("new"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}

func TestLatest_MissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNoTranscripts)
}

func TestSearch(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	s := newStore(t, base, base.Add(time.Minute))

	_, err := s.Save(conversation(), "scrape", "")
	require.NoError(t, err)
	sess := session.New("personal")
	sess.AddTurn("draft a post about EXAMPLE launches", "Here is a draft.", nil)
	_, err = s.Save(sess, "draft", "")
	require.NoError(t, err)

	hits, err := s.Search("example", false)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Contains(t, hits[0].File, ".draft.md")
	assert.Equal(t, "draft a post about EXAMPLE launches", hits[0].Text)
	assert.Greater(t, hits[0].Line, 1)

	exact, err := s.Search("EXAMPLE", true)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Contains(t, exact[0].File, ".draft.md")

	none, err := s.Search("nothing like this", false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "spring-launch-tweets", Slug("  Spring Launch -- Tweets! "))
	assert.Equal(t, "unknown-topic", Slug(""))
	assert.Equal(t, "unknown-topic", Slug("!!!"))
	assert.Equal(t, "already-a-slug", Slug("already-a-slug"))
	assert.LessOrEqual(t, len(Slug(strings.Repeat("word ", 30))), 50)
}
