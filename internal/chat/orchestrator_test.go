package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"zr3/marketer/internal/action"
	"zr3/marketer/internal/persona"
)

type call struct {
	system  string
	history []openai.ChatCompletionMessage
	prompt  string
}

type fakeLLM struct {
	replies []string
	err     error
	calls   []call
	// scrapesAtCall records how many scrapes had happened when each call began.
	scrapesAtCall []int
	scraper       *fakeScraper
}

func (f *fakeLLM) Complete(ctx context.Context, system string, history []openai.ChatCompletionMessage, prompt string) (string, error) {
	f.calls = append(f.calls, call{system: system, history: history, prompt: prompt})
	if f.scraper != nil {
		f.scrapesAtCall = append(f.scrapesAtCall, len(f.scraper.urls))
	}
	if f.err != nil {
		return "", f.err
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type fakeScraper struct {
	urls []string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) action.Result {
	f.urls = append(f.urls, url)
	return action.Result{
		Status:  action.StatusOK,
		Title:   "Title of " + url,
		Content: "Body of " + url,
		URL:     url,
		Method:  action.MethodHTTP,
	}
}

type fakeRunner struct {
	runs []action.Descriptor
	res  action.Result
	err  error
}

func (f *fakeRunner) Run(ctx context.Context, desc action.Descriptor) (action.Result, error) {
	f.runs = append(f.runs, desc)
	return f.res, f.err
}

func newOrchestrator(t *testing.T, l *fakeLLM, s *fakeScraper, r *fakeRunner) *Orchestrator {
	l.scraper = s
	return New(l, s, r, persona.Company(), 10, zaptest.NewLogger(t))
}

const proposeScrape = `{"reply":"Want me to read that page?","action":{"type":"scrape_url","params":{"url":"https://example.com"}}}`

func TestSend_PlainReply(t *testing.T) {
	l := &fakeLLM{replies: []string{`{"reply":"Hello Breezy","action":null}`}}
	o := newOrchestrator(t, l, &fakeScraper{}, &fakeRunner{})

	turn, err := o.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello Breezy", turn.Reply)
	assert.True(t, turn.Structured)
	assert.Nil(t, turn.Action)

	require.Len(t, l.calls, 1)
	assert.Equal(t, persona.SystemPrompt(persona.Company()), l.calls[0].system)
	assert.Equal(t, "hi", l.calls[0].prompt)
	assert.Empty(t, l.calls[0].history)
}

func TestSend_ScrapesEveryURLInOrderBeforeTheModel(t *testing.T) {
	s := &fakeScraper{}
	l := &fakeLLM{replies: []string{`{"reply":"Compared.","action":null}`}}
	o := newOrchestrator(t, l, s, &fakeRunner{})

	text := "Compare https://b.example/pricing and https://a.example, then https://b.example/pricing again."
	turn, err := o.Send(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://b.example/pricing", "https://a.example"}, s.urls)
	assert.Equal(t, []int{2}, l.scrapesAtCall)
	require.Len(t, turn.Scraped, 2)

	prompt := l.calls[0].prompt
	assert.True(t, strings.HasPrefix(prompt, text))
	first := strings.Index(prompt, "--- SCRAPED CONTENT FROM https://b.example/pricing ---")
	second := strings.Index(prompt, "--- SCRAPED CONTENT FROM https://a.example ---")
	require.Greater(t, first, 0)
	require.Greater(t, second, first)
	assert.Equal(t, 2, strings.Count(prompt, "--- END SCRAPED CONTENT ---"))
	assert.Contains(t, prompt, "title: Title of https://a.example")
	assert.Contains(t, prompt, "Body of https://a.example")

	msgs := o.Session().Messages()
	assert.Equal(t, text, msgs[0].Content)
	assert.Equal(t, text, o.Session().History(0)[0].Content)
	assert.NotContains(t, msgs[0].Content, "SCRAPED CONTENT")
}

func TestSend_NonJSONReplyIsShown(t *testing.T) {
	l := &fakeLLM{replies: []string{"Here are three launch ideas."}}
	o := newOrchestrator(t, l, &fakeScraper{}, &fakeRunner{})

	turn, err := o.Send(context.Background(), "ideas?")
	require.NoError(t, err)
	assert.Equal(t, "Here are three launch ideas.", turn.Reply)
	assert.False(t, turn.Structured)
	assert.Nil(t, turn.Action)
	_, ok := o.Pending()
	assert.False(t, ok)
}

func TestSend_LLMErrorLeavesSessionUntouched(t *testing.T) {
	l := &fakeLLM{replies: []string{proposeScrape}}
	r := &fakeRunner{res: action.Result{Status: action.StatusOK, Title: "Example Domain"}}
	o := newOrchestrator(t, l, &fakeScraper{}, r)

	_, err := o.Send(context.Background(), "read example.com")
	require.NoError(t, err)
	_, err = o.Confirm(context.Background())
	require.NoError(t, err)

	l.err = errors.New("429 rate limit")
	_, err = o.Send(context.Background(), "and now?")
	require.Error(t, err)
	assert.Equal(t, 2, o.Session().Len())

	// the unconsumed result is still offered to the next successful turn
	l.err = nil
	l.replies = []string{`{"reply":"It is a placeholder domain.","action":null}`}
	_, err = o.Send(context.Background(), "and now?")
	require.NoError(t, err)
	assert.Contains(t, l.calls[2].prompt, "--- PREVIOUS ACTION RESULT ---")
	assert.Contains(t, l.calls[2].prompt, "title: Example Domain")
}

func TestConfirm_RunsPendingAndInjectsResultOnce(t *testing.T) {
	l := &fakeLLM{replies: []string{
		proposeScrape,
		`{"reply":"Summarized.","action":null}`,
		`{"reply":"Anything else?","action":null}`,
	}}
	r := &fakeRunner{res: action.Result{Status: action.StatusOK, Title: "Example Domain", Content: "This domain is for use in examples."}}
	o := newOrchestrator(t, l, &fakeScraper{}, r)

	turn, err := o.Send(context.Background(), "what is on example dot com")
	require.NoError(t, err)
	require.NotNil(t, turn.Action)
	assert.Equal(t, action.TypeScrapeURL, turn.Action.Type)
	assert.Empty(t, r.runs, "nothing runs before confirmation")

	res, err := o.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Example Domain", res.Title)
	require.Len(t, r.runs, 1)
	assert.Equal(t, "https://example.com", r.runs[0].Params["url"])

	msgs := o.Session().Messages()
	require.NotNil(t, msgs[1].Result)
	assert.Equal(t, "Example Domain", msgs[1].Result.Title)

	_, err = o.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingAction)

	_, err = o.Send(context.Background(), "summarize it")
	require.NoError(t, err)
	assert.Contains(t, l.calls[1].prompt, "--- PREVIOUS ACTION RESULT ---")
	assert.Contains(t, l.calls[1].prompt, "This domain is for use in examples.")
	assert.Equal(t, "summarize it", o.Session().History(0)[2].Content)

	_, err = o.Send(context.Background(), "thanks")
	require.NoError(t, err)
	assert.Equal(t, "thanks", l.calls[2].prompt)
}

func TestConfirm_RunnerFailureBecomesErrorResult(t *testing.T) {
	l := &fakeLLM{replies: []string{proposeScrape}}
	r := &fakeRunner{err: errors.New("worker timed out, the site may be protected or slow to respond")}
	o := newOrchestrator(t, l, &fakeScraper{}, r)

	_, err := o.Send(context.Background(), "read it")
	require.NoError(t, err)

	res, err := o.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, action.StatusError, res.Status)
	assert.Contains(t, res.Msg, "timed out")
	assert.Equal(t, action.StatusError, o.Session().Messages()[1].Result.Status)
}

func TestSkip_RunsNothing(t *testing.T) {
	l := &fakeLLM{replies: []string{proposeScrape, `{"reply":"ok","action":null}`}}
	r := &fakeRunner{}
	o := newOrchestrator(t, l, &fakeScraper{}, r)

	_, err := o.Send(context.Background(), "read it")
	require.NoError(t, err)
	require.NoError(t, o.Skip())

	assert.Empty(t, r.runs)
	assert.Nil(t, o.Session().Messages()[1].Result)
	assert.ErrorIs(t, o.Skip(), ErrNoPendingAction)
	_, err = o.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingAction)

	_, err = o.Send(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, "next", l.calls[1].prompt)
}

func TestSend_HistoryWindow(t *testing.T) {
	var replies []string
	for i := 0; i < 7; i++ {
		replies = append(replies, `{"reply":"r","action":null}`)
	}
	l := &fakeLLM{replies: replies}
	o := newOrchestrator(t, l, &fakeScraper{}, &fakeRunner{})

	for i := 0; i < 7; i++ {
		_, err := o.Send(context.Background(), "q")
		require.NoError(t, err)
	}
	assert.Len(t, l.calls[5].history, 10)
	assert.Len(t, l.calls[6].history, 10)
	assert.Len(t, l.calls[2].history, 4)
}

func TestSwitchPersonaAndReset(t *testing.T) {
	l := &fakeLLM{replies: []string{proposeScrape, `{"reply":"hey","action":null}`}}
	o := newOrchestrator(t, l, &fakeScraper{}, &fakeRunner{})

	_, err := o.Send(context.Background(), "read it")
	require.NoError(t, err)
	id := o.Session().ID

	o.SwitchPersona(persona.Personal())
	assert.Equal(t, "personal", o.Persona().Name)
	assert.Zero(t, o.Session().Len())
	assert.NotEqual(t, id, o.Session().ID)
	_, ok := o.Pending()
	assert.False(t, ok)

	_, err = o.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Contains(t, l.calls[1].system, "Personal Brand Context:")
	assert.Empty(t, l.calls[1].history)

	o.Reset()
	assert.Zero(t, o.Session().Len())
	assert.Equal(t, "personal", o.Session().Persona)
}

func TestDetectURLs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"no links here", nil},
		{"Summarize https://example.com for me", []string{"https://example.com"}},
		{"see (https://a.example/x) and http://b.example.", []string{"https://a.example/x", "http://b.example"}},
		{`<a href="https://c.example/page?q=1">`, []string{"https://c.example/page?q=1"}},
		{"ftp://nope.example and https://dup.example https://dup.example!", []string{"https://dup.example"}},
		{"read https://en.wikipedia.org/wiki/Go_(programming_language).", []string{"https://en.wikipedia.org/wiki/Go_(programming_language)"}},
		{"(see https://en.wikipedia.org/wiki/Go_(programming_language))", []string{"https://en.wikipedia.org/wiki/Go_(programming_language)"}},
		{"https://a.example/x),", []string{"https://a.example/x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectURLs(tt.in), tt.in)
	}
}
