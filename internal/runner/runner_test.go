package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"zr3/marketer/internal/action"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// helper re-runs the test binary as a fake worker.
func helper(mode string) CommandFunc {
	return func(ctx context.Context, payload string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess", "--", payload)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	payload := os.Args[len(os.Args)-1]
	desc, err := action.Decode(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad payload:", err)
		os.Exit(2)
	}

	switch os.Getenv("HELPER_MODE") {
	case "ok":
		fmt.Fprintln(os.Stderr, "diagnostic noise")
		fmt.Printf(`{"status":"ok","title":"Example Domain","content":"%s","url":"%s","method":"http"}`+"\n",
			desc.Type, desc.Params.Optional("url"))
	case "sleep":
		time.Sleep(10 * time.Second)
		fmt.Println(`{"status":"ok"}`)
	case "crash":
		fmt.Fprintln(os.Stderr, "panic: browser went away")
		os.Exit(3)
	case "silent":
	}
	os.Exit(0)
}

func TestRun_ParsesRecord(t *testing.T) {
	r := New(helper("ok"), 10*time.Second, zaptest.NewLogger(t))

	res, err := r.Run(context.Background(), action.Descriptor{
		Type:   action.TypeScrapeURL,
		Params: action.Params{"url": "https://example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, action.Result{
		Status:  action.StatusOK,
		Title:   "Example Domain",
		Content: "scrape_url",
		URL:     "https://example.com",
		Method:  action.MethodHTTP,
	}, res)
}

func TestRun_Timeout(t *testing.T) {
	r := New(helper("sleep"), 200*time.Millisecond, zaptest.NewLogger(t))

	start := time.Now()
	res, err := r.Run(context.Background(), action.Descriptor{Type: action.TypeScrapeURL})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, action.Result{}, res)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_Crash(t *testing.T) {
	r := New(helper("crash"), 10*time.Second, zaptest.NewLogger(t))

	_, err := r.Run(context.Background(), action.Descriptor{Type: action.TypePostTweet})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "browser went away")
}

func TestRun_NoOutput(t *testing.T) {
	r := New(helper("silent"), 10*time.Second, zaptest.NewLogger(t))

	_, err := r.Run(context.Background(), action.Descriptor{Type: action.TypeScrapeURL})
	assert.Error(t, err)
}

func TestScrape_TimeoutBecomesRecord(t *testing.T) {
	r := New(helper("sleep"), 200*time.Millisecond, zaptest.NewLogger(t))

	res := r.Scrape(context.Background(), "https://slow.example")
	assert.Equal(t, action.StatusError, res.Status)
	assert.Equal(t, "https://slow.example", res.URL)
	assert.Contains(t, res.Content, "timed out")
}

func TestSelfCommand(t *testing.T) {
	cmd := SelfCommand("/usr/local/bin/marketer", "worker")(context.Background(), `{"type":"x"}`)
	assert.Equal(t, []string{"/usr/local/bin/marketer", "worker", `{"type":"x"}`}, cmd.Args)
}
