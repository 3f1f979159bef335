package social

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"zr3/marketer/internal/browser"
)

func TestDefaultSelectors(t *testing.T) {
	s := DefaultSelectors()
	for name, v := range map[string]string{
		"login url":    s.LoginURL,
		"username":     s.Username,
		"password":     s.Password,
		"login button": s.LoginButton,
		"compose url":  s.ComposeURL,
		"compose":      s.Compose,
		"submit":       s.Submit,
	} {
		assert.NotEmpty(t, v, name)
	}
}

func TestPost_BrowserLaunchFailure(t *testing.T) {
	p := NewPoster(browser.Config{
		Headless: true,
		Bin:      filepath.Join(t.TempDir(), "no-such-chromium"),
	}, DefaultSelectors(), zaptest.NewLogger(t))

	err := p.Post(context.Background(), Credentials{Username: "u", Password: "p"}, "hello")
	assert.ErrorContains(t, err, "launch browser")
}
