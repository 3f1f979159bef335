package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingLines(t *testing.T) {
	lines := settingLines(map[string]any{
		"persona": "company",
		"secrets": map[string]any{"openai-key": "sk-live"},
		"social":  map[string]any{"username": "breezy", "password": "hunter2"},
		"llm":     map[string]any{"model": "gpt-4o-mini", "max-tokens": 1000},
	}, "")

	assert.Equal(t, []string{
		"llm.max-tokens: 1000",
		"llm.model: gpt-4o-mini",
		"persona: company",
		"secrets.openai-key: ********",
		"social.password: ********",
		"social.username: breezy",
	}, lines)
}

func TestWorkerArgs(t *testing.T) {
	old := cfgFile
	t.Cleanup(func() { cfgFile = old })

	cfgFile = ""
	assert.Equal(t, []string{"worker"}, workerArgs())
	cfgFile = "/tmp/marketer.yml"
	assert.Equal(t, []string{"--config", "/tmp/marketer.yml", "worker"}, workerArgs())
}
