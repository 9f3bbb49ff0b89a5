package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0xcro3dile/wikibot-go/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DISCORD_TOKEN", "AI_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "OLLAMA_URL"} {
		t.Setenv(k, "")
	}
}

func TestRootCmd_RefusesToStartWithoutToken(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestRootCmd_RejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "wikibot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discord_token: tok\nai:\n  provider: davinci\n"), 0o600))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"register", "--config", path})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["register"])
	assert.NotNil(t, cmd.Flags().Lookup("sync-commands"))
}

func TestAIMode_Disabled(t *testing.T) {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	mode, err := a.aiMode(context.Background())

	require.NoError(t, err)
	assert.False(t, mode.Enabled())
}

func TestAIMode_OpenAI(t *testing.T) {
	cfg := config.Default()
	cfg.AI.OpenAIKey = "sk-test"
	a := &app{cfg: cfg, logger: zap.NewNop()}

	mode, err := a.aiMode(context.Background())

	require.NoError(t, err)
	assert.True(t, mode.Enabled())
	assert.Equal(t, "openai", mode.Provider())
}
