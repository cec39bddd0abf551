package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "palace", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	expected := []string{"remember", "recall", "list", "forget", "reindex", "status", "config"}

	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, names[name], "missing subcommand %q", name)
	}
}

func TestRememberCmd_Structure(t *testing.T) {
	assert.Equal(t, "remember <title>", rememberCmd.Use)
	assert.NotNil(t, rememberCmd.RunE)

	require.NotNil(t, rememberCmd.Flags().Lookup("content"))
	assert.Equal(t, "c", rememberCmd.Flags().Lookup("content").Shorthand)
	require.NotNil(t, rememberCmd.Flags().Lookup("tags"))
	require.NotNil(t, rememberCmd.Flags().Lookup("stdin"))
}

func TestRememberCmd_ArgsValidation(t *testing.T) {
	validator := cobra.ExactArgs(1)

	assert.Error(t, validator(rememberCmd, []string{}))
	assert.NoError(t, validator(rememberCmd, []string{"a title"}))
	assert.Error(t, validator(rememberCmd, []string{"one", "two"}))
}

func TestRecallCmd_Structure(t *testing.T) {
	assert.Equal(t, "recall <query>", recallCmd.Use)
	assert.NotNil(t, recallCmd.RunE)

	limit := recallCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
	require.NotNil(t, recallCmd.Flags().Lookup("keyword-only"))
}

func TestForgetCmd_ForceFlag(t *testing.T) {
	flag := forgetCmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestConfigCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range configCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["get"])
	assert.True(t, names["set"])
	assert.True(t, names["list"])
}

func TestDisplayValue_RedactsAPIKey(t *testing.T) {
	assert.Equal(t, "sk-1****3456", displayValue("openai_api_key", "sk-1289123456"))
	assert.Equal(t, "********", displayValue("openai_api_key", "shortkey"))
	assert.Equal(t, "", displayValue("openai_api_key", ""))

	// Non-secret keys pass through untouched.
	assert.Equal(t, "openai", displayValue("embedding_provider", "openai"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short text", summarize("short   text", 120))
	assert.Equal(t, "multi line flattened", summarize("multi\nline\nflattened", 120))

	long := summarize("word word word word word", 9)
	assert.Equal(t, "word word…", long)
}

func TestFormatTimeSince(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", formatTimeSince(now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", formatTimeSince(now.Add(-90*time.Second)))
	assert.Equal(t, "2 hours ago", formatTimeSince(now.Add(-2*time.Hour)))
	assert.Equal(t, "3 days ago", formatTimeSince(now.Add(-72*time.Hour)))
	assert.Equal(t, "2020-01-15", formatTimeSince(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)))
}
