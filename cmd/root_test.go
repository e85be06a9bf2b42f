package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"scrape", "draw", "run", "config"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "mapscrape", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScrapeCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "delay", "limit", "headful"} {
		assert.NotNil(t, scrapeCmd.Flags().Lookup(name), "scrape should have --%s flag", name)
	}

	flag := scrapeCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestDrawCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "zoom", "fit-bounds"} {
		assert.NotNil(t, drawCmd.Flags().Lookup(name), "draw should have --%s flag", name)
	}
}

func TestRunCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "csv", "output", "delay", "limit", "headful", "zoom", "fit-bounds"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s flag", name)
	}
}
