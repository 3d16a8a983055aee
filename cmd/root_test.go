package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"quote", "catalog", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "proposal-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestQuoteCommand_Flags(t *testing.T) {
	flag := quoteCmd.Flags().Lookup("tally")
	require.NotNil(t, flag, "quote command should have --tally flag")
	assert.Equal(t, "false", flag.DefValue)

	flag = quoteCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag, "quote command should have --concurrency flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestCatalogCommand_Flags(t *testing.T) {
	flag := catalogCmd.Flags().Lookup("format")
	require.NotNil(t, flag, "catalog command should have --format flag")
	assert.Equal(t, "yaml", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
