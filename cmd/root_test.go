package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normaudit/insight-cli/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"analyze", "report", "features", "action", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "insight-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("input")
	require.NotNil(t, flag, "analyze command should have --input flag")

	xlsxFlag := analyzeCmd.Flags().Lookup("xlsx")
	require.NotNil(t, xlsxFlag, "analyze command should have --xlsx flag")
}

func TestReportCommand_Flags(t *testing.T) {
	flag := reportCmd.Flags().Lookup("input")
	require.NotNil(t, flag, "report command should have --input flag")
}

func TestActionCommand_Flags(t *testing.T) {
	flag := actionCmd.Flags().Lookup("description")
	require.NotNil(t, flag, "action command should have --description flag")
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestInitEngines(t *testing.T) {
	c, err := config.Load()
	require.NoError(t, err)
	cfg = c

	env, err := initEngines()
	require.NoError(t, err)

	assert.NotNil(t, env.Extractor)
	assert.NotNil(t, env.Plans)
	assert.NotNil(t, env.Reporting)
	assert.NotNil(t, env.Assembler)
	assert.NotNil(t, env.ActionPlan)
}

func TestInitEngines_BadLexiconPath(t *testing.T) {
	c, err := config.Load()
	require.NoError(t, err)
	c.Linguistic.LexiconPath = "/nonexistent/lexicons.yaml"
	cfg = c

	_, err = initEngines()
	assert.Error(t, err)
}
