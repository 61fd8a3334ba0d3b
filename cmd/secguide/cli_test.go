package main_test

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/secguide/cmd/secguide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"index", "search", "ask"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_IndexDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"index"})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://security-guidance.service.justice.gov.uk/"}, cli.Index.Seed)
	assert.Equal(t, 5, cli.Index.Depth)
	assert.Equal(t, 2, cli.Index.Concurrency)
	assert.True(t, cli.Index.Robots)
	assert.False(t, cli.Index.Sitemap)
	assert.Equal(t, "security_guidance", cli.Table)
	assert.Equal(t, "sqlite", cli.Store)
}

func TestCLI_IndexFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"--store", "qdrant",
		"index",
		"--seed", "https://a.example/",
		"--seed", "https://b.example/",
		"--allowed-domain", "example",
		"--depth", "0",
		"-c", "4",
		"--no-robots",
		"--sitemap",
	})
	require.NoError(t, err)

	assert.Equal(t, "qdrant", cli.Store)
	assert.Equal(t, []string{"https://a.example/", "https://b.example/"}, cli.Index.Seed)
	assert.Equal(t, []string{"example"}, cli.Index.AllowedDomain)
	assert.Equal(t, 0, cli.Index.Depth)
	assert.Equal(t, 4, cli.Index.Concurrency)
	assert.False(t, cli.Index.Robots)
	assert.True(t, cli.Index.Sitemap)
}

func TestCLI_RejectsUnknownStore(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--store", "postgres", "search", "q"})
	assert.Error(t, err)
}
