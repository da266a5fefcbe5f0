package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t   *testing.T
	db  string
	dir string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return cli{t: t, db: filepath.Join(dir, "rollcall.db"), dir: dir}
}

func (c cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--db", c.db, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func (c cli) writeRoster(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportPickAndList(t *testing.T) {
	c := newCLI(t)
	path := c.writeRoster("ia103.json", `["Ali", "Salma", "Ali", "  "]`)

	out, err := c.run("", "import", "IA103", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 students into IA103.\n", out)

	out, err = c.run("", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "*  IA103")

	out, err = c.run("", "pick", "-n", "3", "--mode", "elimination")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"Ali", "Salma"}, []string{
		strings.TrimSpace(strings.TrimPrefix(lines[0], "1.")),
		strings.TrimSpace(strings.TrimPrefix(lines[1], "2.")),
	})
}

func TestGroupsCommand(t *testing.T) {
	c := newCLI(t)
	path := c.writeRoster("roster.txt", "Imane\nYoussef\nMohamed\nAli\nSalma\n")
	_, err := c.run("", "import", "IA104", path)
	require.NoError(t, err)

	out, err := c.run("", "groups", "--size", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Group "))

	_, err = c.run("", "groups")
	require.Error(t, err)
}

func TestDeleteAsks(t *testing.T) {
	c := newCLI(t)
	path := c.writeRoster("roster.txt", "Ali\n")
	_, err := c.run("", "import", "IA103", path)
	require.NoError(t, err)

	out, err := c.run("n\n", "delete", "IA103")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = c.run("y\n", "delete", "IA103")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted IA103.")

	_, err = c.run("", "pick")
	assert.ErrorIs(t, err, errNoProfile)
}

func TestInvalidModeIsRejected(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "profiles", "--mode", "random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--mode")
}

func TestHistoryEmpty(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "history")
	require.NoError(t, err)
	assert.Equal(t, "No sessions found.\n", out)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	ok, err := confirm(strings.NewReader("YES\n"), &out, "Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Delete? [y/N] ", out.String())

	ok, err = confirm(strings.NewReader(""), &out, "Delete?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	var cfg map[string]any
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Contains(t, defaultConfigTemplate(), "[selector]")
}
