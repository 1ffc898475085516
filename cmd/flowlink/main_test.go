package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flowlink/internal/flow/levels"
)

const classicPack = "3,0,1,2;0,1,2;3,4,5,8,7,6\n" +
	"3,0,2,2,4,0_0:2_0:6_0:8_0;1,4,7;3,4,5\n"

type fixture struct {
	dir    string
	levels string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		levels: filepath.Join(dir, "levels"),
		config: filepath.Join(dir, "flowlink.yaml"),
	}
	require.NoError(t, os.MkdirAll(f.levels, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.levels, "classic.txt"), []byte(classicPack), 0o644))

	cfg := "levels_dir: " + f.levels + "\n" +
		"db_path: " + filepath.Join(dir, "flowlink.db") + "\n" +
		"log:\n  level: warn\n  timestamps: false\n" +
		"show:\n  color: never\n  theme: default\n"
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

// run executes the command line and returns stdout.
func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", f.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (f fixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := f.run(t, args...)
	require.NoError(t, err, "flowlink %s", strings.Join(args, " "))
	return out
}

func TestPacksCommand(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "packs")
	assert.Contains(t, out, "classic")
	assert.Contains(t, out, "text")
	assert.Contains(t, out, "3x3")
	assert.Contains(t, out, "1 packs, 2 levels.")
}

func TestShowCommand(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "show", "classic", "1")
	assert.Contains(t, out, "classic 1/2")
	assert.Contains(t, out, "3x3 colors=2 wrap=false complete=false")
	assert.Contains(t, out, "A . A")

	_, err := f.run(t, "show", "classic", "3")
	assert.Error(t, err)
	_, err = f.run(t, "show", "classic", "zero")
	assert.Error(t, err)
	_, err = f.run(t, "show", "missing", "1")
	assert.ErrorContains(t, err, "unknown pack")
	_, err = f.run(t, "show", "classic", "1", "--theme", "sepia")
	assert.Error(t, err)
}

func TestPlayPersistsAndCompletes(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "play", "classic", "1", "pick", "e", "e")
	assert.Contains(t, out, "picked")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "A-a-A")
	assert.NotContains(t, out, "solved")

	// The first path was saved; finish the level.
	out = f.mustRun(t, "play", "classic", "1", "--cursor", "3", "pick", "e,e,s,w,w")
	assert.Contains(t, out, "complete=true")
	assert.Contains(t, out, "Level 1 solved!")

	out = f.mustRun(t, "play", "classic", "1", "-q", "e")
	assert.Contains(t, out, "already completed")
	assert.NotContains(t, out, "moved")

	out = f.mustRun(t, "show", "classic", "1", "--saved")
	assert.Contains(t, out, "complete=true")

	out = f.mustRun(t, "progress")
	assert.Contains(t, out, "1/2")
}

func TestPlayDryRunDoesNotSave(t *testing.T) {
	f := newFixture(t)

	f.mustRun(t, "play", "classic", "1", "--dry-run", "pick", "e", "e")
	out := f.mustRun(t, "show", "classic", "1", "--saved")
	assert.Contains(t, out, "A . A")
}

func TestPlayRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "play", "classic", "1", "jump")
	assert.Error(t, err)
	_, err = f.run(t, "play", "classic", "1", "--cursor", "9", "e")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "validate")
	assert.Contains(t, out, "1 packs OK.")

	require.NoError(t, os.WriteFile(filepath.Join(f.levels, "bad.txt"), []byte("3,0,1,1;0,2\n"), 0o644))
	out, err := f.run(t, "validate")
	assert.ErrorContains(t, err, "validation failed")
	assert.Contains(t, out, "SOLUTION_REPLAY")

	_, err = f.run(t, "validate", "classic")
	assert.NoError(t, err)
}

func TestConvertCommand(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "classic.bin")

	stdout := f.mustRun(t, "convert", filepath.Join(f.levels, "classic.txt"), out)
	assert.Contains(t, stdout, "Wrote 2 levels")

	parsed, format, err := levels.ReadPackFile(out)
	require.NoError(t, err)
	assert.Equal(t, "binary", format)
	assert.Len(t, parsed.Levels, 2)

	_, err = f.run(t, "convert", out, filepath.Join(f.dir, "back.txt"))
	assert.Error(t, err, "text is read-only")

	stdout = f.mustRun(t, "convert", "--formats")
	assert.Contains(t, stdout, "yaml")
	assert.Contains(t, stdout, "read only")
}

func TestSaveCommands(t *testing.T) {
	f := newFixture(t)
	file := filepath.Join(f.dir, "classic.sav")

	_, err := f.run(t, "save", "export", "classic", file)
	assert.Error(t, err, "nothing saved yet")

	f.mustRun(t, "play", "classic", "1", "pick", "e", "e")
	f.mustRun(t, "play", "classic", "1", "--cursor", "3", "pick", "e", "e", "s", "w", "w")
	f.mustRun(t, "save", "export", "classic", file)

	f.mustRun(t, "save", "clear", "classic")
	out := f.mustRun(t, "show", "classic", "1", "--saved")
	assert.Contains(t, out, "complete=false")

	out = f.mustRun(t, "save", "import", "classic", file)
	assert.Contains(t, out, "1/2 levels solved")
	out = f.mustRun(t, "show", "classic", "1", "--saved")
	assert.Contains(t, out, "complete=true")

	require.NoError(t, os.WriteFile(file, []byte{1}, 0o644))
	_, err = f.run(t, "save", "import", "classic", file)
	assert.Error(t, err)
	_, err = f.run(t, "save", "import", "classic", file, "--layout", "sparse")
	assert.Error(t, err)
}

func TestCheckPackFileLogsProblems(t *testing.T) {
	dir := t.TempDir()
	var logs, out bytes.Buffer
	e := &env{logger: log.New(&logs), out: &out}
	loader := levels.NewLoader(dir)

	good := filepath.Join(dir, "classic.txt")
	require.NoError(t, os.WriteFile(good, []byte(classicPack), 0o644))
	checkPackFile(e, loader, good)
	assert.Contains(t, logs.String(), "pack OK")

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("3,0,1,1;0,2\n"), 0o644))
	checkPackFile(e, loader, bad)
	assert.Contains(t, logs.String(), "SOLUTION_REPLAY")

	checkPackFile(e, loader, filepath.Join(dir, "gone.txt"))
	assert.Contains(t, logs.String(), "pack removed")
}
