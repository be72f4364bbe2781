package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcard/internal/card"
	"punchcard/internal/cardgen"
	"punchcard/internal/diag"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "punchcard-test")
	if err != nil {
		panic(err)
	}
	defaultConfigPath = func() string { return filepath.Join(dir, "config.json") }
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// writeCard renders prog with default colors and saves it as a PNG.
func writeCard(t *testing.T, prog *card.Program, p card.Params) string {
	t.Helper()
	img, err := cardgen.Render(prog, p, cardgen.DefaultOptions(p.Polarity))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "card.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunDecodes(t *testing.T) {
	prog := cardgen.RandomProgram(8, 10, 3)
	path := writeCard(t, prog, card.DefaultParams())

	code, out, errOut := runCLI(t, path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, prog.String()+"\n", out)
}

func TestRunFlagsOverrideDefaults(t *testing.T) {
	p := card.DefaultParams().WithGrid(5, 7).WithPolarity(card.BrightIsPunched)
	prog := cardgen.RandomProgram(5, 7, 11)
	path := writeCard(t, prog, p)

	code, out, errOut := runCLI(t, "-rows", "5", "-cols", "7", "-polarity", "bright", "-v", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, prog.String()+"\n", out)
	assert.Contains(t, errOut, "weakest cell")
	assert.Contains(t, errOut, "polarity bright")
}

func TestRunConfigFile(t *testing.T) {
	p := card.DefaultParams().WithGrid(4, 6)
	prog := cardgen.RandomProgram(4, 6, 5)
	path := writeCard(t, prog, p)

	cfg := filepath.Join(t.TempDir(), "card.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"rows": 4, "cols": 6}`), 0o644))

	code, out, errOut := runCLI(t, "-config", cfg, path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, prog.String()+"\n", out)
}

func TestRunWritesDiagnostics(t *testing.T) {
	prog := cardgen.RandomProgram(8, 10, 8)
	path := writeCard(t, prog, card.DefaultParams())
	logDir := filepath.Join(t.TempDir(), "log")

	code, _, errOut := runCLI(t, "-log", logDir, "-v", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "diagnostics in "+logDir)

	for _, name := range []string{"input.png", "bw.png", "crop.png", "trim.png", "row-7.png", "cell-7-9.png", diag.LogName} {
		_, err := os.Stat(filepath.Join(logDir, name))
		assert.NoError(t, err, name)
	}
	logText, err := os.ReadFile(filepath.Join(logDir, diag.LogName))
	require.NoError(t, err)
	assert.Contains(t, string(logText), "program "+prog.Lines()[0])
}

func TestRunNoContent(t *testing.T) {
	img := imaging.New(120, 90, color.Black)
	path := filepath.Join(t.TempDir(), "dark.png")
	require.NoError(t, imaging.Save(img, path))

	code, out, _ := runCLI(t, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, strings.Repeat("----------\n", 8), out)

	code, out, errOut := runCLI(t, "-strict", path)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, card.ErrNoContent.Error())
}

func TestRunErrors(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage: punchcard")

	code, _, errOut = runCLI(t, filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "load ")

	code, _, _ = runCLI(t, "-polarity", "sideways", "card.png")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "-rows", "0", "card.png")
	assert.Equal(t, 2, code)
}

func TestRunVersionAndConfig(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "punchcard "))

	code, out, _ = runCLI(t, "-print-config", "-cols", "80")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"cols": 80`)
	assert.Contains(t, out, `"polarity": "dark"`)
}

func TestRunAutoFlagOverridesConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "card.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"auto_threshold": true}`), 0o644))

	code, out, _ := runCLI(t, "-print-config", "-config", cfg)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"auto_threshold": true`)

	code, out, _ = runCLI(t, "-print-config", "-config", cfg, "-auto=false")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"auto_threshold": false`)
}

func TestRunSaveConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "conf", "card.json")

	code, out, errOut := runCLI(t, "-save-config", "-config", cfg, "-rows", "6")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "saved "+cfg+"\n", out)

	code, out, _ = runCLI(t, "-print-config", "-config", cfg)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"rows": 6`)

	saved := defaultConfigPath()
	t.Cleanup(func() { os.Remove(saved) })
	code, out, errOut = runCLI(t, "-save-config", "-polarity", "bright")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "saved "+saved+"\n", out)

	// The per-user file now applies without flags.
	code, out, _ = runCLI(t, "-print-config")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"polarity": "bright"`)
}

func TestRunMissingConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "-config", filepath.Join(t.TempDir(), "none.json"), "card.png")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "stat")
}
