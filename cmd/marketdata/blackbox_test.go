//go:build blackbox

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "marketdata-blackbox-*")
	if err != nil {
		panic(err)
	}

	bin = filepath.Join(tmp, "marketdata")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err, out)
	assert.Contains(t, out, "marketdata")
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(in, []byte("Symbol;Name\nAAPL;Apple\nMSFT;Microsoft\nSAP.DE;SAP\n"), 0644))

	out, err := run(t, "", "csv", "len", in)
	require.NoError(t, err, out)
	assert.Equal(t, "3\n", out)

	out, err = run(t, "", "csv", "convert", in, "--from", "auto")
	require.NoError(t, err, out)

	b, err := os.ReadFile(filepath.Join(dir, "list_converted.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Symbol,Name\nAAPL,Apple\nMSFT,Microsoft\nSAP.DE,SAP\n", string(b))
}

func TestConfigInitValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketdata.yaml")

	out, err := run(t, "", "config", "init", "-o", path)
	require.NoError(t, err, out)

	out, err = run(t, "", "config", "validate", "-f", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Configuration valid")
}

func TestTrackNoInputExitsNonZero(t *testing.T) {
	out, err := run(t, "", "--out-dir", t.TempDir(), "track")
	require.Error(t, err)
	assert.Contains(t, out, "error:")
}
