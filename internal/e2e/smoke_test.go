package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runBBS(t, binaryPath, home, "", "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, strings.TrimSpace(stdout))

	stdout, stderr, err = runBBS(t, binaryPath, home, "", "config", "init")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, filepath.Join(home, ".bbscapade", "config.toml"))

	info, err := os.Stat(filepath.Join(home, ".bbscapade", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMissingAPIKeyExitsNonZero(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runBBS(t, binaryPath, home, "Neo\n")

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr, "GEMINI_API_KEY")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "bbs-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bbs")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build bbs binary: %s", string(output))
	return binaryPath
}

func runBBS(t *testing.T, binaryPath, home, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = append(withoutKeys(os.Environ()), "HOME="+home)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// withoutKeys drops API keys and BBSCAPADE_* overrides from the caller's
// environment.
func withoutKeys(env []string) []string {
	filtered := make([]string, 0, len(env))
	for _, entry := range env {
		if strings.HasPrefix(entry, "GEMINI_API_KEY=") || strings.HasPrefix(entry, "BBSCAPADE_") {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
