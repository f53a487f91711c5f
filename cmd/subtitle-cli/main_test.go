package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtitlebatch/internal/core/domain"
)

const fixtureDir = "../../internal/adapters/htmlfixture/testdata/site"

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readRunResults(t *testing.T, dataDir string) []domain.SubtitleResult {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dataDir, "runs", "*", "subtitles_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var results []domain.SubtitleResult
	require.NoError(t, json.Unmarshal(raw, &results))
	return results
}

func TestExtractWithFixture(t *testing.T) {
	dataDir := t.TempDir()
	stdin := "https://www.youtube.com/shorts/nosubs1?feature=share\n\n   \nnot-a-video\n"

	out, _, err := runCLI(t, stdin,
		"extract", "https://youtu.be/abc123?t=5",
		"--input", "-",
		"--fixture", fixtureDir,
		"--data-dir", dataDir,
		"--pacing", "0s",
		"--no-progress",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Learning Go in Ten Minutes")
	assert.Contains(t, out, "Processed 3 videos: 1 with subtitles, 1 without, 1 failed")

	results := readRunResults(t, dataDir)
	require.Len(t, results, 3)
	assert.Equal(t, "https://youtu.be/abc123?t=5", results[0].URL)
	assert.Equal(t, domain.LanguageEnglish, results[0].Language, "English button precedes Spanish")
	assert.Equal(t, domain.StatusNoSubtitlesFound, results[1].Status)
	assert.Equal(t, domain.StatusFailed, results[2].Status)
	assert.Equal(t, "not-a-video", results[2].URL)
}

func TestExtractRequiresURLs(t *testing.T) {
	_, _, err := runCLI(t, "", "extract", "--fixture", fixtureDir, "--data-dir", t.TempDir())
	assert.ErrorContains(t, err, "no video URLs")
}

func TestExtractBadFixtureIsSessionError(t *testing.T) {
	dataDir := t.TempDir()
	_, _, err := runCLI(t, "", "extract", "https://youtu.be/abc123",
		"--fixture", filepath.Join(t.TempDir(), "missing"),
		"--data-dir", dataDir,
	)
	assert.ErrorIs(t, err, domain.ErrSession)

	_, statErr := os.Stat(filepath.Join(dataDir, "runs"))
	assert.True(t, os.IsNotExist(statErr), "no artifacts on batch-fatal errors")
}

func TestExtractConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	dataDir := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[batch]
pacing = "0s"

[storage]
data_dir = "`+filepath.ToSlash(dataDir)+`"
transcript_language = false
`), 0o644))

	_, _, err := runCLI(t, "", "--config", cfgPath, "extract", "https://youtu.be/abc123", "--fixture", fixtureDir, "--no-progress")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dataDir, "runs", "*", "subtitles_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Language:")
	assert.Contains(t, string(raw), "Today we learn Go.")
}

func TestRenderResults(t *testing.T) {
	out := renderResults([]domain.SubtitleResult{
		domain.OkResult(domain.NewVideoRequest("https://youtu.be/a"), "Title A", domain.LanguageSpanish, "x"),
		domain.FailedResult(domain.NewVideoRequest("b"), "no results"),
	})
	assert.Contains(t, out, "Title A")
	assert.Contains(t, out, "failed: no results")
	assert.Less(t, strings.Index(out, "Title A"), strings.Index(out, "failed"))
}
