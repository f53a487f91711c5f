package localstorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunArtifacts(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s := NewLocalStorage(base)

	require.NoError(t, s.InitRun(ctx, "run-1"))
	assert.Equal(t, filepath.Join(base, "runs", "run-1"), s.GetRunPath("run-1"))

	require.NoError(t, s.SaveInput(ctx, "run-1", []byte(`{"urls":[]}`)))
	input, err := os.ReadFile(filepath.Join(base, "runs", "run-1", "input.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"urls":[]}`, string(input))

	path, err := s.SaveArtifact(ctx, "run-1", strings.NewReader("transcript"), "subtitles.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "runs", "run-1", "subtitles.txt"), path)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "transcript", string(body))
}

func TestSaveArtifactRejectsPaths(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())
	require.NoError(t, s.InitRun(ctx, "r"))

	for _, name := range []string{"", "../escape.txt", "nested/file.txt"} {
		_, err := s.SaveArtifact(ctx, "r", strings.NewReader("x"), name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestSaveWithoutInit(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	err := s.SaveInput(context.Background(), "missing", []byte("{}"))
	assert.ErrorContains(t, err, "input.json")
}

func TestInitRunRejectsExistingAndInvalidIDs(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	require.NoError(t, s.InitRun(ctx, "run-1"))
	assert.Error(t, s.InitRun(ctx, "run-1"), "runs never share a directory")

	for _, id := range []string{"", ".", "..", "../up", "a/b"} {
		assert.Error(t, s.InitRun(ctx, id), "run id %q", id)
	}
}

func TestArtifactsLeaveNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())
	require.NoError(t, s.InitRun(ctx, "r"))

	require.NoError(t, s.SaveInput(ctx, "r", []byte("{}")))
	_, err := s.SaveArtifact(ctx, "r", strings.NewReader("one"), "out.txt")
	require.NoError(t, err)
	path, err := s.SaveArtifact(ctx, "r", strings.NewReader("two"), "out.txt")
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))

	entries, err := os.ReadDir(s.GetRunPath("r"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"input.json", "out.txt"}, names)
}

func TestSaveArtifactReservesInputName(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())
	require.NoError(t, s.InitRun(ctx, "r"))

	_, err := s.SaveArtifact(ctx, "r", strings.NewReader("x"), "input.json")
	assert.ErrorContains(t, err, "reserved")
}
