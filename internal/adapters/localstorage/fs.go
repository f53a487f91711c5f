package localstorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const inputFile = "input.json"

// LocalStorage implements ports.Storage as one directory per run under
// BaseDir/runs.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

// InitRun creates the run directory. It fails if the run already exists so
// two batches never share artifacts.
func (s *LocalStorage) InitRun(ctx context.Context, runID string) error {
	if err := checkName("run id", runID); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.BaseDir, "runs"), 0o755); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}
	path := s.GetRunPath(runID)
	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("create run directory %s: %w", path, err)
	}
	return nil
}

// SaveInput records the URLs a run was started with.
func (s *LocalStorage) SaveInput(ctx context.Context, runID string, data []byte) error {
	if _, err := s.writeFile(runID, inputFile, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save %s: %w", inputFile, err)
	}
	return nil
}

// SaveArtifact writes an export file into the run directory and returns its path.
func (s *LocalStorage) SaveArtifact(ctx context.Context, runID string, reader io.Reader, filename string) (string, error) {
	if filename == inputFile {
		return "", fmt.Errorf("artifact name %q is reserved", filename)
	}
	path, err := s.writeFile(runID, filename, reader)
	if err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}
	return path, nil
}

// GetRunPath returns the path for a run directory.
func (s *LocalStorage) GetRunPath(runID string) string {
	return filepath.Join(s.BaseDir, "runs", runID)
}

// writeFile writes through a temporary file in the run directory and renames
// it into place, so readers never see a partial artifact.
func (s *LocalStorage) writeFile(runID, name string, r io.Reader) (string, error) {
	if err := checkName("run id", runID); err != nil {
		return "", err
	}
	if err := checkName("file name", name); err != nil {
		return "", err
	}
	dir := s.GetRunPath(runID)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create %s in %s: %w", name, dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}
	return path, nil
}

func checkName(kind, name string) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return fmt.Errorf("invalid %s %q", kind, name)
	}
	return nil
}
