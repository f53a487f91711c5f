package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"subtitlebatch/internal/core/domain"
	"subtitlebatch/internal/core/ports"
	"subtitlebatch/internal/export"
)

// RunInput is persisted as input.json next to the exports.
type RunInput struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	URLs      []string  `json:"urls"`
}

// ArchivePaths lists the files written for a run.
type ArchivePaths struct {
	Dir        string
	JSON       string
	Transcript string
}

// Archive writes the run input, the JSON export and the transcript.
func Archive(ctx context.Context, storage ports.Storage, batch *domain.BatchResult, urls []string, withLanguage bool) (ArchivePaths, error) {
	var paths ArchivePaths
	if err := storage.InitRun(ctx, batch.RunID); err != nil {
		return paths, err
	}
	paths.Dir = storage.GetRunPath(batch.RunID)

	input, err := json.MarshalIndent(RunInput{RunID: batch.RunID, StartedAt: batch.StartedAt, URLs: urls}, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("encode run input: %w", err)
	}
	if err := storage.SaveInput(ctx, batch.RunID, input); err != nil {
		return paths, err
	}

	jsonName, textName := export.FileNames(batch.CompletedAt)

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, batch.Results); err != nil {
		return paths, err
	}
	if paths.JSON, err = storage.SaveArtifact(ctx, batch.RunID, &buf, jsonName); err != nil {
		return paths, err
	}

	buf.Reset()
	if err := export.WriteTranscript(&buf, batch.Results, withLanguage); err != nil {
		return paths, err
	}
	if paths.Transcript, err = storage.SaveArtifact(ctx, batch.RunID, &buf, textName); err != nil {
		return paths, err
	}
	return paths, nil
}
