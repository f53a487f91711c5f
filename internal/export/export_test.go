package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtitlebatch/internal/core/domain"
)

func sampleResults() []domain.SubtitleResult {
	return []domain.SubtitleResult{
		domain.OkResult(domain.NewVideoRequest("https://youtu.be/a1"), "Café <Live>", domain.LanguageSpanish, "hola"),
		domain.FailedResult(domain.NewVideoRequest("bad"), "no results"),
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "Café <Live>", "unicode and HTML characters are kept verbatim")
	assert.Contains(t, out, "\n  {")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "https://youtu.be/a1", decoded[0]["url"])
	assert.Equal(t, "Spanish", decoded[0]["language"])
	assert.Equal(t, "ok", decoded[0]["status"])
	assert.NotContains(t, decoded[0], "reason")
	assert.Equal(t, "failed", decoded[1]["status"])
	assert.Equal(t, "no results", decoded[1]["reason"])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteTranscript(t *testing.T) {
	sep := strings.Repeat("=", 50)

	t.Run("with language", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTranscript(&buf, sampleResults()[:1], true))
		want := "\n=== Café <Live> ===\nURL: https://youtu.be/a1\nLanguage: Spanish\n\nhola\n" + sep + "\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("without language", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTranscript(&buf, sampleResults(), false))
		out := buf.String()
		assert.NotContains(t, out, "Language:")
		assert.Equal(t, 2, strings.Count(out, sep))
		assert.Less(t, strings.Index(out, "Café"), strings.Index(out, "=== Error ==="))
		assert.Contains(t, out, "Error: no results")
	})
}

func TestFileNames(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	j, txt := FileNames(ts)
	assert.Equal(t, "subtitles_20260304_050607.json", j)
	assert.Equal(t, "subtitles_20260304_050607.txt", txt)

	local := ts.In(time.FixedZone("UTC+2", 2*60*60))
	j, _ = FileNames(local)
	assert.Equal(t, "subtitles_20260304_050607.json", j, "stamp is UTC whatever the zone")
}
