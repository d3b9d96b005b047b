package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/replay"
	"github.com/stretchr/testify/require"
)

func writeReplay(t *testing.T) string {
	t.Helper()
	data := replay.NewBuilder("FNREPLAY", 1, 2).
		Event(1000, "Elimination x2").
		Event(2000, "DamageDealt: 35").
		Chunk(3, 2500, []byte("opaque")).
		Bytes()
	path := filepath.Join(t.TempDir(), "match.replay")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDecodeFileFacts(t *testing.T) {
	path := writeReplay(t)

	out, err := decodeFile(path, true)
	require.NoError(t, err)
	require.Len(t, out.Chunks, 3)
	require.NotNil(t, out.Facts)
	require.Equal(t, 1, out.Facts.Eliminations)
	require.Equal(t, 35, out.Facts.DamageDealt)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "metadata")
	require.Contains(t, doc, "chunks")
	require.Contains(t, doc, "facts")
}

func TestDecodeFileWithoutFacts(t *testing.T) {
	out, err := decodeFile(writeReplay(t), false)
	require.NoError(t, err)
	require.Nil(t, out.Facts)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "facts")
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := decodeFile(filepath.Join(t.TempDir(), "nope.replay"), true)
	require.Error(t, err)
}
