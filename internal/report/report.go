// Package report assembles the persisted match report and drives the optional
// coaching step.
package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
)

const (
	InputReplay = "replay"
	InputEvents = "events"
)

// FeedbackUnavailable replaces the narrative when the coach cannot produce one.
const FeedbackUnavailable = "Unable to generate feedback at this time."

type Metadata struct {
	Magic           string         `json:"magic"`
	VersionMajor    uint32         `json:"versionMajor"`
	VersionMinor    uint32         `json:"versionMinor"`
	Source          string         `json:"source"`
	InputKind       string         `json:"input_kind"`
	ChunkCount      int            `json:"chunk_count"`
	EventChunkCount int            `json:"event_chunk_count"`
	StopReason      string         `json:"stop_reason,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

type ExtractionInfo struct {
	Strategy string          `json:"strategy"`
	Lossy    bool            `json:"lossy"`
	Skipped  int             `json:"skipped"`
	Facts    *classify.Facts `json:"facts,omitempty"`
}

type MatchReport struct {
	// Key names the report directory and index row; it is the input file stem.
	Key string `json:"-"`
	// SourcePath is the absolute input path, kept out of the JSON so reports
	// do not depend on where the replay was read from.
	SourcePath string `json:"-"`
	// Texts are the event texts indexed for search.
	Texts []string `json:"-"`

	Metadata   Metadata           `json:"metadata"`
	Analysis   *analysis.Analysis `json:"analysis"`
	Extraction ExtractionInfo     `json:"extraction"`
	AIFeedback string             `json:"ai_feedback,omitempty"`
}

// MetadataFromReplay fills the container fields of Metadata.
func MetadataFromReplay(rep *replay.Replay) Metadata {
	m := Metadata{
		Magic:           rep.Header.MagicString(),
		VersionMajor:    rep.Header.VersionMajor,
		VersionMinor:    rep.Header.VersionMinor,
		InputKind:       InputReplay,
		ChunkCount:      len(rep.Chunks),
		EventChunkCount: rep.CountKind(replay.KindEvent),
	}
	if rep.Stop != nil {
		m.StopReason = rep.Stop.Error()
	}
	return m
}

func ExtractionFrom(ext classify.Extraction) ExtractionInfo {
	return ExtractionInfo{
		Strategy: ext.Strategy,
		Lossy:    ext.Lossy,
		Skipped:  ext.Skipped,
		Facts:    ext.Facts,
	}
}

// Numeric returns a copy of the report without the narrative.
func (r *MatchReport) Numeric() *MatchReport {
	out := *r
	out.AIFeedback = ""
	return &out
}

// Encode writes v as 2-space indented JSON. Map keys are sorted by
// encoding/json, so equal values always encode to equal bytes.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
