package replay

import (
	"fmt"
	"strings"
)

const (
	HeaderSize      = 32
	ChunkHeaderSize = 12
	PreviewSize     = 16
	TextPreviewSize = 100

	// MaxChunkSize bounds a single declared payload. Larger values are treated
	// as a corrupt record header rather than an allocation request.
	MaxChunkSize = 256 << 20
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCheckpoint
	KindEvent
	KindReplayData
)

var kindByType = map[uint32]Kind{
	1: KindCheckpoint,
	2: KindEvent,
	3: KindReplayData,
}

func KindOf(chunkType uint32) Kind {
	if k, ok := kindByType[chunkType]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindCheckpoint:
		return "Checkpoint"
	case KindEvent:
		return "Event"
	case KindReplayData:
		return "ReplayData"
	default:
		return "Unknown"
	}
}

type Header struct {
	Magic        [8]byte
	VersionMajor uint32
	VersionMinor uint32
}

// MagicString returns the tag with trailing NULs and invalid bytes dropped.
func (h Header) MagicString() string {
	s := strings.TrimRight(string(h.Magic[:]), "\x00")
	return strings.ToValidUTF8(s, "")
}

type Chunk struct {
	Kind        Kind
	Type        uint32 // raw type, kept for Unknown chunks
	Size        uint32
	TimestampMs uint32

	// Payload is nil for ReplayData chunks; only Preview is retained for them.
	Payload []byte
	Preview []byte
	// Text is the lossy-decoded payload of an Event chunk.
	Text string
}

// TypeName mirrors the chunk type table, with Unknown_<n> for unmapped types.
func (c Chunk) TypeName() string {
	if c.Kind == KindUnknown {
		return fmt.Sprintf("Unknown_%d", c.Type)
	}
	return c.Kind.String()
}

// TextPreview is the first TextPreviewSize runes of an Event chunk with
// newlines flattened.
func (c Chunk) TextPreview() string {
	r := []rune(c.Text)
	if len(r) > TextPreviewSize {
		r = r[:TextPreviewSize]
	}
	return strings.ReplaceAll(string(r), "\n", " ")
}

type Replay struct {
	Header Header
	Chunks []Chunk
	// EventTexts holds the decoded text of every Event chunk, in stream order.
	EventTexts []string
	// Stop is the reason decoding ended early, nil on a clean end of stream.
	Stop error
}

func (r *Replay) CountKind(k Kind) int {
	n := 0
	for _, c := range r.Chunks {
		if c.Kind == k {
			n++
		}
	}
	return n
}
