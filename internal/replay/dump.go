package replay

import (
	"bytes"
	"encoding/binary"
)

type DataSummary struct {
	ByteLength   int   `json:"byte_length"`
	ExampleBytes []int `json:"example_bytes"`
}

type EventSummary struct {
	TextPreview string `json:"text_preview"`
	RawBytes    []int  `json:"raw_bytes"`
}

type ChunkInfo struct {
	Type     uint32        `json:"type"`
	TypeName string        `json:"type_name"`
	Size     uint32        `json:"size"`
	Time     uint32        `json:"time"`
	Summary  *DataSummary  `json:"summary,omitempty"`
	Event    *EventSummary `json:"event,omitempty"`
}

type DumpMetadata struct {
	Magic        string `json:"magic"`
	VersionMajor uint32 `json:"version_major"`
	VersionMinor uint32 `json:"version_minor"`
	StopReason   string `json:"stop_reason,omitempty"`
}

type Dump struct {
	Metadata DumpMetadata `json:"metadata"`
	Chunks   []ChunkInfo  `json:"chunks"`
}

// ToDump flattens a decoded replay into a JSON-friendly inspection view.
func (r *Replay) ToDump() Dump {
	d := Dump{
		Metadata: DumpMetadata{
			Magic:        r.Header.MagicString(),
			VersionMajor: r.Header.VersionMajor,
			VersionMinor: r.Header.VersionMinor,
		},
		Chunks: make([]ChunkInfo, 0, len(r.Chunks)),
	}
	if r.Stop != nil {
		d.Metadata.StopReason = r.Stop.Error()
	}

	for _, c := range r.Chunks {
		info := ChunkInfo{
			Type:     c.Type,
			TypeName: c.TypeName(),
			Size:     c.Size,
			Time:     c.TimestampMs,
		}
		switch c.Kind {
		case KindReplayData:
			info.Summary = &DataSummary{ByteLength: int(c.Size), ExampleBytes: byteInts(c.Preview)}
		case KindEvent:
			info.Event = &EventSummary{TextPreview: c.TextPreview(), RawBytes: byteInts(c.Preview)}
		}
		d.Chunks = append(d.Chunks, info)
	}
	return d
}

func byteInts(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

// Builder assembles replay container bytes. Used to produce fixtures.
type Builder struct {
	buf bytes.Buffer
}

func NewBuilder(magic string, major, minor uint32) *Builder {
	b := &Builder{}
	var hdr [HeaderSize]byte
	copy(hdr[:8], magic)
	binary.LittleEndian.PutUint32(hdr[8:12], major)
	binary.LittleEndian.PutUint32(hdr[12:16], minor)
	b.buf.Write(hdr[:])
	return b
}

func (b *Builder) Chunk(chunkType, timestampMs uint32, payload []byte) *Builder {
	b.RawHeader(chunkType, uint32(len(payload)), timestampMs)
	b.buf.Write(payload)
	return b
}

func (b *Builder) Event(timestampMs uint32, text string) *Builder {
	return b.Chunk(2, timestampMs, []byte(text))
}

// RawHeader writes a record header without a payload, so a declared size can
// disagree with what follows.
func (b *Builder) RawHeader(chunkType, size, timestampMs uint32) *Builder {
	var hdr [ChunkHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], chunkType)
	binary.LittleEndian.PutUint32(hdr[4:8], size)
	binary.LittleEndian.PutUint32(hdr[8:12], timestampMs)
	b.buf.Write(hdr[:])
	return b
}

func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}
