package replay

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrIncompleteHeader     = errors.New("incomplete replay header")
	ErrTruncatedChunk       = errors.New("truncated chunk")
	ErrMalformedChunkHeader = errors.New("malformed chunk header")
)

// DecodeFile opens path and decodes it as a replay container.
func DecodeFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads the fixed header and then every chunk record it can. Only a
// short header is fatal; a truncated or unreadable record ends the stream and
// the chunks read so far are returned with Replay.Stop set.
func Decode(r io.Reader) (*Replay, error) {
	br := bufio.NewReader(r)

	header, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	rep := &Replay{Header: header}
	for {
		chunk, err := readChunk(br)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				rep.Stop = err
			}
			break
		}
		if chunk.Kind == KindEvent {
			rep.EventTexts = append(rep.EventTexts, chunk.Text)
		}
		rep.Chunks = append(rep.Chunks, chunk)
	}

	return rep, nil
}

func readHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: got %d of %d bytes", ErrIncompleteHeader, n, HeaderSize)
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	var h Header
	copy(h.Magic[:], buf[:8])
	h.VersionMajor = binary.LittleEndian.Uint32(buf[8:12])
	h.VersionMinor = binary.LittleEndian.Uint32(buf[12:16])
	// buf[16:32] is reserved
	return h, nil
}

// readChunk returns io.EOF when fewer than ChunkHeaderSize bytes remain.
func readChunk(r io.Reader) (Chunk, error) {
	var hdr [ChunkHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Chunk{}, io.EOF
		}
		return Chunk{}, fmt.Errorf("%w: %v", ErrMalformedChunkHeader, err)
	}

	chunkType := binary.LittleEndian.Uint32(hdr[0:4])
	size := binary.LittleEndian.Uint32(hdr[4:8])
	ts := binary.LittleEndian.Uint32(hdr[8:12])

	if size > MaxChunkSize {
		return Chunk{}, fmt.Errorf("%w: declared size %d exceeds %d", ErrMalformedChunkHeader, size, MaxChunkSize)
	}

	var payload bytes.Buffer
	n, err := io.CopyN(&payload, r, int64(size))
	if n < int64(size) {
		if err == nil || errors.Is(err, io.EOF) {
			return Chunk{}, fmt.Errorf("%w: type %d declares %d bytes, %d available", ErrTruncatedChunk, chunkType, size, n)
		}
		return Chunk{}, fmt.Errorf("%w: %v", ErrTruncatedChunk, err)
	}

	data := payload.Bytes()
	c := Chunk{
		Kind:        KindOf(chunkType),
		Type:        chunkType,
		Size:        size,
		TimestampMs: ts,
		Preview:     bytes.Clone(data[:min(len(data), PreviewSize)]),
	}

	switch c.Kind {
	case KindReplayData:
		// opaque, only length and preview are kept
	case KindEvent:
		c.Payload = data
		c.Text = decodeText(data)
	default:
		c.Payload = data
	}

	return c, nil
}

// decodeText never fails: invalid UTF-8 sequences become U+FFFD.
func decodeText(data []byte) string {
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}
