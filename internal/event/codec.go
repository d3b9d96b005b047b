package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrMissingKind = errors.New("event has no type")

type envelope struct {
	Type Kind     `json:"type"`
	Kind Kind     `json:"kind"` // accepted as an alias of type
	Time *float64 `json:"time"`
}

// Decode parses one flat JSON event record. Unrecognised kinds decode to an
// Unknown payload instead of failing.
func Decode(data []byte) (Event, error) {
	return DecodeAt(data, 0)
}

// DecodeAt is Decode with a fallback time for records that carry no "time"
// key. An explicit "time": 0 is kept.
func DecodeAt(data []byte, fallback float64) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, err
	}
	kind := env.Type
	if kind == "" {
		kind = env.Kind
	}
	if kind == "" {
		return Event{}, ErrMissingKind
	}

	ev := Event{Kind: kind, Time: fallback}
	if env.Time != nil {
		ev.Time = *env.Time
	}
	target := newPayload(kind)
	if target == nil {
		ev.Payload = Unknown{Raw: bytes.Clone(data)}
		return ev, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return Event{}, fmt.Errorf("decode %s: %w", kind, err)
	}
	ev.Payload = deref(target)
	return ev, nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	ev, err := Decode(data)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}

// MarshalJSON writes the flat record form read by Decode.
func (e Event) MarshalJSON() ([]byte, error) {
	if u, ok := e.Payload.(Unknown); ok && len(u.Raw) > 0 {
		return u.Raw, nil
	}

	fields := map[string]json.RawMessage{}
	if e.Payload != nil {
		body, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
	}

	kind, err := json.Marshal(e.Kind)
	if err != nil {
		return nil, err
	}
	t, err := json.Marshal(e.Time)
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	fields["time"] = t

	return json.Marshal(fields)
}

// Point is a 2D or 3D coordinate. It decodes from [x, y(, z)] or from an
// object with x/y/z keys.
type Point []float64

func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
			Z *float64 `json:"z"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.X == nil || obj.Y == nil {
			return fmt.Errorf("point needs x and y: %s", data)
		}
		pt := Point{*obj.X, *obj.Y}
		if obj.Z != nil {
			pt = append(pt, *obj.Z)
		}
		*p = pt
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*p = arr
	return nil
}

type Stream struct {
	Metadata map[string]any
	Events   []Event
	// Skipped counts records that were not valid events.
	Skipped int
}

// ReadStream reads a pre-structured event stream: either a JSON array of
// events or an object with "metadata" and "events" keys. Records that fail to
// decode are skipped and counted.
func ReadStream(r io.Reader) (*Stream, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty event stream")
	}

	var raws []json.RawMessage
	stream := &Stream{}

	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("parse event array: %w", err)
		}
	case '{':
		var doc struct {
			Metadata map[string]any    `json:"metadata"`
			Events   []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("parse event document: %w", err)
		}
		stream.Metadata = doc.Metadata
		raws = doc.Events
	default:
		return nil, fmt.Errorf("unexpected event stream start %q", body[0])
	}

	stream.Events = make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := Decode(raw)
		if err != nil {
			stream.Skipped++
			continue
		}
		stream.Events = append(stream.Events, ev)
	}
	return stream, nil
}
