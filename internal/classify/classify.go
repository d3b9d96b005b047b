// Package classify turns decoded replay chunks into structured events.
//
// Two strategies share the Extractor interface. Structured decodes event
// chunks that already carry typed JSON records and is the canonical path.
// Heuristic scans event text for keywords and produces approximate counts;
// its output is always labelled lossy and must not be treated as ground truth.
package classify

import (
	"errors"
	"fmt"

	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
)

const (
	StrategyStructured = "structured"
	StrategyHeuristic  = "heuristic"
)

// ErrAmbiguous describes an event text that matched no fact or several fact
// families. It is only ever counted, never returned.
var ErrAmbiguous = errors.New("classification ambiguity")

type Extractor interface {
	Name() string
	Extract(rep *replay.Replay) (Extraction, error)
}

type Extraction struct {
	Strategy string
	// Lossy is set when Events were synthesized from keyword estimates.
	Lossy  bool
	Events []event.Event
	// Facts is only set by the heuristic strategy.
	Facts *Facts
	// Skipped counts records the extractor could not use.
	Skipped int
}

// New returns the extractor registered under name.
func New(name string) (Extractor, error) {
	switch name {
	case StrategyStructured:
		return Structured{}, nil
	case StrategyHeuristic, "":
		return Heuristic{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %s", name)
	}
}

// FromStream wraps an already structured event stream.
func FromStream(s *event.Stream) Extraction {
	return Extraction{
		Strategy: StrategyStructured,
		Events:   s.Events,
		Skipped:  s.Skipped,
	}
}

// Structured decodes every Event chunk as a JSON event record. Chunks that
// are not valid records are skipped.
type Structured struct{}

func (Structured) Name() string { return StrategyStructured }

func (Structured) Extract(rep *replay.Replay) (Extraction, error) {
	out := Extraction{Strategy: StrategyStructured, Events: []event.Event{}}
	for _, c := range rep.Chunks {
		if c.Kind != replay.KindEvent {
			continue
		}
		ev, err := event.DecodeAt(c.Payload, float64(c.TimestampMs)/1000)
		if err != nil {
			out.Skipped++
			continue
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}
