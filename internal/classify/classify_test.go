package classify_test

import (
	"bytes"
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) *replay.Replay {
	t.Helper()
	rep, err := replay.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return rep
}

func TestHeuristicTruncatedReplay(t *testing.T) {
	data := replay.NewBuilder("FNREPLAY", 1, 0).
		Event(1000, "Elimination x2").
		Raw([]byte{2, 0, 0, 0, 8}). // record header cut short
		Bytes()

	rep := decode(t, data)
	require.Len(t, rep.Chunks, 1)

	ext, err := classify.Heuristic{}.Extract(rep)
	require.NoError(t, err)
	require.True(t, ext.Lossy)
	require.Equal(t, classify.StrategyHeuristic, ext.Strategy)
	require.Equal(t, 1, ext.Facts.Eliminations)
	require.Len(t, ext.Events, 1)
	require.Equal(t, event.KindElimination, ext.Events[0].Kind)
	require.Equal(t, 1.0, ext.Events[0].Time)
}

func TestClassifyTexts(t *testing.T) {
	cases := []struct {
		name  string
		texts []string
		want  classify.Facts
	}{
		{
			name:  "empty",
			texts: nil,
			want:  classify.Facts{},
		},
		{
			name:  "kill and elimination in one text count once",
			texts: []string{"Kill Elimination"},
			want:  classify.Facts{Eliminations: 1},
		},
		{
			name:  "damage digits",
			texts: []string{"DamageDealt:45", "DamageDealt 10 then DamageDealt=5", "DamageDealtabc"},
			want:  classify.Facts{DamageDealt: 60},
		},
		{
			name:  "mixed families are ambiguous",
			texts: []string{"Jump onto Structure", "SafeZone", "nothing here"},
			want:  classify.Facts{Jumps: 1, StructuresBuilt: 1, ZoneEntries: 1, Ambiguous: 1, Unclassified: 1},
		},
		{
			name:  "build keyword",
			texts: []string{"BuildPiece", "Structure placed"},
			want:  classify.Facts{StructuresBuilt: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, classify.ClassifyTexts(tc.texts))
		})
	}
}

func TestHeuristicSynthesizedEvents(t *testing.T) {
	data := replay.NewBuilder("FNREPLAY", 1, 0).
		Event(0, "DamageDealt 20").
		Event(500, "DamageDealt 30").
		Event(900, "SafeZone reached").
		Chunk(3, 950, []byte("Kill inside replay data is ignored")).
		Bytes()

	ext, err := classify.Heuristic{}.Extract(decode(t, data))
	require.NoError(t, err)
	require.Equal(t, 50, ext.Facts.DamageDealt)
	require.Equal(t, 0, ext.Facts.Eliminations)
	require.Len(t, ext.Events, 3)
	require.Equal(t, event.Damage{Target: "enemy", Amount: 30}, ext.Events[1].Payload)
}

func TestStructuredExtract(t *testing.T) {
	data := replay.NewBuilder("FNREPLAY", 1, 0).
		Event(2000, `{"type":"shot_fired"}`).
		Event(3000, `{"type":"damage","time":2.5,"target":"enemy","amount":20}`).
		Event(4000, "Elimination but not json").
		Chunk(1, 5000, []byte(`{"type":"jump"}`)).
		Bytes()

	ext, err := classify.Structured{}.Extract(decode(t, data))
	require.NoError(t, err)
	require.False(t, ext.Lossy)
	require.Nil(t, ext.Facts)
	require.Equal(t, 1, ext.Skipped)
	require.Len(t, ext.Events, 2)
	require.Equal(t, 2.0, ext.Events[0].Time)
	require.Equal(t, 2.5, ext.Events[1].Time)
}

func TestStructuredKeepsExplicitZeroTime(t *testing.T) {
	data := replay.NewBuilder("FNREPLAY", 1, 0).
		Event(4000, `{"type":"new_zone","time":0,"center":[0,0]}`).
		Event(10000, `{"type":"new_zone","time":10,"center":[30,40]}`).
		Event(12000, `{"type":"jump"}`).
		Bytes()

	ext, err := classify.Structured{}.Extract(decode(t, data))
	require.NoError(t, err)
	require.Len(t, ext.Events, 3)
	require.Equal(t, 0.0, ext.Events[0].Time)
	require.Equal(t, 10.0, ext.Events[1].Time)
	require.Equal(t, 12.0, ext.Events[2].Time)

	rot := analysis.Rotation(ext.Events)
	require.Len(t, rot.Rotations, 1)
	require.Equal(t, 10.0, rot.Rotations[0].TimeBetween)
	require.Equal(t, 50.0, rot.Rotations[0].Distance)
}

func TestNew(t *testing.T) {
	ex, err := classify.New("")
	require.NoError(t, err)
	require.Equal(t, classify.StrategyHeuristic, ex.Name())

	ex, err = classify.New(classify.StrategyStructured)
	require.NoError(t, err)
	require.Equal(t, classify.StrategyStructured, ex.Name())

	_, err = classify.New("ocr")
	require.Error(t, err)
}
