package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/stretchr/testify/require"
)

type scriptedGen struct {
	replies []string
	errs    []error
	calls   int
	system  string
}

func (g *scriptedGen) Generate(_ context.Context, system, _ string) (string, error) {
	i := g.calls
	g.calls++
	g.system = system
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", nil
}

func matchReport() *report.MatchReport {
	a := analysis.Compute([]event.Event{
		event.New(event.KindShotFired, 1, event.ShotFired{}),
		event.New(event.KindItemUsed, 2, event.Item{Item: "pump"}),
		event.New(event.KindItemUsed, 3, event.Item{Item: "ar_gold"}),
		event.New(event.KindDamage, 4, event.Damage{Target: "enemy", Amount: 90, Source: "pump"}),
		event.New(event.KindEnemySpotted, 5, event.EnemySpotted{Distance: 12}),
	})
	return &report.MatchReport{Key: "m", Analysis: a}
}

func newTestAssistant(gen Generator, attempts uint) *Assistant {
	a := NewAssistant(gen, attempts)
	a.delay = 0
	return a
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(matchReport().Analysis, false)

	require.Contains(t, p, "- Accuracy: 100.00%")
	require.Contains(t, p, "- Weapons Used: ar_gold, pump")
	require.Contains(t, p, "- Average Enemy Distance: 12.00 meters")
	require.Contains(t, p, "LOADOUT EFFICIENCY:\n{\n  \"ar_gold\"")
	require.NotContains(t, p, "estimated from unstructured")

	empty := BuildPrompt(analysis.Compute(nil), true)
	require.Contains(t, empty, "- Weapons Used: N/A")
	require.Contains(t, empty, "estimated from unstructured")
}

func TestCoachRetriesThenSucceeds(t *testing.T) {
	gen := &scriptedGen{
		errs:    []error{errors.New("503")},
		replies: []string{"", "  Rotate earlier.\n"},
	}

	n, err := newTestAssistant(gen, 2).Coach(context.Background(), matchReport())
	require.NoError(t, err)
	require.Equal(t, "Rotate earlier.", n.Text)
	require.Contains(t, n.Prompt, "MATCH SUMMARY")
	require.Equal(t, SystemPrompt, gen.system)
	require.Equal(t, 2, gen.calls)
}

func TestCoachUnavailable(t *testing.T) {
	gen := &scriptedGen{errs: []error{errors.New("boom"), errors.New("boom")}}

	_, err := newTestAssistant(gen, 2).Coach(context.Background(), matchReport())
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 2, gen.calls)

	empty := &scriptedGen{replies: []string{"   "}}
	_, err = newTestAssistant(empty, 1).Coach(context.Background(), matchReport())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = newTestAssistant(empty, 1).Coach(context.Background(), &report.MatchReport{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCoachStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGen{errs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom")}}
	_, err := newTestAssistant(gen, 3).Coach(ctx, matchReport())
	require.ErrorIs(t, err, ErrUnavailable)
	require.LessOrEqual(t, gen.calls, 1)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	require.Error(t, err)
}
