// Package analysis computes match statistics from a stream of structured
// events. Every module is a pure function of the events; Run fans them out
// and assembles the combined result.
package analysis

import (
	"context"
	"reflect"

	"github.com/Zuo-Peng/replay-coach/internal/event"
	"golang.org/x/sync/errgroup"
)

type Analysis struct {
	Combat         CombatResult         `json:"combat"`
	Movement       MovementResult       `json:"movement"`
	Positioning    PositioningResult    `json:"positioning"`
	Rotation       RotationResult       `json:"rotation"`
	Zone           ZoneResult           `json:"zone"`
	Loadout        map[string]ItemUsage `json:"loadout"`
	EnemyProximity ProximityResult      `json:"enemy_proximity"`
	Building       BuildingResult       `json:"building"`
	Inventory      InventoryResult      `json:"inventory"`
	Player         PlayerResult         `json:"player"`
	Summary        Summary              `json:"summary"`
}

// Run computes every module concurrently. Each goroutine writes a distinct
// field, so no locking is needed; the summary is derived after the join.
func Run(ctx context.Context, events []event.Event) (*Analysis, error) {
	a := &Analysis{}
	g, ctx := errgroup.WithContext(ctx)

	module := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	module(func() { a.Combat = Combat(events) })
	module(func() { a.Movement = Movement(events) })
	module(func() { a.Positioning = Positioning(events) })
	module(func() { a.Rotation = Rotation(events) })
	module(func() { a.Zone = Zone(events) })
	module(func() { a.Loadout = Loadout(events) })
	module(func() { a.EnemyProximity = EnemyProximity(events) })
	module(func() { a.Building = Building(events) })
	module(func() { a.Inventory = Inventory(events) })
	module(func() { a.Player = Player(events) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.Summary = Summarize(a)
	return a, nil
}

// Compute is the sequential form of Run.
func Compute(events []event.Event) *Analysis {
	a := &Analysis{
		Combat:         Combat(events),
		Movement:       Movement(events),
		Positioning:    Positioning(events),
		Rotation:       Rotation(events),
		Zone:           Zone(events),
		Loadout:        Loadout(events),
		EnemyProximity: EnemyProximity(events),
		Building:       Building(events),
		Inventory:      Inventory(events),
		Player:         Player(events),
	}
	a.Summary = Summarize(a)
	return a
}

// IsEmpty reports whether the analysis carries nothing beyond the defaults
// produced for an empty event stream.
func (a *Analysis) IsEmpty() bool {
	return reflect.DeepEqual(a, Compute(nil))
}
