package analysis_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/stretchr/testify/require"
)

func ev(kind event.Kind, t float64, p event.Payload) event.Event {
	return event.New(kind, t, p)
}

func TestRunEmpty(t *testing.T) {
	a, err := analysis.Run(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, a.IsEmpty())

	require.Equal(t, 100, a.Rotation.Score)
	require.Empty(t, a.Rotation.Rotations)
	require.Zero(t, a.Combat.Accuracy)
	require.Zero(t, a.Zone.StormExposureRatio)
	require.Nil(t, a.Player.Placement)

	out, err := json.Marshal(a)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	for _, key := range []string{
		"combat", "movement", "positioning", "rotation", "zone", "loadout",
		"enemy_proximity", "building", "inventory", "player", "summary",
	} {
		require.Contains(t, doc, key)
		require.NotNil(t, doc[key], key)
	}
	require.Equal(t, []any{}, doc["rotation"].(map[string]any)["rotations"])
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analysis.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunMatchesCompute(t *testing.T) {
	events := []event.Event{
		ev(event.KindShotFired, 1, event.ShotFired{}),
		ev(event.KindDamage, 2, event.Damage{Target: "enemy", Amount: 25}),
		ev(event.KindNewZone, 3, event.NewZone{Center: event.Point{0, 0}}),
		ev(event.KindNewZone, 9, event.NewZone{Center: event.Point{3, 4}}),
		ev(event.KindBuild, 10, event.Build{Material: "wood"}),
	}

	a, err := analysis.Run(context.Background(), events)
	require.NoError(t, err)
	require.Equal(t, analysis.Compute(events), a)
	require.False(t, a.IsEmpty())
}

func TestCombatAccuracy(t *testing.T) {
	var events []event.Event
	for i := 0; i < 10; i++ {
		events = append(events, ev(event.KindShotFired, float64(i), event.ShotFired{}))
	}
	for i := 0; i < 3; i++ {
		events = append(events, ev(event.KindDamage, 20, event.Damage{Target: "enemy", Amount: 20}))
	}
	events = append(events,
		ev(event.KindDamage, 21, event.Damage{Target: "self", Amount: 12.25}),
		ev(event.KindDamage, 22, event.Damage{Target: "enemy", Amount: math.NaN()}),
	)

	res := analysis.Combat(events[:13])
	require.Equal(t, 30.0, res.Accuracy)
	require.Equal(t, 60.0, res.DamageGiven)
	require.Equal(t, 3, res.ShotsHit)

	res = analysis.Combat(events)
	require.Equal(t, 12.25, res.DamageTaken)
	require.Equal(t, 60.0, res.DamageGiven)
	require.Equal(t, 40.0, res.Accuracy)
}

func TestCombatAccuracyClamped(t *testing.T) {
	events := []event.Event{
		ev(event.KindShotFired, 0, event.ShotFired{}),
		ev(event.KindDamage, 1, event.Damage{Target: "enemy", Amount: 10}),
		ev(event.KindDamage, 2, event.Damage{Target: "enemy", Amount: 10}),
	}
	require.Equal(t, 100.0, analysis.Combat(events).Accuracy)

	noShots := []event.Event{ev(event.KindDamage, 1, event.Damage{Target: "enemy", Amount: 10})}
	require.Zero(t, analysis.Combat(noShots).Accuracy)
}

func TestRotationScenario(t *testing.T) {
	events := []event.Event{
		ev(event.KindNewZone, 0, event.NewZone{Center: event.Point{0, 0}}),
		ev(event.KindNewZone, 10, event.NewZone{Center: event.Point{30, 40}}),
	}

	res := analysis.Rotation(events)
	require.Len(t, res.Rotations, 1)
	require.Equal(t, 50.0, res.Rotations[0].Distance)
	require.Equal(t, 10.0, res.Rotations[0].TimeBetween)
	require.Equal(t, 50.0, res.AvgRotationDistance)
	require.Equal(t, 10.0, res.AvgTimeBetween)
	require.Equal(t, 100, res.Score)
}

func TestRotationScore(t *testing.T) {
	cases := []struct {
		name   string
		events []event.Event
		want   int
	}{
		{
			name: "long rotations",
			events: []event.Event{
				ev(event.KindNewZone, 0, event.NewZone{Center: event.Point{0, 0}}),
				ev(event.KindNewZone, 60, event.NewZone{Center: event.Point{300, 400}}),
			},
			want: 85,
		},
		{
			name: "slow movement",
			events: []event.Event{
				ev(event.KindMovement, 0, event.Movement{Position: event.Point{0, 0}}),
				ev(event.KindMovement, 1, event.Movement{Position: event.Point{1, 0}}),
			},
			want: 90,
		},
		{
			name: "both penalties",
			events: []event.Event{
				ev(event.KindNewZone, 0, event.NewZone{Center: event.Point{0, 0}}),
				ev(event.KindNewZone, 60, event.NewZone{Center: event.Point{0, 500}}),
				ev(event.KindMovement, 61, event.Movement{}),
			},
			want: 75,
		},
		{
			name: "zone without center breaks the chain",
			events: []event.Event{
				ev(event.KindNewZone, 0, event.NewZone{Center: event.Point{0, 0}}),
				ev(event.KindNewZone, 5, event.NewZone{}),
				ev(event.KindNewZone, 9, event.NewZone{Center: event.Point{900, 0}}),
			},
			want: 100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := analysis.Rotation(tc.events)
			require.Equal(t, tc.want, res.Score)
			require.GreaterOrEqual(t, res.Score, 0)
			require.LessOrEqual(t, res.Score, 100)
		})
	}
}

func TestZoneExposure(t *testing.T) {
	res := analysis.Zone([]event.Event{
		ev(event.KindStorm, 1, event.Storm{Duration: 30, Damage: 12}),
	})
	require.Equal(t, 0.99, res.StormExposureRatio)
	require.Equal(t, 12.0, res.StormDamageTaken)

	res = analysis.Zone([]event.Event{
		ev(event.KindZoneEnter, 1, event.Span{Duration: 75}),
		ev(event.KindStorm, 2, event.Storm{Duration: 25}),
		ev(event.KindZoneEnter, 3, event.Span{Duration: -5}),
	})
	require.Equal(t, 2, res.ZoneEntries)
	require.Equal(t, 75.0, res.TimeInZone)
	require.Equal(t, 0.25, res.StormExposureRatio)

	res = analysis.Zone([]event.Event{
		ev(event.KindZoneEnter, 1, event.Span{Duration: 50}),
		ev(event.KindStorm, 2, event.Storm{Duration: 50}),
	})
	require.Equal(t, 0.5, res.StormExposureRatio)

	res = analysis.Zone([]event.Event{
		ev(event.KindZoneEnter, 1, event.Span{Duration: 3}),
		ev(event.KindStorm, 2, event.Storm{Duration: 1}),
	})
	require.Equal(t, 0.25, res.StormExposureRatio)

	res = analysis.Zone([]event.Event{
		ev(event.KindStorm, 1, event.Storm{Duration: 1e12}),
	})
	require.Less(t, res.StormExposureRatio, 1.0)
}

func TestPositioningScore(t *testing.T) {
	res := analysis.Positioning([]event.Event{
		ev(event.KindPosition, 1, event.Position{InCover: 30, HighGround: 10, InOpen: 50, Exposed: 10}),
	})
	require.Equal(t, 40.0, res.Score)

	require.Zero(t, analysis.Positioning(nil).Score)
}

func TestLoadoutCreditsUsedItemsOnly(t *testing.T) {
	res := analysis.Loadout([]event.Event{
		ev(event.KindDamage, 0, event.Damage{Target: "enemy", Amount: 99, Source: "pump"}),
		ev(event.KindItemUsed, 1, event.Item{Item: "pump"}),
		ev(event.KindItemUsed, 2, event.Item{Item: "pump"}),
		ev(event.KindDamage, 3, event.Damage{Target: "enemy", Amount: 45, Source: "pump"}),
		ev(event.KindItemUsed, 4, event.Item{Item: ""}),
		ev(event.KindItemCollected, 5, event.Item{Item: "smg"}),
	})

	require.Equal(t, map[string]analysis.ItemUsage{
		"pump": {Uses: 2, Damage: 45, DamagePerUse: 22.5},
	}, res)
}

func TestEnemyProximity(t *testing.T) {
	res := analysis.EnemyProximity([]event.Event{
		ev(event.KindEnemySpotted, 1, event.EnemySpotted{Distance: 10}),
		ev(event.KindEnemySpotted, 2, event.EnemySpotted{Distance: 20}),
		ev(event.KindEnemySpotted, 3, event.EnemySpotted{Distance: 15}),
	})
	require.Equal(t, analysis.ProximityResult{Encounters: 3, AvgDistance: 15, CloseEncounters: 1}, res)

	require.Equal(t, analysis.ProximityResult{}, analysis.EnemyProximity(nil))
}

func TestBuilding(t *testing.T) {
	res := analysis.Building([]event.Event{
		ev(event.KindBuild, 1, event.Build{Material: "wood", Style: "defensive"}),
		ev(event.KindBuild, 2, event.Build{Material: "stone", Style: "aggressive"}),
		ev(event.KindBuild, 3, event.Build{Material: "metal"}),
		ev(event.KindEdit, 4, event.Marker{}),
		ev(event.KindBuildFight, 5, event.Marker{}),
	})

	require.Equal(t, 3, res.StructuresBuilt)
	require.Equal(t, analysis.Materials{Wood: 1, Metal: 1}, res.MaterialsUsed)
	require.Equal(t, 1, res.DefensiveBuilds)
	require.Equal(t, 1, res.AggressiveBuilds)
	require.Equal(t, 1, res.EditsMade)
	require.Equal(t, 1, res.BuildFights)
}

func TestInventoryAndPlayer(t *testing.T) {
	events := []event.Event{
		ev(event.KindItemCollected, 1, event.Item{Item: "medkit"}),
		ev(event.KindItemCollected, 2, event.Item{Item: "medkit"}),
		ev(event.KindItemDropped, 3, event.Item{Item: "pump"}),
		ev(event.KindItemUsed, 4, event.Item{Item: "medkit"}),
		ev(event.KindItemUsed, 5, event.Item{Item: "launch_pad"}),
		ev(event.KindItemUsed, 6, event.Item{Item: "pump"}),
		ev(event.KindHealthUpdate, 7, event.HealthUpdate{Health: 80, Shield: 50}),
		ev(event.KindHealthUpdate, 8, event.HealthUpdate{Health: 42, Shield: 0}),
		ev(event.KindRevive, 9, event.Marker{}),
		ev(event.KindReboot, 10, event.Marker{}),
		ev(event.KindTimeAlive, 11, event.Span{Duration: 612}),
		ev(event.KindMatchEnd, 12, event.MatchEnd{Placement: 3}),
	}

	inv := analysis.Inventory(events)
	require.Equal(t, map[string]int{"medkit": 2}, inv.ItemsCollected)
	require.Equal(t, map[string]int{"pump": 1}, inv.ItemsDropped)
	require.Equal(t, 1, inv.HealingItemsUsed)
	require.Equal(t, 1, inv.UtilityItemsUsed)

	p := analysis.Player(events)
	require.Equal(t, 612.0, p.TimeAlive)
	require.NotNil(t, p.Placement)
	require.Equal(t, 3, *p.Placement)
	require.Equal(t, 42.0, p.HealthRemaining)
	require.Zero(t, p.ShieldRemaining)
	require.Equal(t, 1, p.Revives)
	require.Equal(t, 1, p.Reboots)
}

func TestSummaryProjection(t *testing.T) {
	a := analysis.Compute([]event.Event{
		ev(event.KindElimination, 1, event.Elimination{}),
		ev(event.KindZoneEnter, 2, event.Span{Duration: 40}),
	})
	require.Equal(t, analysis.Summary{
		Kills:         1,
		RotationScore: 100,
		ZoneSafety:    40,
	}, a.Summary)
}

func TestMovement(t *testing.T) {
	res := analysis.Movement([]event.Event{
		ev(event.KindMovement, 1, event.Movement{Mode: "sprint", Distance: 10.004, Duration: 2}),
		ev(event.KindMovement, 2, event.Movement{Mode: "walk", Distance: 5, Duration: 4}),
		ev(event.KindMovement, 3, event.Movement{Mode: "swim", Distance: math.Inf(1), Duration: 9}),
		ev(event.KindJump, 4, event.Marker{}),
		ev(event.KindZiplineUsed, 5, event.Marker{}),
	})
	require.Equal(t, analysis.MovementResult{
		DistanceTraveled: 15,
		SprintTime:       2,
		WalkTime:         4,
		JumpCount:        1,
		ZiplineUsed:      1,
	}, res)
}
