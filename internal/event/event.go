// Package event defines the structured gameplay event model consumed by the
// analysis modules. Each event carries a shared envelope (kind and time) and a
// kind-specific payload.
package event

import (
	"encoding/json"
)

type Kind string

const (
	KindElimination   Kind = "elimination"
	KindDamage        Kind = "damage"
	KindShotFired     Kind = "shot_fired"
	KindHeadshot      Kind = "headshot"
	KindMovement      Kind = "movement"
	KindJump          Kind = "jump"
	KindZiplineUsed   Kind = "zipline_used"
	KindBuild         Kind = "build"
	KindEdit          Kind = "edit"
	KindBuildFight    Kind = "build_fight"
	KindItemCollected Kind = "item_collected"
	KindItemDropped   Kind = "item_dropped"
	KindItemUsed      Kind = "item_used"
	KindPosition      Kind = "position"
	KindNewZone       Kind = "new_zone"
	KindZoneEnter     Kind = "zone_enter"
	KindStorm         Kind = "storm"
	KindEnemySpotted  Kind = "enemy_spotted"
	KindMatchEnd      Kind = "match_end"
	KindTimeAlive     Kind = "time_alive"
	KindHealthUpdate  Kind = "health_update"
	KindRevive        Kind = "revive"
	KindReboot        Kind = "reboot"
)

// Payload is implemented only by the types in this package.
type Payload interface {
	payload()
}

type Event struct {
	Kind    Kind
	Time    float64
	Payload Payload
}

// Known reports whether the event kind is one the analysis modules understand.
func (e Event) Known() bool {
	_, ok := e.Payload.(Unknown)
	return e.Payload != nil && !ok
}

type Elimination struct {
	Victim string `json:"victim,omitempty"`
	Weapon string `json:"weapon,omitempty"`
}

type Damage struct {
	Target string  `json:"target,omitempty"` // "enemy" or "self"
	Amount float64 `json:"amount"`
	Source string  `json:"source,omitempty"` // item id that dealt the damage
}

type ShotFired struct {
	Weapon string `json:"weapon,omitempty"`
}

type Headshot struct {
	Target string `json:"target,omitempty"`
}

type Movement struct {
	Mode     string  `json:"mode,omitempty"` // "sprint" or "walk"
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Position Point   `json:"position,omitempty"`
}

type Build struct {
	Material string `json:"material,omitempty"`
	Style    string `json:"style,omitempty"` // "defensive" or "aggressive"
}

// Item is shared by item_collected, item_dropped and item_used.
type Item struct {
	Item string `json:"item"`
}

// Position reports time spent per positioning category since the last sample.
type Position struct {
	InCover    float64 `json:"in_cover"`
	InOpen     float64 `json:"in_open"`
	HighGround float64 `json:"high_ground"`
	Exposed    float64 `json:"exposed"`
}

type NewZone struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius,omitempty"`
}

// Span is shared by zone_enter and time_alive.
type Span struct {
	Duration float64 `json:"duration"`
}

type Storm struct {
	Duration float64 `json:"duration"`
	Damage   float64 `json:"damage"`
}

type EnemySpotted struct {
	Distance float64 `json:"distance"`
}

type MatchEnd struct {
	Placement int `json:"placement"`
}

type HealthUpdate struct {
	Health float64 `json:"health"`
	Shield float64 `json:"shield"`
}

// Marker is the payload of kinds that carry no fields (jump, edit, ...).
type Marker struct{}

// Unknown keeps the raw record of an unrecognised kind.
type Unknown struct {
	Raw json.RawMessage
}

func (Elimination) payload()  {}
func (Damage) payload()       {}
func (ShotFired) payload()    {}
func (Headshot) payload()     {}
func (Movement) payload()     {}
func (Build) payload()        {}
func (Item) payload()         {}
func (Position) payload()     {}
func (NewZone) payload()      {}
func (Span) payload()         {}
func (Storm) payload()        {}
func (EnemySpotted) payload() {}
func (MatchEnd) payload()     {}
func (HealthUpdate) payload() {}
func (Marker) payload()       {}
func (Unknown) payload()      {}

// newPayload returns a pointer to a zero payload for kind, or nil if the
// kind is not recognised.
func newPayload(kind Kind) any {
	switch kind {
	case KindElimination:
		return &Elimination{}
	case KindDamage:
		return &Damage{}
	case KindShotFired:
		return &ShotFired{}
	case KindHeadshot:
		return &Headshot{}
	case KindMovement:
		return &Movement{}
	case KindBuild:
		return &Build{}
	case KindItemCollected, KindItemDropped, KindItemUsed:
		return &Item{}
	case KindPosition:
		return &Position{}
	case KindNewZone:
		return &NewZone{}
	case KindZoneEnter, KindTimeAlive:
		return &Span{}
	case KindStorm:
		return &Storm{}
	case KindEnemySpotted:
		return &EnemySpotted{}
	case KindMatchEnd:
		return &MatchEnd{}
	case KindHealthUpdate:
		return &HealthUpdate{}
	case KindJump, KindZiplineUsed, KindEdit, KindBuildFight, KindRevive, KindReboot:
		return &Marker{}
	default:
		return nil
	}
}

func deref(p any) Payload {
	switch v := p.(type) {
	case *Elimination:
		return *v
	case *Damage:
		return *v
	case *ShotFired:
		return *v
	case *Headshot:
		return *v
	case *Movement:
		return *v
	case *Build:
		return *v
	case *Item:
		return *v
	case *Position:
		return *v
	case *NewZone:
		return *v
	case *Span:
		return *v
	case *Storm:
		return *v
	case *EnemySpotted:
		return *v
	case *MatchEnd:
		return *v
	case *HealthUpdate:
		return *v
	case *Marker:
		return *v
	default:
		return nil
	}
}

// New builds an event with the payload matching kind, for producers that
// already know the fields.
func New(kind Kind, t float64, p Payload) Event {
	return Event{Kind: kind, Time: t, Payload: p}
}
