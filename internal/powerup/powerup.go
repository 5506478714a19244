// Package powerup tracks power-up levels for a session and draws offer rounds.
//
// Each type levels from 0 up to its own maximum. A type that reaches its
// maximum joins the used set and is never offered again until Reset.
package powerup

import (
	"fmt"
	"math/rand"
)

// Type identifies one of the fixed power-ups.
type Type int

const (
	DoubleBullet Type = iota
	Speed
	ExtraLife
	SpreadShot
	BiggerBullets
	Invisibility
	Shield
	Freeze

	numTypes
)

type info struct {
	id    string
	label string
	max   int
}

var catalog = [numTypes]info{
	DoubleBullet:  {"doubleBullet", "2X Bullets", 3},
	Speed:         {"speed", "Speed Up", 3},
	ExtraLife:     {"extraLife", "+1 Life", 5},
	SpreadShot:    {"spreadShot", "Spread Shot", 3},
	BiggerBullets: {"biggerBullets", "Big Bullets", 3},
	Invisibility:  {"invisibility", "Invisibility", 3},
	Shield:        {"shield", "Shield", 3},
	Freeze:        {"freeze", "Freeze Ray", 3},
}

// All returns every type in catalog order.
func All() []Type {
	types := make([]Type, numTypes)
	for i := range types {
		types[i] = Type(i)
	}
	return types
}

// Valid reports whether t is one of the catalog types.
func (t Type) Valid() bool {
	return t >= 0 && t < numTypes
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return catalog[t].id
}

// Label returns the display text for offer tiles.
func (t Type) Label() string {
	if !t.Valid() {
		return ""
	}
	return catalog[t].label
}

// Max returns the highest level the type can reach.
func (t Type) Max() int {
	if !t.Valid() {
		return 0
	}
	return catalog[t].max
}

// Record is a read-only view of one type's progress.
type Record struct {
	Type  Type
	Label string
	Level int
	Max   int
	Used  bool
}

// Progression holds per-type levels and the used set for one session.
type Progression struct {
	levels [numTypes]int
	used   map[Type]struct{}
}

// New returns a progression with every type at level 0.
func New() *Progression {
	return &Progression{used: make(map[Type]struct{})}
}

// Level returns the current level of t.
func (p *Progression) Level(t Type) int {
	if !t.Valid() {
		return 0
	}
	return p.levels[t]
}

// Used reports whether t has been maxed and retired from offers.
func (p *Progression) Used(t Type) bool {
	_, ok := p.used[t]
	return ok
}

// Eligible returns the types that may still be offered, in catalog order.
func (p *Progression) Eligible() []Type {
	var out []Type
	for _, t := range All() {
		if p.levels[t] < t.Max() && !p.Used(t) {
			out = append(out, t)
		}
	}
	return out
}

// Offer draws up to n distinct eligible types in random order.
// Returns nil when nothing is eligible.
func (p *Progression) Offer(rng *rand.Rand, n int) []Type {
	eligible := p.Eligible()
	if len(eligible) == 0 || n <= 0 {
		return nil
	}
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if n > len(eligible) {
		n = len(eligible)
	}
	return eligible[:n]
}

// Advance raises t by one level and returns the new level. It returns false
// without changing anything if t is already at its maximum.
func (p *Progression) Advance(t Type) (int, bool) {
	if !t.Valid() || p.levels[t] >= t.Max() {
		return p.Level(t), false
	}
	p.levels[t]++
	if p.levels[t] >= t.Max() {
		p.used[t] = struct{}{}
	}
	return p.levels[t], true
}

// Reset returns every type to level 0 and empties the used set.
func (p *Progression) Reset() {
	p.levels = [numTypes]int{}
	clear(p.used)
}

// Records returns the progress of every type in catalog order.
func (p *Progression) Records() []Record {
	out := make([]Record, 0, numTypes)
	for _, t := range All() {
		out = append(out, Record{
			Type:  t,
			Label: t.Label(),
			Level: p.levels[t],
			Max:   t.Max(),
			Used:  p.Used(t),
		})
	}
	return out
}
