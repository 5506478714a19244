package powerup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	want := map[string]int{
		"doubleBullet":  3,
		"speed":         3,
		"extraLife":     5,
		"spreadShot":    3,
		"biggerBullets": 3,
		"invisibility":  3,
		"shield":        3,
		"freeze":        3,
	}

	types := All()
	require.Len(t, types, 8)
	for _, pt := range types {
		max, ok := want[pt.String()]
		require.True(t, ok, "unexpected type %s", pt)
		assert.Equal(t, max, pt.Max(), pt.String())
		assert.NotEmpty(t, pt.Label())
	}
}

func TestAdvanceSaturatesAndRetires(t *testing.T) {
	p := New()

	for want := 1; want <= 3; want++ {
		level, ok := p.Advance(DoubleBullet)
		require.True(t, ok)
		assert.Equal(t, want, level)
	}
	assert.True(t, p.Used(DoubleBullet))

	level, ok := p.Advance(DoubleBullet)
	assert.False(t, ok)
	assert.Equal(t, 3, level, "level never exceeds max")
	assert.NotContains(t, p.Eligible(), DoubleBullet)
}

func TestExtraLifeHasFiveLevels(t *testing.T) {
	p := New()
	for i := 0; i < 4; i++ {
		p.Advance(ExtraLife)
	}
	assert.False(t, p.Used(ExtraLife))
	assert.Contains(t, p.Eligible(), ExtraLife)

	p.Advance(ExtraLife)
	assert.True(t, p.Used(ExtraLife))
}

func TestOfferDrawsDistinctEligible(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := New()
	p.Advance(Shield)
	p.Advance(Shield)
	p.Advance(Shield)

	for i := 0; i < 200; i++ {
		offer := p.Offer(rng, 2)
		require.Len(t, offer, 2)
		assert.NotEqual(t, offer[0], offer[1])
		assert.NotContains(t, offer, Shield, "maxed types are never offered")
	}
}

func TestOfferFewerThanRequested(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := New()
	for _, pt := range All() {
		if pt == Freeze {
			continue
		}
		for p.Level(pt) < pt.Max() {
			p.Advance(pt)
		}
	}

	assert.Equal(t, []Type{Freeze}, p.Offer(rng, 2))

	for p.Level(Freeze) < Freeze.Max() {
		p.Advance(Freeze)
	}
	assert.Nil(t, p.Offer(rng, 2), "nothing left to offer")
}

func TestOfferCoversAllTypes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := New()
	seen := map[Type]bool{}
	for i := 0; i < 500; i++ {
		for _, pt := range p.Offer(rng, 2) {
			seen[pt] = true
		}
	}
	assert.Len(t, seen, 8)
}

func TestReset(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		p.Advance(Speed)
	}
	p.Advance(Freeze)
	require.True(t, p.Used(Speed))

	p.Reset()
	for _, r := range p.Records() {
		assert.Zero(t, r.Level, r.Type.String())
		assert.False(t, r.Used, r.Type.String())
	}
	assert.Len(t, p.Eligible(), 8)
}

func TestInvalidType(t *testing.T) {
	p := New()
	bogus := Type(42)
	assert.False(t, bogus.Valid())
	_, ok := p.Advance(bogus)
	assert.False(t, ok)
	assert.Zero(t, p.Level(bogus))
	assert.Equal(t, "Type(42)", bogus.String())
}
