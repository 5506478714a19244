package object

import (
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/powerup"
)

// PowerUpOffer is an on-screen power-up choice. Offers exist only between a
// wave-up and the player's pick.
type PowerUpOffer struct {
	Type  powerup.Type
	Label string
	Rect  physics.Rect
}

// NewOffers lays out one tile per power-up, left to right.
func NewOffers(types []powerup.Type) []PowerUpOffer {
	offers := make([]PowerUpOffer, 0, len(types))
	for i, t := range types {
		offers = append(offers, PowerUpOffer{
			Type:  t,
			Label: t.Label(),
			Rect: physics.Rect{
				X:      config.OfferBaseX + float64(i)*config.OfferSpacing,
				Y:      config.OfferY,
				Width:  config.OfferSize,
				Height: config.OfferSize,
			},
		})
	}
	return offers
}

// Bounds returns the offer tile.
func (o PowerUpOffer) Bounds() physics.Rect {
	return o.Rect
}
