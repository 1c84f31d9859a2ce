package warehouse

import (
	"errors"
	"time"
)

// Parcel is anything that can be put on a scale.
type Parcel interface {
	Weight() float64
}

// Tracked parcels carry a carrier tracking code.
type Tracked interface {
	Parcel
	TrackingCode() string
}

// Box is a tracked cardboard box.
type Box struct {
	Grams float64 `persist:"grams"`
	Code  string  `persist:"code"`
}

func (b Box) Weight() float64      { return b.Grams }
func (b Box) TrackingCode() string { return b.Code }

// Envelope is an untracked letter.
type Envelope struct {
	Grams float64 `persist:"grams"`
}

func (e Envelope) Weight() float64 { return e.Grams }

// Zone is a delivery zone.
type Zone int

const (
	ZoneNorth Zone = iota + 1
	ZoneSouth
	ZoneAbroad
)

func (z Zone) String() string {
	switch z {
	case ZoneNorth:
		return "north"
	case ZoneSouth:
		return "south"
	case ZoneAbroad:
		return "abroad"
	default:
		return "unknown"
	}
}

// Shipment groups the parcels leaving the warehouse together.
type Shipment struct {
	ID        uint       `persist:"id"`
	Zone      Zone       `persist:"zone"`
	Parcels   []Parcel   `persist:"parcels,elem=parcel"`
	ShippedAt *time.Time `persist:"shipped_at,format=DateTime"`
	Legacy    int        `persist:"legacy,omitempty"`
}

// NewShipment returns an empty shipment heading north.
func NewShipment(id uint) (*Shipment, error) {
	if id == 0 {
		return nil, errors.New("shipment id must be positive")
	}

	return &Shipment{ID: id, Zone: ZoneNorth}, nil
}
