package domain

import "fmt"

// Default 2D/3D layout dimensions applied on market creation when the
// payload carries no layout of its own.
const (
	DefaultMapWidth  = 400
	DefaultMapHeight = 300
)

// Stall is a spatial slot in a market's 2D layout, optionally claimed by a
// listing. Its id must be unique within the owning market.
type Stall struct {
	ID         string  `json:"id" yaml:"id"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Z          float64 `json:"z" yaml:"z"`
	Type       string  `json:"type,omitempty" yaml:"type,omitempty"`
	VendorName string  `json:"vendorName,omitempty" yaml:"vendorName,omitempty"`
}

// Map2D is the market's stall layout. The stalls slice is the single source
// of truth for spatial rendering and must stay consistent with listings.
type Map2D struct {
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Stalls []Stall `json:"stalls" yaml:"stalls"`
}

// Map3D holds the 3D rendering parameters of a market.
type Map3D struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	FloorCount   int  `json:"floorCount" yaml:"floorCount"`
	CurrentFloor int  `json:"currentFloor" yaml:"currentFloor"`
}

// Market is a physical location with a spatial stall layout and opening
// metadata.
type Market struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Address      string  `json:"address" yaml:"address"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
	IsOpenToday  bool    `json:"isOpenToday" yaml:"isOpenToday"`
	OpeningHours string  `json:"openingHours,omitempty" yaml:"openingHours,omitempty"`
	Map2D        *Map2D  `json:"map2D,omitempty" yaml:"map2D,omitempty"`
	Map3D        *Map3D  `json:"map3D,omitempty" yaml:"map3D,omitempty"`
}

// DefaultMap2D returns the empty layout applied when a market is created
// without one.
func DefaultMap2D() *Map2D {
	return &Map2D{Width: DefaultMapWidth, Height: DefaultMapHeight, Stalls: []Stall{}}
}

// DefaultMap3D returns the 3D parameters applied when a market is created
// without them.
func DefaultMap3D() *Map3D {
	return &Map3D{Enabled: true, FloorCount: 1, CurrentFloor: 0}
}

// Validate checks the fields a market must carry before storage.
func (m *Market) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("market name is required")
	}
	return nil
}

// StallByID looks up a stall in the 2D layout.
func (m *Market) StallByID(id string) (Stall, bool) {
	if m.Map2D == nil {
		return Stall{}, false
	}
	for _, s := range m.Map2D.Stalls {
		if s.ID == id {
			return s, true
		}
	}
	return Stall{}, false
}

// HasStall reports whether the 2D layout contains a stall with the given id.
func (m *Market) HasStall(id string) bool {
	_, ok := m.StallByID(id)
	return ok
}

// AddStall appends a stall to the 2D layout, creating the layout if the
// market has none yet.
func (m *Market) AddStall(s Stall) {
	if m.Map2D == nil {
		m.Map2D = DefaultMap2D()
	}
	m.Map2D.Stalls = append(m.Map2D.Stalls, s)
}

// RemoveStall removes all stalls with the given id from the 2D layout and
// reports whether anything was removed.
func (m *Market) RemoveStall(id string) bool {
	if m.Map2D == nil {
		return false
	}
	kept := m.Map2D.Stalls[:0]
	removed := false
	for _, s := range m.Map2D.Stalls {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	m.Map2D.Stalls = kept
	return removed
}
