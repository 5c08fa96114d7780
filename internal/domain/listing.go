package domain

import "fmt"

// Location is a point in a market's coordinate space.
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Listing is a market-specific offering of a product at a price and stall
// location by a named vendor. The x/y/z fields are a denormalized copy of
// the stall position so route answers never re-join the market layout.
type Listing struct {
	ID          string  `json:"id" yaml:"id"`
	MarketID    string  `json:"marketId" yaml:"marketId"`
	ProductID   string  `json:"productId" yaml:"productId"`
	Price       float64 `json:"price" yaml:"price"`
	StallNumber string  `json:"stallNumber" yaml:"stallNumber"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Z           float64 `json:"z" yaml:"z"`
	VendorName  string  `json:"vendorName,omitempty" yaml:"vendorName,omitempty"`

	// Seq is assigned by storage on first write and fixes insertion order,
	// which cheapest-price tie-breaks depend on.
	Seq int64 `json:"seq,omitempty" yaml:"seq,omitempty"`
}

// Location returns the listing's denormalized stall position.
func (l *Listing) Location() Location {
	return Location{X: l.X, Y: l.Y, Z: l.Z}
}

// Validate checks the fields a listing must carry before storage.
func (l *Listing) Validate() error {
	if l.ProductID == "" {
		return fmt.Errorf("listing productId is required")
	}
	if l.Price <= 0 {
		return fmt.Errorf("listing price must be positive, got %v", l.Price)
	}
	return nil
}
