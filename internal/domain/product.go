package domain

import "fmt"

// Product is a catalog entry independent of any specific market.
type Product struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Unit      string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Freshness string `json:"freshness,omitempty" yaml:"freshness,omitempty"`
}

// Validate checks the fields a product must carry before storage.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	return nil
}
