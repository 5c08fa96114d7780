package domain

import "fmt"

// EstimatedWalkTime is a fixed placeholder, not computed from distance.
const EstimatedWalkTime = "2-3 minutes"

// Route is the coordinate plus textual direction answer for reaching a
// stall from the market entrance.
type Route struct {
	StallNumber   string   `json:"stallNumber"`
	Location      Location `json:"location"`
	Directions    string   `json:"directions"`
	EstimatedTime string   `json:"estimatedTime"`
}

// NewRoute builds a route to a stall. Directions follow a fixed template;
// there is no pathfinding.
func NewRoute(stallNumber string, loc Location) Route {
	return Route{
		StallNumber: stallNumber,
		Location:    loc,
		Directions: fmt.Sprintf(
			"From the market entrance walk to stall %s. Location: X=%v, Y=%v.",
			stallNumber, loc.X, loc.Y,
		),
		EstimatedTime: EstimatedWalkTime,
	}
}
