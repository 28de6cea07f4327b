// README: Shared identifiers and geographic value objects.
package types

import (
    "fmt"
    "math"
)

type ID string

type Point struct {
    Lat float64 `json:"lat"`
    Lng float64 `json:"lng"`
}

// Valid reports whether the point is a finite WGS84 coordinate.
func (p Point) Valid() bool {
    if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
        return false
    }
    return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p Point) String() string {
    return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
