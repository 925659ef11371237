package pixiled

import (
	"encoding/json"
	"io"
)

type layoutPoint struct {
	Point [3]float64 `json:"point"`
}

// Writes the Open Pixel Control gl-server layout for the fixtures: one
// {"point": [x, y, z]} entry per pixel, fixtures in the order given, each
// point at the pixel's current global position.
func WriteLayout(w io.Writer, fixtures ...*Fixture) error {
	points := []layoutPoint{}
	for _, f := range fixtures {
		for _, state := range f.Snapshot() {
			points = append(points, layoutPoint{Point: [3]float64{state.Global.X, state.Global.Y, state.Global.Z}})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(points)
}
