package pixiled

import "math"

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Multiplies every component by factor, clamping to the 0..255 range.
func (c RGB) Scale(factor float64) RGB {
	scale := func(v uint8) uint8 {
		s := math.Round(float64(v) * factor)
		if s > math.MaxUint8 {
			return math.MaxUint8
		}
		if s < 0 {
			return 0
		}
		return uint8(s)
	}
	return RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}

// The scalar a radial pattern feeds to its palette for a pixel: the pixel's
// distance from the frame's zero, rippled by its azimuth and the show time.
func SpatialKey(c *Coordinate, frame Frame, t float64) (float64, error) {
	delta, err := c.Delta(frame)
	if err != nil {
		return 0, err
	}
	return delta + math.Sin(3*c.Spherical(frame).Theta+t)/4, nil
}

// Brightness multiplier of a flash overlay elapsed seconds after it fired. It
// starts at 2 and decays back to 1 at a rate set by decay.
func FlashFactor(decay float64, elapsed float64) float64 {
	factor := math.Min(2, 1/nonzero((elapsed+0.25)*decay))
	return math.Max(factor, 1)
}
