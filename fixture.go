package pixiled

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
)

type CommandType string

const (
	CmdRotate    CommandType = "rotate"
	CmdTranslate CommandType = "translate"
	CmdMove      CommandType = "move"
	CmdReanchor  CommandType = "reanchor"
)

// A geometry change sent by a controller to the fixtures it targets. Axis and
// Frame use the names accepted by ParseAxis and ParseFrame.
type Command struct {
	Type   CommandType `json:"type"`
	Axis   string      `json:"axis,omitempty"`
	Frame  string      `json:"frame,omitempty"`
	Value  float64     `json:"value,omitempty"`
	Vector Cartesian   `json:"vector"`
}

type Pixel struct {
	Index int
	Coord *Coordinate
}

// The per-tick view of one pixel that patterns read.
type PixelState struct {
	Index       int
	Global      Cartesian
	Spherical   Spherical
	LocalDelta  float64
	GlobalDelta float64
}

// A physical light fixture: a run of pixels sharing one local origin, the
// fixture's location in the installation. Controller commands and render reads
// may come from different goroutines; every command is applied to all pixels
// under one write lock, so readers never see a half-moved fixture.
type Fixture struct {
	Name    string
	Senders []string
	Line    int
	Texture string

	origin Cartesian
	pixels []Pixel
	lock   sync.RWMutex
}

func NewFixture(cfg FixtureConfig) (*Fixture, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var opts [][]CoordinateOption
	switch cfg.Geometry {
	case "points":
		if len(cfg.Points) == 0 {
			return nil, NewConfigError("fixture "+cfg.Name, "points geometry needs at least one point")
		}
		for _, p := range cfg.Points {
			opts = append(opts, []CoordinateOption{WithLocalCartesian(p)})
		}
	case "strip":
		if cfg.Pixels <= 0 {
			return nil, NewConfigError("fixture "+cfg.Name, "strip geometry needs a positive pixel count")
		}
		spacing := cfg.Spacing
		if spacing == 0 {
			spacing = 1
		}
		for i := 0; i < cfg.Pixels; i++ {
			opts = append(opts, []CoordinateOption{WithLocalCartesian(Cartesian{X: float64(i) * spacing})})
		}
	case "ring":
		if cfg.Pixels <= 0 || cfg.Radius <= 0 {
			return nil, NewConfigError("fixture "+cfg.Name, "ring geometry needs a positive pixel count and radius")
		}
		step := 2 * math.Pi / float64(cfg.Pixels)
		for i := 0; i < cfg.Pixels; i++ {
			opts = append(opts, []CoordinateOption{WithLocalCylindrical(Cylindrical{R: cfg.Radius, Theta: float64(i) * step})})
		}
	default:
		return nil, NewConfigError("fixture "+cfg.Name, fmt.Sprintf("unknown geometry '%s'", cfg.Geometry))
	}

	f := &Fixture{
		Name:    cfg.Name,
		Senders: slices.Clone(cfg.Senders),
		Line:    cfg.Line,
		Texture: cfg.Texture,
		origin:  *cfg.Location,
		pixels:  make([]Pixel, len(opts)),
	}
	for i, o := range opts {
		coord, err := NewCoordinate(append(o, WithOrigin(f.origin))...)
		if err != nil {
			return nil, err
		}
		f.pixels[i] = Pixel{Index: i, Coord: coord}
	}
	Logger().Debug("fixture laid out", slog.String("name", f.Name), slog.String("geometry", cfg.Geometry), slog.Int("pixels", len(f.pixels)))
	return f, nil
}

func (f *Fixture) Len() int {
	return len(f.pixels)
}

func (f *Fixture) HasSender(name string) bool {
	return slices.Contains(f.Senders, name)
}

// The global position of the fixture's local origin.
func (f *Fixture) Origin() Cartesian {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.origin
}

// Copies of every pixel's coordinate, in pixel order.
func (f *Fixture) Coordinates() []Coordinate {
	f.lock.RLock()
	defer f.lock.RUnlock()
	coords := make([]Coordinate, len(f.pixels))
	for i, p := range f.pixels {
		coords[i] = *p.Coord
	}
	return coords
}

// Rotates every pixel. A global rotation also swings the fixture's origin about
// the installation's zero, so the fixture turns as one rigid body.
func (f *Fixture) Rotate(axis Axis, frame Frame, angle float64) error {
	if axis != Theta && axis != Phi {
		return NewInvalidParameterError("axis", axis.String())
	}
	if !frame.valid() {
		return NewInvalidParameterError("frame", frame.String())
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	for _, p := range f.pixels {
		if err := p.Coord.Rotate(axis, frame, angle); err != nil {
			return err
		}
	}
	if frame == Global {
		origin := f.origin.ToSpherical()
		if err := origin.AddAngle(axis, angle); err != nil {
			return err
		}
		f.origin = origin.ToCartesian()
	}
	return nil
}

// Moves every pixel by delta within the fixture's local frame.
func (f *Fixture) Translate(delta Cartesian) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, p := range f.pixels {
		p.Coord.AddCartesian(delta)
	}
}

// Relocates the fixture: pixels keep their local positions and move globally.
func (f *Fixture) MoveTo(origin Cartesian) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.origin = origin
	for _, p := range f.pixels {
		p.Coord.SetLocalOrigin(origin)
	}
}

// Re-anchors the fixture's local frame at origin; pixels stay where they are in
// the installation.
func (f *Fixture) Reanchor(origin Cartesian) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.origin = origin
	for _, p := range f.pixels {
		p.Coord.MakeRelativeTo(origin)
	}
}

// Applies a controller command.
func (f *Fixture) Command(cmd Command) error {
	switch cmd.Type {
	case CmdRotate:
		axis, err := ParseAxis(cmd.Axis)
		if err != nil {
			return err
		}
		frame, err := ParseFrame(cmd.Frame)
		if err != nil {
			return err
		}
		return f.Rotate(axis, frame, cmd.Value)
	case CmdTranslate:
		f.Translate(cmd.Vector)
	case CmdMove:
		f.MoveTo(cmd.Vector)
	case CmdReanchor:
		f.Reanchor(cmd.Vector)
	default:
		return NewInvalidParameterError("command", string(cmd.Type))
	}
	return nil
}

// Copies what patterns read from every pixel, under a single read lock, so a
// render tick works from one consistent view of the fixture.
func (f *Fixture) Snapshot() []PixelState {
	f.lock.RLock()
	defer f.lock.RUnlock()
	states := make([]PixelState, len(f.pixels))
	for i, p := range f.pixels {
		states[i] = PixelState{
			Index:       p.Index,
			Global:      p.Coord.Cartesian(Global),
			Spherical:   p.Coord.Spherical(Global),
			LocalDelta:  p.Coord.delta[Local],
			GlobalDelta: p.Coord.delta[Global],
		}
	}
	return states
}

// The spatial key of every pixel in the frame at show time t.
func (f *Fixture) Keys(frame Frame, t float64) ([]float64, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	keys := make([]float64, len(f.pixels))
	for i, p := range f.pixels {
		key, err := SpatialKey(p.Coord, frame, t)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

// Samples the texture behind every pixel, in pixel order.
func (f *Fixture) Render(texture *Texture) ([]RGB, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	colours := make([]RGB, len(f.pixels))
	for i, p := range f.pixels {
		c, err := texture.Sample(p.Coord)
		if err != nil {
			return nil, fmt.Errorf("fixture %s pixel %d: %w", f.Name, p.Index, err)
		}
		colours[i] = c
	}
	return colours, nil
}
