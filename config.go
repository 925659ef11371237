package pixiled

import (
	"encoding/json"
	"fmt"

	"github.com/sauerbraten/jsonfile"
)

// An output device. Only what is needed to validate the rig is kept here;
// opening and driving the device is up to the host process.
type SenderConfig struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Port     string `json:"port"`
	NumLines int    `json:"num_lines"`
}

type FixtureConfig struct {
	Name     string     `json:"name"`
	Geometry string     `json:"geometry"`
	Location *Cartesian `json:"location"`
	Senders  []string   `json:"senders"`
	Line     int        `json:"line"`

	// strip and ring geometries
	Pixels  int     `json:"pixels"`
	Spacing float64 `json:"spacing"`
	Radius  float64 `json:"radius"`

	// points geometry, in the fixture's local frame
	Points []Cartesian `json:"points"`

	Texture string `json:"texture"`
}

type TextureConfig struct {
	Name    string      `json:"name"`
	Indexer IndexerSpec `json:"indexer"`
}

// The description of a whole installation.
type Config struct {
	Senders  []SenderConfig  `json:"senders"`
	Fixtures []FixtureConfig `json:"fixtures"`
	Textures []TextureConfig `json:"textures"`
}

// Parses and validates the rig description at path. The file is JSON and may
// contain // line comments.
func LoadConfig(path string) (*Config, error) {
	var conf Config
	if err := jsonfile.ParseFile(path, &conf); err != nil {
		return nil, fmt.Errorf("pixiled: parsing %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (f FixtureConfig) validate() error {
	if f.Name == "" {
		return NewConfigError("fixture", "config contains no name")
	}
	if f.Location == nil {
		return NewConfigError("fixture "+f.Name, "config contains no location")
	}
	if len(f.Senders) == 0 {
		return NewConfigError("fixture "+f.Name, "config contains no sender")
	}
	return nil
}

// Checks the rig for duplicate or dangling names, clashing ports and lines,
// and fixtures that cannot be laid out.
func (c *Config) Validate() error {
	senders := map[string]SenderConfig{}
	ports := map[string]string{}
	for _, s := range c.Senders {
		if s.Name == "" {
			return NewConfigError("sender", "config contains no name")
		}
		if _, ok := senders[s.Name]; ok {
			return NewConfigError("sender "+s.Name, "name is used by more than one sender")
		}
		if other, ok := ports[s.Port]; ok && s.Port != "" {
			return NewConfigError("sender "+s.Name, fmt.Sprintf("port %s is already used by sender %s", s.Port, other))
		}
		switch s.Type {
		case "usb_serial":
			if s.NumLines <= 0 {
				return NewConfigError("sender "+s.Name, "config contains no num_lines")
			}
		case "opc":
		default:
			return NewConfigError("sender "+s.Name, fmt.Sprintf("unknown sender type '%s'", s.Type))
		}
		senders[s.Name] = s
		ports[s.Port] = s.Name
	}

	textures := map[string]bool{}
	for _, t := range c.Textures {
		if t.Name == "" {
			return NewConfigError("texture", "config contains no name")
		}
		if textures[t.Name] {
			return NewConfigError("texture "+t.Name, "name is used by more than one texture")
		}
		if _, err := NewIndexer(t.Indexer); err != nil {
			return fmt.Errorf("texture %s: %w", t.Name, err)
		}
		textures[t.Name] = true
	}

	type senderLine struct {
		sender string
		line   int
	}
	fixtures := map[string]bool{}
	lines := map[senderLine]string{}
	for _, f := range c.Fixtures {
		if err := f.validate(); err != nil {
			return err
		}
		if fixtures[f.Name] {
			return NewConfigError("fixture "+f.Name, "name is used by more than one fixture")
		}
		for _, name := range f.Senders {
			s, ok := senders[name]
			if !ok {
				return NewConfigError("fixture "+f.Name, fmt.Sprintf("specified with undefined sender %s", name))
			}
			if s.Type == "usb_serial" && (f.Line < 0 || f.Line >= s.NumLines) {
				return NewConfigError("fixture "+f.Name, fmt.Sprintf("line %d is not one of the %d lines of sender %s", f.Line, s.NumLines, name))
			}
			key := senderLine{name, f.Line}
			if other, ok := lines[key]; ok {
				return NewConfigError("fixture "+f.Name, fmt.Sprintf("shares sender %s line %d with fixture %s", name, f.Line, other))
			}
			lines[key] = f.Name
		}
		if f.Texture != "" && !textures[f.Texture] {
			return NewConfigError("fixture "+f.Name, fmt.Sprintf("specified with undefined texture %s", f.Texture))
		}
		fixtures[f.Name] = true
	}
	return nil
}

// Lays out every configured fixture, in config order.
func (c *Config) BuildFixtures() ([]*Fixture, error) {
	fixtures := make([]*Fixture, 0, len(c.Fixtures))
	for _, fc := range c.Fixtures {
		f, err := NewFixture(fc)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// Accepts either {"x": 1, "y": 2, "z": 3} or the shorter [1, 2, 3].
func (v *Cartesian) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) != 3 {
			return NewConfigError("vector", fmt.Sprintf("expected 3 components, got %d", len(arr)))
		}
		*v = Cartesian{arr[0], arr[1], arr[2]}
		return nil
	}
	type plain Cartesian
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*v = Cartesian(p)
	return nil
}
