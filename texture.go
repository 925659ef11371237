package pixiled

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const TextureFileExt string = ".tex.json"

const (
	IndexerKey string = "indexer"
	CreatedAt  string = "created-at"
)

type ResultSet struct {
	Channels []Channel
	Rows     [][]Value
}

// A raster of channel values wrapped around a sphere. Fixtures sample it by
// the direction of each pixel from the installation's zero, so a texture acts
// as a position-keyed pattern source that survives restarts.
type Texture struct {
	store       *Store
	Indexer     LocationIndexer   `json:"-"`
	IndexerSpec IndexerSpec       `json:"indexer"`
	Metadata    map[string]string `json:"metadata"`
}

func NewTexture(path string, indexer LocationIndexer, channels ...Channel) (*Texture, error) {
	store, err := NewStore(path, indexer.Size(), channels...)
	if err != nil {
		return nil, err
	}

	texture := &Texture{
		store:       store,
		Indexer:     indexer,
		IndexerSpec: indexer.Spec(),
		Metadata:    map[string]string{},
	}

	created, _ := time.Now().UTC().MarshalText()
	texture.Metadata[IndexerKey] = indexer.Name()
	texture.Metadata[CreatedAt] = string(created)

	if err := texture.saveMetadata(); err != nil {
		return nil, err
	}
	Logger().Info("texture created", slog.String("name", store.Name), slog.String("indexer", indexer.Name()), slog.Int("rows", store.Rows))
	return texture, nil
}

func OpenTexture(path string) (*Texture, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}

	jsonText, err := os.ReadFile(filepath.Join(path, store.Name+TextureFileExt))
	if err != nil {
		return nil, err
	}
	texture := &Texture{store: store}
	if err := json.Unmarshal(jsonText, texture); err != nil {
		return nil, err
	}
	if texture.Metadata == nil {
		texture.Metadata = map[string]string{}
	}
	if texture.Indexer, err = NewIndexer(texture.IndexerSpec); err != nil {
		return nil, err
	}
	return texture, nil
}

func (t *Texture) Path() string {
	return t.store.Path()
}

func (t *Texture) Name() string {
	return t.store.Name
}

func (t *Texture) Channels() []Channel {
	return t.store.Channels
}

func (t *Texture) SetMetadata(key string, value string) error {
	t.Metadata[key] = value
	return t.saveMetadata()
}

func (t *Texture) saveMetadata() error {
	jsonData, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(t.store.Path(), t.store.Name+TextureFileExt), jsonData, 0666)
}

// Reads the named channels at each location.
func (t *Texture) Get(channels []string, locations ...Location) (ResultSet, error) {
	proj, err := t.store.Projection(channels...)
	if err != nil {
		return ResultSet{}, err
	}
	rows := make([][]Value, len(locations))
	for i, loc := range locations {
		index, err := t.Indexer.ToIndex(loc)
		if err != nil {
			return ResultSet{}, err
		}
		row, err := t.store.RowAt(index)
		if err != nil {
			return ResultSet{}, err
		}
		rows[i] = row.Project(proj)
	}
	return ResultSet{
		Channels: t.store.FilterChannels(proj),
		Rows:     rows,
	}, nil
}

// Writes values[i] into the named channels at locations[i]. Returns how many
// locations were written before any failure. Mismatched value rows are
// rejected before anything is written.
func (t *Texture) Set(channels []string, locations []Location, values [][]Value) (int, error) {
	proj, err := t.store.Projection(channels...)
	if err != nil {
		return 0, err
	}
	if len(values) != len(locations) {
		return 0, NewConfigError("texture", fmt.Sprintf("%d value rows given for %d locations", len(values), len(locations)))
	}
	for i, vals := range values {
		if len(vals) != len(proj) {
			return 0, NewConfigError("texture", fmt.Sprintf("value row %d has %d values for %d channels", i, len(vals), len(proj)))
		}
		for v, c := range proj {
			if len(vals[v]) != c.size {
				return 0, NewConfigError("texture", fmt.Sprintf("value of %d bytes written to %d byte channel '%s'", len(vals[v]), c.size, channels[v]))
			}
		}
	}

	for i, loc := range locations {
		index, err := t.Indexer.ToIndex(loc)
		if err != nil {
			return i, err
		}
		row, err := t.store.RowAt(index)
		if err != nil {
			return i, err
		}
		for v, c := range proj {
			copy(row[c.start:c.start+c.size], values[i][v])
		}
		if err := t.store.SetRowAt(index, row); err != nil {
			return i, err
		}
	}
	return len(locations), nil
}

func (t *Texture) SetValue(channel string, location Location, value Value) error {
	index, err := t.Indexer.ToIndex(location)
	if err != nil {
		return err
	}
	return t.store.SetValueAt(channel, index, value)
}

var rgbChannelNames = []string{"r", "g", "b"}

// Writes a colour into the r, g and b channels at location.
func (t *Texture) Paint(location Location, colour RGB) error {
	_, err := t.Set(rgbChannelNames, []Location{location},
		[][]Value{{NewUint8Value(colour.R), NewUint8Value(colour.G), NewUint8Value(colour.B)}})
	return err
}

// Reads the colour in the r, g and b channels at location.
func (t *Texture) Sample(location Location) (RGB, error) {
	rs, err := t.Get(rgbChannelNames, location)
	if err != nil {
		return RGB{}, err
	}
	row := rs.Rows[0]
	return RGB{R: row[0].AsUint8(), G: row[1].AsUint8(), B: row[2].AsUint8()}, nil
}

func (t *Texture) Checkpoint() error {
	return t.store.Checkpoint()
}

func (t *Texture) Drop() error {
	Logger().Info("texture dropped", slog.String("name", t.store.Name))
	return t.store.Drop()
}
