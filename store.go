package pixiled

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DataFileExt     = ".dat"
	MetadataFileExt = ".meta.json"
	MaxPagesInCache = 64
)

// Where one channel sits inside a row.
type ChannelProjection struct {
	index int
	start int
	size  int
}

type Projection []ChannelProjection

// One row of a store, the concatenated channel values of a single texture
// pixel.
type Row []byte

func (r Row) Project(proj Projection) []Value {
	vals := make([]Value, len(proj))
	for i, channel := range proj {
		vals[i] = Value(r[channel.start : channel.start+channel.size])
	}
	return vals
}

// A fixed number of rows of fixed-size channels, kept compact in one flat data
// file and paged through a PageCache. Rows never straddle a page. The channel
// layout lives beside the data file in a small JSON metadata file.
type Store struct {
	// The folder the store lives in, and the base name of its files.
	Name     string    `json:"-"`
	Channels []Channel `json:"channels"`
	Rows     int       `json:"rows"`
	path     string
	cache    *PageCache

	channelMap  map[string]ChannelProjection
	rowSize     int
	rowsPerPage int
}

func NewStore(path string, rows int, channels ...Channel) (*Store, error) {
	if len(channels) < 1 {
		return nil, ErrZeroChannels
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, err
	}

	store := newStoreLayout(path, rows, channels)
	if store.rowsPerPage < 1 {
		return nil, NewConfigError("store", fmt.Sprintf("row of %d bytes does not fit in a page", store.rowSize))
	}

	jsonData, err := json.Marshal(store)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(path, store.Name+MetadataFileExt), jsonData, 0666); err != nil {
		return nil, err
	}

	defaultRow := store.DefaultRow()
	defaultPage := make([]byte, 0, store.rowsPerPage*store.rowSize)
	for i := 0; i < store.rowsPerPage; i++ {
		defaultPage = append(defaultPage, defaultRow...)
	}
	pages := (rows + store.rowsPerPage - 1) / store.rowsPerPage
	if err := store.cache.Initialize(pages, defaultPage); err != nil {
		return nil, err
	}
	return store, nil
}

func OpenStore(path string) (*Store, error) {
	name := filepath.Base(path)
	jsonText, err := os.ReadFile(filepath.Join(path, name+MetadataFileExt))
	if err != nil {
		return nil, err
	}
	var meta Store
	if err := json.Unmarshal(jsonText, &meta); err != nil {
		return nil, err
	}
	if len(meta.Channels) < 1 {
		return nil, ErrZeroChannels
	}
	return newStoreLayout(path, meta.Rows, meta.Channels), nil
}

// newStoreLayout computes the row layout without touching the disk.
func newStoreLayout(path string, rows int, channels []Channel) *Store {
	name := filepath.Base(path)
	cache := NewPageCache(filepath.Join(path, name+DataFileExt), MaxPagesInCache)

	channelMap := make(map[string]ChannelProjection, len(channels))
	rowSize := 0
	for i, c := range channels {
		channelMap[c.Name] = ChannelProjection{i, rowSize, c.Size()}
		rowSize += c.Size()
	}
	return &Store{
		Name:        name,
		Channels:    channels,
		Rows:        rows,
		path:        path,
		cache:       cache,
		channelMap:  channelMap,
		rowSize:     rowSize,
		rowsPerPage: cache.PageSize() / rowSize,
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) RowSize() int {
	return s.rowSize
}

func (s *Store) RowsPerPage() int {
	return s.rowsPerPage
}

func (s *Store) DefaultRow() Row {
	row := make([]byte, 0, s.rowSize)
	for _, c := range s.Channels {
		row = append(row, c.Default...)
	}
	return row
}

func (s *Store) FilterChannels(proj Projection) []Channel {
	channels := make([]Channel, len(proj))
	for i, p := range proj {
		channels[i] = s.Channels[p.index]
	}
	return channels
}

// Resolves channel names to their positions within a row, in the order given.
func (s *Store) Projection(channels ...string) (Projection, error) {
	proj := make(Projection, len(channels))
	for i, c := range channels {
		cproj, ok := s.channelMap[c]
		if !ok {
			return nil, NewChannelNotFoundError(s.Name, c)
		}
		proj[i] = cproj
	}
	return proj, nil
}

// Returns a copy of the row at index.
func (s *Store) RowAt(index int) (Row, error) {
	if err := s.checkRow(index); err != nil {
		return nil, err
	}
	return s.cache.ReadChunk(index/s.rowsPerPage, (index%s.rowsPerPage)*s.rowSize, s.rowSize)
}

func (s *Store) SetRowAt(index int, row Row) error {
	if err := s.checkRow(index); err != nil {
		return err
	}
	if len(row) != s.rowSize {
		return NewConfigError("store", fmt.Sprintf("row of %d bytes written to store '%s' of %d byte rows", len(row), s.Name, s.rowSize))
	}
	return s.cache.WriteChunk(index/s.rowsPerPage, (index%s.rowsPerPage)*s.rowSize, row)
}

// Overwrites a single channel of the row at index.
func (s *Store) SetValueAt(channel string, index int, value Value) error {
	if err := s.checkRow(index); err != nil {
		return err
	}
	cproj, ok := s.channelMap[channel]
	if !ok {
		return NewChannelNotFoundError(s.Name, channel)
	}
	if len(value) != cproj.size {
		return NewConfigError("store", fmt.Sprintf("value of %d bytes written to %d byte channel '%s'", len(value), cproj.size, channel))
	}
	return s.cache.WriteChunk(index/s.rowsPerPage, (index%s.rowsPerPage)*s.rowSize+cproj.start, value)
}

func (s *Store) Checkpoint() error {
	return s.cache.Flush()
}

func (s *Store) Drop() error {
	s.cache.Discard()
	return os.RemoveAll(s.path)
}

func (s *Store) checkRow(index int) error {
	if index < 0 || index >= s.Rows {
		return NewLocationOutOfBoundsError(IndexLocation(index))
	}
	return nil
}
