package pixiled

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

// A directory of named textures. Lookups may run concurrently with each other;
// creating and dropping textures is serialized.
type Library struct {
	path     string
	textures map[string]*Texture
	lock     sync.RWMutex
}

// Creates an empty library at path, removing anything already there.
func NewLibrary(path string) (*Library, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, err
	}
	Logger().Info("texture library created", slog.String("path", path))
	return &Library{
		path:     path,
		textures: map[string]*Texture{},
	}, nil
}

// Opens every texture found in the immediate subdirectories of path.
func OpenLibrary(path string) (*Library, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	textures := map[string]*Texture{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		texture, err := OpenTexture(filepath.Join(path, e.Name()))
		if err != nil {
			return nil, err
		}
		textures[e.Name()] = texture
	}
	Logger().Info("texture library opened", slog.String("path", path), slog.Int("textures", len(textures)))
	return &Library{
		path:     path,
		textures: textures,
	}, nil
}

// Creates a texture in the library, replacing any texture of the same name.
func (l *Library) Create(name string, indexer LocationIndexer, channels ...Channel) (*Texture, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if old, ok := l.textures[name]; ok {
		if err := old.Drop(); err != nil {
			return nil, err
		}
		delete(l.textures, name)
	}
	texture, err := NewTexture(filepath.Join(l.path, name), indexer, channels...)
	if err != nil {
		return nil, err
	}
	l.textures[name] = texture
	return texture, nil
}

func (l *Library) Drop(name string) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	texture, ok := l.textures[name]
	if !ok {
		return NewTextureNotFoundError(name)
	}
	delete(l.textures, name)
	return texture.Drop()
}

// The texture names, sorted.
func (l *Library) Names() []string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	names := maps.Keys(l.textures)
	slices.Sort(names)
	return names
}

func (l *Library) Texture(name string) (*Texture, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	texture, ok := l.textures[name]
	if !ok {
		return nil, NewTextureNotFoundError(name)
	}
	return texture, nil
}

func (l *Library) Checkpoint() error {
	l.lock.RLock()
	defer l.lock.RUnlock()
	for _, texture := range l.textures {
		if err := texture.Checkpoint(); err != nil {
			return err
		}
	}
	return nil
}
