package pixiled

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/exp/maps"
)

// 4 bytes for the CRC-32 stored ahead of each page on disk
const ChecksumSize int = 4

type cachedPage struct {
	data     []byte
	dirty    bool
	lastUsed uint64
}

// Fixed-size pages of one file, cached in memory up to a limit with the least
// recently used page evicted first. Each page is stored on disk behind its
// CRC-32, which is verified on every read from disk; the checksum never shows
// up in the data handed out. Safe for concurrent use.
type PageCache struct {
	path     string
	pageSize int
	maxPages int

	lock  sync.Mutex
	pages map[int]*cachedPage
	clock uint64
}

// Create a cache over the file at path holding at most maxPages pages. No disk
// side effect; call Initialize when the file does not exist yet.
func NewPageCache(path string, maxPages int) *PageCache {
	if maxPages < 1 {
		maxPages = 1
	}
	return &PageCache{
		path:     path,
		pageSize: os.Getpagesize() - ChecksumSize,
		maxPages: maxPages,
		pages:    make(map[int]*cachedPage),
	}
}

// Writes the given number of pages to the file, each a copy of template padded
// to the page size. A failed write leaves the pages written so far in place; a
// retry simply writes over them.
func (p *PageCache) Initialize(pages int, template []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	file, err := os.OpenFile(p.path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	for i := 0; i < pages; i++ {
		if err := p.writePage(file, i, template); err != nil {
			return err
		}
	}
	return nil
}

// The number of usable bytes per page.
func (p *PageCache) PageSize() int {
	return p.pageSize
}

func (p *PageCache) MaxPages() int {
	return p.maxPages
}

// The number of pages currently held in memory.
func (p *PageCache) Cached() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.pages)
}

// Drops every cached page without writing dirty ones back.
func (p *PageCache) Discard() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.pages = make(map[int]*cachedPage)
}

// Copies size bytes at offset out of the page.
func (p *PageCache) ReadChunk(pageIndex int, offset int, size int) ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	page, err := p.page(pageIndex)
	if err != nil {
		return nil, err
	}
	chunk := make([]byte, size)
	copy(chunk, page.data[offset:offset+size])
	return chunk, nil
}

// Copies chunk into the page at offset and marks the page dirty.
func (p *PageCache) WriteChunk(pageIndex int, offset int, chunk []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	page, err := p.page(pageIndex)
	if err != nil {
		return err
	}
	copy(page.data[offset:], chunk)
	page.dirty = true
	return nil
}

// Writes every dirty page to disk. Stops at the first failure; pages not yet
// written stay dirty so the flush can be retried.
func (p *PageCache) Flush() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.pages) == 0 {
		return nil
	}

	file, err := os.OpenFile(p.path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	for id, page := range p.pages {
		if !page.dirty {
			continue
		}
		if err := p.writePage(file, id, page.data); err != nil {
			return err
		}
		page.dirty = false
	}
	return nil
}

// page returns the cached page, loading it from disk and evicting the least
// recently used page when the cache is full. Callers hold the lock.
func (p *PageCache) page(pageIndex int) (*cachedPage, error) {
	p.clock++
	if page, ok := p.pages[pageIndex]; ok {
		page.lastUsed = p.clock
		return page, nil
	}

	data, err := p.readPage(pageIndex)
	if err != nil {
		return nil, err
	}
	if len(p.pages) >= p.maxPages {
		if err := p.evict(); err != nil {
			return nil, err
		}
	}
	page := &cachedPage{data: data, lastUsed: p.clock}
	p.pages[pageIndex] = page
	return page, nil
}

func (p *PageCache) evict() error {
	victim := -1
	var oldest uint64
	for _, id := range maps.Keys(p.pages) {
		if victim < 0 || p.pages[id].lastUsed < oldest {
			victim = id
			oldest = p.pages[id].lastUsed
		}
	}
	page := p.pages[victim]
	if page.dirty {
		if err := p.openAndWritePage(victim, page.data); err != nil {
			Logger().Warn("page write-back failed", slog.String("file", p.path), slog.Int("page", victim), slog.Any("err", err))
			return err
		}
	}
	Logger().Debug("page evicted", slog.String("file", p.path), slog.Int("page", victim), slog.Bool("dirty", page.dirty))
	delete(p.pages, victim)
	return nil
}

func (p *PageCache) openAndWritePage(pageIndex int, page []byte) error {
	file, err := os.OpenFile(p.path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	return p.writePage(file, pageIndex, page)
}

func (p *PageCache) writePage(file *os.File, pageIndex int, page []byte) error {
	buf := make([]byte, ChecksumSize+p.pageSize)
	copy(buf[ChecksumSize:], page)
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(buf[ChecksumSize:]))

	offset := int64(pageIndex) * int64(p.pageSize+ChecksumSize)
	_, err := file.WriteAt(buf, offset)
	return err
}

func (p *PageCache) readPage(pageIndex int) ([]byte, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	offset := int64(pageIndex) * int64(p.pageSize+ChecksumSize)
	buf := make([]byte, p.pageSize+ChecksumSize)
	if _, err := file.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("pixiled: reading page %d of %s: %w", pageIndex, p.path, err)
	}
	if binary.BigEndian.Uint32(buf) != crc32.ChecksumIEEE(buf[ChecksumSize:]) {
		return nil, fmt.Errorf("pixiled: page %d of %s: %w", pageIndex, p.path, ErrCorruptPage)
	}
	return buf[ChecksumSize:], nil
}
