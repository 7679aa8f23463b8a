package offline

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/repositories"
)

// Storage is the partitioned response cache shared by every worker version.
type Storage interface {
	Keys(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) (bool, error)
	Match(ctx context.Context, url string) (*models.CacheEntry, bool, error)
	MatchIn(ctx context.Context, partition, url string) (*models.CacheEntry, bool, error)
	Put(ctx context.Context, entry models.CacheEntry) error
	PutAll(ctx context.Context, partition string, entries []models.CacheEntry) error
	Trim(ctx context.Context, partition string, max int) (int, error)
	Count(ctx context.Context, partition string) (int, error)
}

var (
	_ Storage = (*repositories.CacheRepository)(nil)
	_ Storage = (*MemoryStorage)(nil)
)

// ErrStorageWrite is returned by [MemoryStorage] writes while FailWrites is set.
var ErrStorageWrite = errors.New("cache storage write failed")

type memoryEntry struct {
	entry models.CacheEntry
	seq   int
}

// MemoryStorage is an in-process [Storage]. Partitions keep creation order; entries keep insertion order.
type MemoryStorage struct {
	mu         sync.Mutex
	order      []string
	partitions map[string]map[string]memoryEntry
	seq        int

	// FailWrites makes Put, PutAll and Open fail.
	FailWrites bool
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{partitions: map[string]map[string]memoryEntry{}}
}

func (m *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order), nil
}

func (m *MemoryStorage) Open(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrStorageWrite
	}
	m.open(name)
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.partitions[name]; !ok {
		return false, nil
	}
	delete(m.partitions, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return true, nil
}

func (m *MemoryStorage) Match(ctx context.Context, url string) (*models.CacheEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range m.order {
		if e, ok := m.partitions[name][url]; ok {
			return copyEntry(e.entry), true, nil
		}
	}
	return nil, false, nil
}

func (m *MemoryStorage) MatchIn(ctx context.Context, partition, url string) (*models.CacheEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.partitions[partition][url]; ok {
		return copyEntry(e.entry), true, nil
	}
	return nil, false, nil
}

func (m *MemoryStorage) Put(ctx context.Context, entry models.CacheEntry) error {
	return m.PutAll(ctx, entry.Partition, []models.CacheEntry{entry})
}

func (m *MemoryStorage) PutAll(ctx context.Context, partition string, entries []models.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrStorageWrite
	}

	p := m.open(partition)
	for _, e := range entries {
		e.Partition = partition
		if e.StoredAt.IsZero() {
			e.StoredAt = time.Now()
		}
		m.seq++
		p[e.URL] = memoryEntry{entry: *copyEntry(e), seq: m.seq}
	}
	return nil
}

// Trim keeps the max most recently written entries.
func (m *MemoryStorage) Trim(ctx context.Context, partition string, max int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.partitions[partition]
	if max < 0 || len(p) <= max {
		return 0, nil
	}

	all := make([]memoryEntry, 0, len(p))
	for _, e := range p {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	removed := 0
	for _, e := range all[max:] {
		delete(p, e.entry.URL)
		removed++
	}
	return removed, nil
}

func (m *MemoryStorage) Count(ctx context.Context, partition string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.partitions[partition]), nil
}

func (m *MemoryStorage) open(name string) map[string]memoryEntry {
	p, ok := m.partitions[name]
	if !ok {
		p = map[string]memoryEntry{}
		m.partitions[name] = p
		m.order = append(m.order, name)
	}
	return p
}

func copyEntry(e models.CacheEntry) *models.CacheEntry {
	e.Header = e.Header.Clone()
	e.Body = slices.Clone(e.Body)
	return &e
}
