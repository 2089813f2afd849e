package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/okian/screener/pkg/metrics"
)

// Default in-memory store settings.
const (
	defaultTTL           = time.Hour
	defaultMaxEntries    = 1000
	defaultSweepInterval = time.Minute
)

type memEntry struct {
	key       string
	bucket    Bucket
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Buckets expire after an idle TTL and
// the least recently used bucket is evicted once MaxEntries is reached.
// A zero TTL or MaxEntries disables that bound.
type MemoryStore struct {
	mu         sync.Mutex
	order      *list.List // front is most recently used
	byKey      map[string]*list.Element
	ttl        time.Duration
	maxEntries int
	sweepEvery time.Duration
	now        func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a memory store and starts its expiry sweeper,
// which stops with ctx or Close.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		order:      list.New(),
		byKey:      make(map[string]*list.Element),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		sweepEvery: defaultSweepInterval,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startSweeper(ctx)
	return s
}

func (s *MemoryStore) startSweeper(ctx context.Context) {
	if s.ttl <= 0 || s.sweepEvery <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Close stops the sweeper.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byKey[key]
	if !ok {
		return Bucket{}, ErrNotFound
	}
	e := el.Value.(*memEntry)
	if s.expired(e) {
		s.remove(el)
		return Bucket{}, ErrNotFound
	}
	s.touch(el)
	return e.bucket.Clone(), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key string, b Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.byKey[key]; ok {
		el.Value.(*memEntry).bucket = b.Clone()
		s.touch(el)
		return nil
	}
	el := s.order.PushFront(&memEntry{key: key, bucket: b.Clone()})
	s.byKey[key] = el
	s.touch(el)
	for s.maxEntries > 0 && s.order.Len() > s.maxEntries {
		s.remove(s.order.Back())
	}
	metrics.UpdateSessionsActive(s.order.Len())
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.byKey[key]; ok {
		s.remove(el)
	}
	return nil
}

// Count implements Store. Expired buckets not yet swept are not counted.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for el := s.order.Front(); el != nil; el = el.Next() {
		if !s.expired(el.Value.(*memEntry)) {
			n++
		}
	}
	return n
}

// Sweep drops every expired bucket.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if s.expired(el.Value.(*memEntry)) {
			s.remove(el)
		}
		el = prev
	}
}

func (s *MemoryStore) expired(e *memEntry) bool {
	return s.ttl > 0 && !s.now().Before(e.expiresAt)
}

func (s *MemoryStore) touch(el *list.Element) {
	el.Value.(*memEntry).expiresAt = s.now().Add(s.ttl)
	s.order.MoveToFront(el)
}

func (s *MemoryStore) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.byKey, el.Value.(*memEntry).key)
	metrics.UpdateSessionsActive(s.order.Len())
}
