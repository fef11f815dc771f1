package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches word unit content from a backing store (e.g., Postgres).
type WordLoader interface {
	LoadUnit(ctx context.Context, unitID string) (domain.WordUnit, error)
}

// WordRepository caches word units with TTL to avoid repeated DB hits.
type WordRepository struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedUnit
}

type cachedUnit struct {
	unit      domain.WordUnit
	expiresAt time.Time
}

func NewWordRepository(loader WordLoader, ttl time.Duration) *WordRepository {
	return &WordRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedUnit),
	}
}

func (r *WordRepository) GetUnit(ctx context.Context, unitID string) (domain.WordUnit, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[unitID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.unit, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(unitID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[unitID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.unit, nil
		}
		r.mu.RUnlock()

		unit, err := r.loader.LoadUnit(ctx, unitID)
		if err != nil {
			return domain.WordUnit{}, err
		}

		r.mu.Lock()
		r.cache[unitID] = cachedUnit{
			unit:      unit,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return unit, nil
	})
	if err != nil {
		return domain.WordUnit{}, err
	}
	return result.(domain.WordUnit), nil
}

// StaticWordLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticWordLoader struct {
	units map[string]domain.WordUnit
}

func NewStaticWordLoader(units map[string]domain.WordUnit) *StaticWordLoader {
	return &StaticWordLoader{units: units}
}

func (l *StaticWordLoader) LoadUnit(_ context.Context, unitID string) (domain.WordUnit, error) {
	if unit, ok := l.units[unitID]; ok {
		return unit, nil
	}
	return domain.WordUnit{}, domain.ErrUnitNotFound
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
