package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches word unit content from a backing store (e.g., Postgres).
type WordLoader interface {
	LoadUnit(ctx context.Context, unitID string) (domain.WordUnit, error)
}

// WordRepository caches word units in Redis (JSON per unit) and falls back to
// a loader on cache miss. Units are stored as: SET words:unit:{unitID} {json}
type WordRepository struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewWordRepository(client *redis.Client, loader WordLoader, ttl time.Duration) *WordRepository {
	return &WordRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordRepository) GetUnit(ctx context.Context, unitID string) (domain.WordUnit, error) {
	key := r.unitKey(unitID)

	if unit, ok := r.cachedUnit(ctx, key); ok {
		return unit, nil
	}

	result, err, _ := r.sf.Do(unitID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if unit, ok := r.cachedUnit(ctx, key); ok {
			return unit, nil
		}

		unit, err := r.loader.LoadUnit(ctx, unitID)
		if err != nil {
			return domain.WordUnit{}, err
		}

		if data, err := json.Marshal(unit); err == nil {
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return unit, nil
	})
	if err != nil {
		return domain.WordUnit{}, err
	}
	return result.(domain.WordUnit), nil
}

func (r *WordRepository) cachedUnit(ctx context.Context, key string) (domain.WordUnit, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.WordUnit{}, false
	}
	var unit domain.WordUnit
	if err := json.Unmarshal(raw, &unit); err != nil {
		return domain.WordUnit{}, false
	}
	return unit, true
}

func (r *WordRepository) unitKey(unitID string) string {
	return "words:unit:" + unitID
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
