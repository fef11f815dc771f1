package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// WordLoader loads word unit JSONB from Postgres.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

func (l *WordLoader) LoadUnit(ctx context.Context, unitID string) (domain.WordUnit, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM word_units WHERE id=$1`, unitID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WordUnit{}, domain.ErrUnitNotFound
	}
	if err != nil {
		return domain.WordUnit{}, fmt.Errorf("load word unit: %w", err)
	}
	var unit domain.WordUnit
	if err := json.Unmarshal(raw, &unit); err != nil {
		return domain.WordUnit{}, fmt.Errorf("unmarshal word unit: %w", err)
	}
	return unit, nil
}
