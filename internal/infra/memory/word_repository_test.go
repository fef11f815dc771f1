package memory

import (
	"context"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

func TestWordRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		WordLoader: NewStaticWordLoader(map[string]domain.WordUnit{
			"unit-1": sampleUnit(),
		}),
	}
	repo := NewWordRepository(loader, time.Minute)

	if _, err := repo.GetUnit(context.Background(), "unit-1"); err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetUnit(context.Background(), "unit-1"); err != nil {
		t.Fatalf("get unit 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestWordRepositoryUnknownUnit(t *testing.T) {
	repo := NewWordRepository(NewStaticWordLoader(nil), time.Minute)

	if _, err := repo.GetUnit(context.Background(), "missing"); err != domain.ErrUnitNotFound {
		t.Fatalf("expected unit not found, got %v", err)
	}
}

type countingLoader struct {
	WordLoader
	calls int
}

func (l *countingLoader) LoadUnit(ctx context.Context, unitID string) (domain.WordUnit, error) {
	l.calls++
	return l.WordLoader.LoadUnit(ctx, unitID)
}

func sampleUnit() domain.WordUnit {
	return domain.WordUnit{
		ID:   "unit-1",
		Name: "Basics",
		Words: []domain.Word{
			{Headword: "perro", Translation: "dog"},
			{Headword: "gato", Translation: "cat"},
			{Headword: "casa", Translation: "house"},
			{Headword: "libro", Translation: "book"},
		},
	}
}
