package app_test

import (
	"context"
	"testing"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/quizgen"
)

func TestReaperFinishesIdleRooms(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	store := memory.NewRoomStore()
	words := memory.NewWordRepository(memory.NewStaticWordLoader(testUnits()), 5*time.Minute)
	service := app.NewRoomServiceWithClock(store, words, quizgen.NewBuilderWithSeed(1), now)

	stale, err := service.CreateRoom(ctx, "host-1", "unit-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	current = current.Add(5 * time.Minute)
	fresh, err := service.CreateRoom(ctx, "host-2", "unit-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	current = current.Add(6 * time.Minute)
	if reaped := service.ReapIdleRooms(10 * time.Minute); reaped != 1 {
		t.Fatalf("expected 1 reaped room, got %d", reaped)
	}
	if _, ok := store.Get(stale.RoomCode); ok {
		t.Fatalf("expected stale room %s to be removed", stale.RoomCode)
	}
	if _, ok := store.Get(fresh.RoomCode); !ok {
		t.Fatalf("expected fresh room %s to survive", fresh.RoomCode)
	}
}

func TestReaperIgnoresActiveRooms(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	store := memory.NewRoomStore()
	words := memory.NewWordRepository(memory.NewStaticWordLoader(testUnits()), 5*time.Minute)
	service := app.NewRoomServiceWithClock(store, words, quizgen.NewBuilderWithSeed(1), now)

	room, err := service.CreateRoom(ctx, "host-1", "unit-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// A join inside the window counts as activity.
	current = current.Add(8 * time.Minute)
	if _, err := service.Join(ctx, room.RoomCode, "p1", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	current = current.Add(5 * time.Minute)
	if reaped := service.ReapIdleRooms(10 * time.Minute); reaped != 0 {
		t.Fatalf("expected no reaped rooms, got %d", reaped)
	}
	if _, ok := store.Get(room.RoomCode); !ok {
		t.Fatalf("expected active room to survive")
	}
}
