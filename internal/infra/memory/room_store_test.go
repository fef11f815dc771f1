package memory

import (
	"testing"

	"vocab-quiz-service/internal/app"
)

func TestRoomStoreClaimAndDelete(t *testing.T) {
	store := NewRoomStore()

	if !store.Claim(app.NewRoom("ROOM1", "host-1", nil)) {
		t.Fatalf("expected first claim to succeed")
	}
	if store.Claim(app.NewRoom("ROOM1", "host-2", nil)) {
		t.Fatalf("expected duplicate code claim to fail")
	}
	if _, ok := store.Get("ROOM1"); !ok {
		t.Fatalf("expected room present")
	}
	if codes := store.Codes(); len(codes) != 1 || codes[0] != "ROOM1" {
		t.Fatalf("expected [ROOM1], got %v", codes)
	}

	store.Delete("ROOM1")
	if _, ok := store.Get("ROOM1"); ok {
		t.Fatalf("expected room removed")
	}
	if !store.Claim(app.NewRoom("ROOM1", "host-2", nil)) {
		t.Fatalf("expected code reusable after delete")
	}
}
