package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - It keeps a local in-memory map of rooms to reuse the in-process
//     broadcast logic; the live mutation path never touches the network.
//   - Redis holds a liveness marker per room code, claimed with SETNX so two
//     instances cannot hand out the same code while both rooms are active.
//   - For true distribution you'd pair this with a pub/sub projector that fans out updates.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
	}
}

func (s *RoomStore) Claim(room *app.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.rooms[room.Code()]; taken {
		return false
	}
	ok, err := s.client.SetNX(context.Background(), s.key(room.Code()), "1", s.ttl).Result()
	if err == nil && !ok {
		return false
	}
	// Redis being down degrades to local-only uniqueness rather than
	// blocking room creation.
	s.rooms[room.Code()] = room
	return true
}

func (s *RoomStore) Get(code string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return
	}
	delete(s.rooms, code)
	_ = s.client.Del(context.Background(), s.key(code)).Err()
}

func (s *RoomStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}

func (s *RoomStore) key(code string) string {
	return "room:live:" + code
}
