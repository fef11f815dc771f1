package memory

import (
	"sync"

	"vocab-quiz-service/internal/app"
)

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.Room),
	}
}

// Claim stores the room under its code unless the code is already taken.
func (s *RoomStore) Claim(room *app.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.rooms[room.Code()]; taken {
		return false
	}
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
	delete(s.rooms, code)
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
