package app

import (
	"context"
	"time"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quizgen"
)

// RoomRepository abstracts how live rooms are stored (in-memory, Redis, etc).
type RoomRepository interface {
	// Claim stores the room under its code and reports whether the code was
	// free. A false return means the caller must regenerate and retry.
	Claim(room *Room) bool
	Get(code string) (*Room, bool)
	Delete(code string)
	Codes() []string
}

// WordRepository loads word unit content (from cache/backing store).
type WordRepository interface {
	GetUnit(ctx context.Context, unitID string) (domain.WordUnit, error)
}

// RoomService contains the live quiz use cases: room creation, joining,
// lifecycle control, answer scoring, and snapshot subscriptions.
type RoomService struct {
	rooms   RoomRepository
	words   WordRepository
	builder *quizgen.Builder
	now     func() time.Time
}

func NewRoomService(rooms RoomRepository, words WordRepository, builder *quizgen.Builder) *RoomService {
	return &RoomService{rooms: rooms, words: words, builder: builder, now: time.Now}
}

// NewRoomServiceWithClock is test-only for deterministic reaper cutoffs.
func NewRoomServiceWithClock(rooms RoomRepository, words WordRepository, builder *quizgen.Builder, now func() time.Time) *RoomService {
	return &RoomService{rooms: rooms, words: words, builder: builder, now: now}
}

// CreateRoom builds a question set from the unit's words and opens a waiting
// room under a freshly generated code. Code collisions against active rooms
// trigger regeneration, never reuse.
func (s *RoomService) CreateRoom(ctx context.Context, hostID, unitID string) (domain.RoomSnapshot, error) {
	unit, err := s.words.GetUnit(ctx, unitID)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}

	corpus := unit.Corpus
	if len(corpus) == 0 {
		corpus = unit.Words
	}
	questions, err := s.builder.Build(corpus, unit.Words)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}

	for {
		room := newRoomWithClock(GenerateRoomCode(), hostID, questions, s.now)
		if s.rooms.Claim(room) {
			return room.Snapshot(), nil
		}
	}
}

// Join registers or refreshes a player in a waiting room.
func (s *RoomService) Join(_ context.Context, code, playerID, nickname string) (domain.RoomSnapshot, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.join(playerID, nickname)
}

// Start transitions the room to in_progress at question 0. Host only.
func (s *RoomService) Start(_ context.Context, code, callerID string) (domain.RoomSnapshot, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.start(callerID)
}

// Advance moves the room to the next question. Host only, strict +1 step.
func (s *RoomService) Advance(_ context.Context, code, callerID string, newIndex int) (domain.RoomSnapshot, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.advance(callerID, newIndex)
}

// SubmitAnswer scores one submission against the room's current question.
func (s *RoomService) SubmitAnswer(_ context.Context, code, playerID, answer string) (domain.AnswerResult, domain.RoomSnapshot, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.AnswerResult{}, domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.applyAnswer(playerID, answer)
}

// End finishes the quiz, freezing the index and all scores. Host only.
func (s *RoomService) End(_ context.Context, code, callerID string) (domain.RoomSnapshot, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.end(callerID)
}

// Subscribe returns a channel that receives room snapshots on every accepted
// mutation. The caller must invoke the returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(_ context.Context, code string) (<-chan domain.RoomSnapshot, func(), error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	ch, cancel := room.subscribe()
	return ch, cancel, nil
}
