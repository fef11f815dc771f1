package app

import (
	"sort"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// Room is the in-memory state of one live quiz. Every mutation runs under the
// room's own mutex, so guard checks and writes are atomic per room while rooms
// stay fully independent of each other. No I/O happens while the lock is held.
type Room struct {
	code      string
	hostID    string
	createdAt time.Time
	now       func() time.Time

	mu           sync.Mutex
	status       domain.Status
	questions    []domain.Question
	currentIndex int
	players      map[string]*domain.PlayerState
	lastActivity time.Time
	subscribers  map[chan domain.RoomSnapshot]struct{}
}

// NewRoom is exported for infrastructure layers that need to seed rooms.
func NewRoom(code, hostID string, questions []domain.Question) *Room {
	return newRoomWithClock(code, hostID, questions, time.Now)
}

// NewRoomWithClock is test-only for deterministic timestamps.
func NewRoomWithClock(code, hostID string, questions []domain.Question, now func() time.Time) *Room {
	return newRoomWithClock(code, hostID, questions, now)
}

func newRoomWithClock(code, hostID string, questions []domain.Question, now func() time.Time) *Room {
	created := now()
	return &Room{
		code:         code,
		hostID:       hostID,
		createdAt:    created,
		now:          now,
		status:       domain.StatusWaiting,
		questions:    questions,
		currentIndex: -1,
		players:      make(map[string]*domain.PlayerState),
		lastActivity: created,
		subscribers:  make(map[chan domain.RoomSnapshot]struct{}),
	}
}

// Code returns the room's immutable code.
func (r *Room) Code() string {
	return r.code
}

// join adds a player while the room is still waiting. Joining again with the
// same id refreshes the nickname instead of duplicating the entry.
func (r *Room) join(playerID, nickname string) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.StatusWaiting {
		return domain.RoomSnapshot{}, domain.ErrInvalidState
	}

	now := r.now()
	if player, ok := r.players[playerID]; ok {
		player.Nickname = nickname
		player.LastUpdated = now
	} else {
		r.players[playerID] = &domain.PlayerState{
			ID:                playerID,
			Nickname:          nickname,
			AnsweredCorrectly: domain.AnswerNone,
			LastUpdated:       now,
		}
	}
	r.lastActivity = now
	return r.broadcastLocked(), nil
}

// start moves the room from waiting to in_progress and points at question 0.
func (r *Room) start(callerID string) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return domain.RoomSnapshot{}, domain.ErrNotHost
	}
	if r.status != domain.StatusWaiting {
		return domain.RoomSnapshot{}, domain.ErrInvalidState
	}

	r.status = domain.StatusInProgress
	r.currentIndex = 0
	r.lastActivity = r.now()
	return r.broadcastLocked(), nil
}

// advance moves to the next question. Only a strict +1 step inside the
// question sequence is accepted; every player's per-question answer state is
// cleared so the new question starts unanswered for everyone.
func (r *Room) advance(callerID string, newIndex int) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return domain.RoomSnapshot{}, domain.ErrNotHost
	}
	if r.status != domain.StatusInProgress {
		return domain.RoomSnapshot{}, domain.ErrInvalidState
	}
	if newIndex != r.currentIndex+1 || newIndex >= len(r.questions) {
		return domain.RoomSnapshot{}, domain.ErrIndexOutOfRange
	}

	r.currentIndex = newIndex
	for _, player := range r.players {
		player.AnsweredCorrectly = domain.AnswerNone
	}
	r.lastActivity = r.now()
	return r.broadcastLocked(), nil
}

// end finishes the quiz at whatever index it is on. The index and all scores
// freeze; no mutation is accepted afterwards.
func (r *Room) end(callerID string) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return domain.RoomSnapshot{}, domain.ErrNotHost
	}
	if r.status != domain.StatusInProgress {
		return domain.RoomSnapshot{}, domain.ErrInvalidState
	}

	r.status = domain.StatusFinished
	r.lastActivity = r.now()
	return r.broadcastLocked(), nil
}

// applyAnswer scores one submission against the question that is current at
// the moment the lock is held. A correct answer awards 100 plus 10 per streak
// point and extends the streak; a miss awards nothing and resets the streak.
// Each player gets at most one scored submission per question.
func (r *Room) applyAnswer(playerID, answer string) (domain.AnswerResult, domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.StatusInProgress {
		return domain.AnswerResult{}, domain.RoomSnapshot{}, domain.ErrInvalidState
	}
	player, ok := r.players[playerID]
	if !ok {
		return domain.AnswerResult{}, domain.RoomSnapshot{}, domain.ErrPlayerNotFound
	}
	if player.AnsweredCorrectly != domain.AnswerNone {
		return domain.AnswerResult{}, domain.RoomSnapshot{}, domain.ErrAlreadyAnswered
	}

	question := r.questions[r.currentIndex]
	awarded := 0
	if answer == question.CorrectAnswer {
		awarded = 100 + player.Streak*10
		player.Streak++
		player.AnsweredCorrectly = domain.AnswerCorrect
	} else {
		player.Streak = 0
		player.AnsweredCorrectly = domain.AnswerIncorrect
	}
	player.Score += awarded
	player.LastUpdated = r.now()
	r.lastActivity = player.LastUpdated

	result := domain.AnswerResult{
		QuestionIndex: r.currentIndex,
		Correct:       player.AnsweredCorrectly == domain.AnswerCorrect,
		Awarded:       awarded,
		TotalScore:    player.Score,
		Streak:        player.Streak,
	}
	return result, r.broadcastLocked(), nil
}

// expireIfIdle force-finishes a room whose last activity predates cutoff and
// reports whether it did so. Used by the reaper; never touches active rooms.
func (r *Room) expireIfIdle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lastActivity.Before(cutoff) {
		return false
	}
	if r.status != domain.StatusFinished {
		r.status = domain.StatusFinished
		r.broadcastLocked()
	}
	return true
}

// Snapshot returns the room's current client-facing state.
func (r *Room) Snapshot() domain.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) subscribe() (<-chan domain.RoomSnapshot, func()) {
	ch := make(chan domain.RoomSnapshot, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := r.snapshotLocked()
	r.mu.Unlock()

	ch <- initial

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Room) broadcastLocked() domain.RoomSnapshot {
	snapshot := r.snapshotLocked()
	for ch := range r.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the oldest pending snapshot so a slow client never
			// blocks the broadcast; clients reconcile on the latest state.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return snapshot
}

func (r *Room) snapshotLocked() domain.RoomSnapshot {
	players := make([]domain.PlayerView, 0, len(r.players))
	for _, player := range r.players {
		players = append(players, domain.PlayerView{
			ID:       player.ID,
			Nickname: player.Nickname,
			Score:    player.Score,
			Streak:   player.Streak,
			Answered: player.AnsweredCorrectly,
		})
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		// Tie-break by who reached the score earlier, then nickname.
		pi := r.players[players[i].ID]
		pj := r.players[players[j].ID]
		if pi != nil && pj != nil && !pi.LastUpdated.Equal(pj.LastUpdated) {
			return pi.LastUpdated.Before(pj.LastUpdated)
		}
		return players[i].Nickname < players[j].Nickname
	})

	var current *domain.QuestionView
	if r.status == domain.StatusInProgress && r.currentIndex >= 0 && r.currentIndex < len(r.questions) {
		question := r.questions[r.currentIndex]
		options := make([]string, len(question.Options))
		copy(options, question.Options)
		current = &domain.QuestionView{
			Index:   r.currentIndex,
			Prompt:  question.Prompt,
			Options: options,
		}
	}

	return domain.RoomSnapshot{
		RoomCode:        r.code,
		HostID:          r.hostID,
		Status:          r.status,
		QuestionCount:   len(r.questions),
		CurrentIndex:    r.currentIndex,
		CurrentQuestion: current,
		Players:         players,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.now(),
	}
}
