package domain

import "time"

// Word is a single vocabulary entry: the headword players study and the
// translation used as the correct answer.
type Word struct {
	Headword    string `json:"headword"`
	Translation string `json:"translation"`
}

// WordUnit is the content a room is built from: the subset of words the quiz
// asks about, plus a wider corpus the distractors are drawn from. An empty
// Corpus means the unit's own words double as the distractor pool.
type WordUnit struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Words  []Word `json:"words"`
	Corpus []Word `json:"corpus,omitempty"`
}

// Question is a generated multiple-choice question. Options always holds
// exactly four distinct entries, one of which equals CorrectAnswer. Questions
// are immutable once generated.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	SourceWord    Word     `json:"sourceWord"`
}

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// AnswerState is the tri-state outcome of a player's answer to the current
// question. It resets to AnswerNone every time the host advances.
type AnswerState string

const (
	AnswerNone      AnswerState = "unanswered"
	AnswerCorrect   AnswerState = "correct"
	AnswerIncorrect AnswerState = "incorrect"
)

// PlayerState tracks one joined player. Score never decreases; Streak counts
// consecutive correct answers and resets to zero on any miss.
type PlayerState struct {
	ID                string
	Nickname          string
	Score             int
	Streak            int
	AnsweredCorrectly AnswerState
	LastUpdated       time.Time
}

// AnswerResult summarizes one scored submission for the submitting player.
type AnswerResult struct {
	QuestionIndex int  `json:"questionIndex"`
	Correct       bool `json:"correct"`
	Awarded       int  `json:"awarded"`
	TotalScore    int  `json:"totalScore"`
	Streak        int  `json:"streak"`
}

// QuestionView is the client-facing shape of a question. The correct answer
// is deliberately absent so snapshots can be broadcast to every player.
type QuestionView struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// PlayerView is a snapshot-friendly view of a player.
type PlayerView struct {
	ID       string      `json:"id"`
	Nickname string      `json:"nickname"`
	Score    int         `json:"score"`
	Streak   int         `json:"streak"`
	Answered AnswerState `json:"answered"`
}

// RoomSnapshot is the state every client converges on. Players are ordered by
// score descending, ties broken by who reached the score first, then nickname.
type RoomSnapshot struct {
	RoomCode        string        `json:"roomCode"`
	HostID          string        `json:"hostId"`
	Status          Status        `json:"status"`
	QuestionCount   int           `json:"questionCount"`
	CurrentIndex    int           `json:"currentIndex"`
	CurrentQuestion *QuestionView `json:"currentQuestion,omitempty"`
	Players         []PlayerView  `json:"players"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
