package domain

import "errors"

var (
	// ErrInsufficientCorpus is returned when a unit cannot yield four distinct options per question.
	ErrInsufficientCorpus = errors.New("not enough distinct words to build a question set")
	// ErrRoomNotFound is returned when a room code does not match any active room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrPlayerNotFound is returned when a user acts in a room they never joined.
	ErrPlayerNotFound = errors.New("player not found in room")
	// ErrNotHost is returned when a non-host caller attempts a host-only operation.
	ErrNotHost = errors.New("operation restricted to the room host")
	// ErrInvalidState is returned when an operation is illegal for the room's lifecycle state.
	ErrInvalidState = errors.New("operation not valid in current room state")
	// ErrIndexOutOfRange is returned when the host advances to anything but the next question.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrAlreadyAnswered is returned on a second submission for the same question.
	ErrAlreadyAnswered = errors.New("answer already submitted for this question")
	// ErrUnitNotFound indicates the word unit content could not be loaded.
	ErrUnitNotFound = errors.New("word unit not found")
)
