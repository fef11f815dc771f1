package app

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// Room codes skip 0/O/1/I so they survive being read aloud or typed from a
// projector screen.
const (
	roomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength = 5
)

// GenerateRoomCode creates a random room code. Uniqueness among active rooms
// is the caller's job (RoomRepository.Claim).
func GenerateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(roomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
			continue
		}
		code[i] = roomCodeChars[n.Int64()]
	}
	return string(code)
}
