package app

import (
	"context"
	"log"
	"time"
)

// StartReaper launches a background loop that finishes and drops rooms with
// no activity inside the idle window (e.g. players joined but the host never
// started). It runs off the request path and stops when ctx is canceled.
func (s *RoomService) StartReaper(ctx context.Context, idle, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ReapIdleRooms(idle)
			}
		}
	}()
}

// ReapIdleRooms sweeps once. Exported so tests can drive it without timers.
func (s *RoomService) ReapIdleRooms(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	reaped := 0
	for _, code := range s.rooms.Codes() {
		room, ok := s.rooms.Get(code)
		if !ok {
			continue
		}
		if room.expireIfIdle(cutoff) {
			s.rooms.Delete(code)
			reaped++
		}
	}
	if reaped > 0 {
		log.Printf("reaper: finished %d idle room(s)", reaped)
	}
	return reaped
}
