package internal

import (
	"context"
	"sync"
	"time"
)

type RoomStatus string

const (
	StatusIdle    RoomStatus = "idle"
	StatusRunning RoomStatus = "running"
	StatusEnded   RoomStatus = "ended"
)

type GameMode string

const (
	ModeBaseball GameMode = "baseball"
	ModeClimb    GameMode = "climb"
	ModeDart     GameMode = "dart"
)

// IsValid reports whether the mode names one of the served games.
func (m GameMode) IsValid() bool {
	switch m {
	case ModeBaseball, ModeClimb, ModeDart:
		return true
	}
	return false
}

type Role string

const (
	RoleDisplay    Role = "display"
	RoleController Role = "controller"
)

// Ball is a server-spawned falling target. It lives in the room's ball map
// from spawn until it is either hit or expires, whichever happens first.
type Ball struct {
	ID        string    `json:"id"`
	SpawnAt   time.Time `json:"spawn_at"`
	PlateTime time.Time `json:"plate_time"`
	Active    bool      `json:"active"`
	HitBy     string    `json:"hit_by,omitempty"`
}

type Room struct {
	Code string
	Mode GameMode

	// Game state
	Status    RoomStatus
	DisplayID string
	WinnerID  string

	// Everyone attached to the room, pending controllers and display
	// included. Keyed by connection id.
	Subscribers map[string]*Conn

	// Registered players only, keyed by connection id. Order keeps the
	// join sequence so snapshots stay deterministic.
	Participants map[string]*Participant
	Order        []string

	// Live balls (baseball only)
	Balls map[string]*Ball

	// Capacity rules resolved per game mode at creation time
	MaxPlayers int
	MinPlayers int

	// Cancellation handle for the spawn loop; nil when not spawning
	SpawnCancel context.CancelFunc `json:"-"`

	Mu sync.Mutex `json:"-"`
}

// HasParticipant reports whether the connection id is a registered player.
func (r *Room) HasParticipant(connID string) bool {
	_, ok := r.Participants[connID]
	return ok
}

// AddParticipant registers a player and records its join order.
// Re-adding an existing id only replaces the entry.
func (r *Room) AddParticipant(p *Participant) {
	if _, exists := r.Participants[p.ID]; !exists {
		r.Order = append(r.Order, p.ID)
	}
	r.Participants[p.ID] = p
}

// RemoveParticipant drops a player and its order slot. No-op when absent.
func (r *Room) RemoveParticipant(connID string) {
	if _, exists := r.Participants[connID]; !exists {
		return
	}
	delete(r.Participants, connID)
	for i, id := range r.Order {
		if id == connID {
			r.Order = append(r.Order[:i], r.Order[i+1:]...)
			break
		}
	}
}

// OrderedParticipants returns players in join order as value copies,
// safe to hand to broadcasts after the room lock is released.
func (r *Room) OrderedParticipants() []Participant {
	out := make([]Participant, 0, len(r.Participants))
	for _, id := range r.Order {
		if p, ok := r.Participants[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// IsEmpty reports the garbage condition: no display and no players left.
func (r *Room) IsEmpty() bool {
	return r.DisplayID == "" && len(r.Participants) == 0
}
