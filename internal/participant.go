package internal

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps one websocket connection together with everything the server
// knows about it. The connection id doubles as the authorization key for
// the lifetime of the connection.
type Conn struct {
	ID       string          `json:"id"`
	Sock     *websocket.Conn `json:"-"`
	Game     GameMode        `json:"game"`
	RoomCode string          `json:"room"`
	Name     string          `json:"name"`
	Role     Role            `json:"role"`

	Mu sync.Mutex `json:"-"`
}

// SafeWriteJSON serializes writes so broadcast and unicast paths never
// interleave frames on the same socket. A nil socket is skipped silently,
// which also lets tests drive the hub without real connections.
func (c *Conn) SafeWriteJSON(v any) error {
	if c == nil || c.Sock == nil {
		return nil
	}
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.Sock.WriteJSON(v)
}

// Participant is a registered player inside a room. Score is used by the
// baseball and dart games, Progress by the climb race.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color,omitempty"`
	Score    int       `json:"score"`
	Progress float64   `json:"progress"`
	JoinedAt time.Time `json:"-"`

	Conn *Conn `json:"-"`
}
