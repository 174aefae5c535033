package game

import (
	"log"
	"sync"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
	"github.com/jaeho-dev/minigame-backend/internal/config"
)

// =============================================================================
// HUB - ROOM REGISTRY & CONNECTION LIFECYCLE
// =============================================================================

// Hub owns every room and live connection for all three games. All room
// mutations go through Hub methods; nothing else touches room state.
type Hub struct {
	cfg *config.Config

	mu    sync.RWMutex
	rooms map[string]*internal.Room
	conns map[string]*internal.Conn

	queueMu sync.Mutex
	queues  map[internal.GameMode][]string
}

func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		cfg:    cfg,
		rooms:  make(map[string]*internal.Room),
		conns:  make(map[string]*internal.Conn),
		queues: make(map[internal.GameMode][]string),
	}
}

// roomKey namespaces room codes per game, so "lobby1" in baseball and
// "lobby1" in climb are different rooms.
func roomKey(mode internal.GameMode, code string) string {
	return string(mode) + "/" + code
}

func (h *Hub) getOrCreateRoom(mode internal.GameMode, code string) *internal.Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, exists := h.rooms[roomKey(mode, code)]; exists {
		return room
	}

	room := h.newRoom(mode, code)
	h.rooms[roomKey(mode, code)] = room
	log.Printf("[getOrCreateRoom] Created room %s (game=%s, maxPlayers=%d)",
		code, mode, room.MaxPlayers)
	return room
}

func (h *Hub) newRoom(mode internal.GameMode, code string) *internal.Room {
	room := &internal.Room{
		Code:         code,
		Mode:         mode,
		Status:       internal.StatusIdle,
		Subscribers:  make(map[string]*internal.Conn),
		Participants: make(map[string]*internal.Participant),
		Balls:        make(map[string]*internal.Ball),
	}
	switch mode {
	case internal.ModeBaseball:
		// Single competitive slot
		room.MaxPlayers = 1
		room.MinPlayers = 1
	case internal.ModeClimb:
		room.MaxPlayers = h.cfg.ClimbMaxPlayers
		room.MinPlayers = 2
	case internal.ModeDart:
		room.MaxPlayers = h.cfg.DartMaxPlayers
		room.MinPlayers = 1
	}
	return room
}

func (h *Hub) lookupRoom(mode internal.GameMode, code string) (*internal.Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomKey(mode, code)]
	return room, ok
}

// roomForConn resolves the room a connection attached to at handshake time.
func (h *Hub) roomForConn(c *internal.Conn) (*internal.Room, bool) {
	return h.lookupRoom(c.Game, c.RoomCode)
}

func (h *Hub) removeRoom(room *internal.Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.rooms[roomKey(room.Mode, room.Code)]; exists {
		delete(h.rooms, roomKey(room.Mode, room.Code))
		log.Printf("[removeRoom] Room %s (game=%s) destroyed", room.Code, room.Mode)
	}
}

// JoinableRoom returns the code of an idle room with a free slot, or ""
// when none exists.
func (h *Hub) JoinableRoom(mode internal.GameMode) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, room := range h.rooms {
		if room.Mode != mode {
			continue
		}
		room.Mu.Lock()
		joinable := room.Status == internal.StatusIdle && len(room.Participants) < room.MaxPlayers
		code := room.Code
		room.Mu.Unlock()
		if joinable {
			return code
		}
	}
	return ""
}

// RoomCount returns the number of live rooms, all games included.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// =============================================================================
// CONNECT / DISCONNECT
// =============================================================================

// Connect attaches a freshly upgraded connection to its room, creating the
// room on first reference. The caller has already validated the room code.
func (h *Hub) Connect(c *internal.Conn) {
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()

	room := h.getOrCreateRoom(c.Game, c.RoomCode)

	room.Mu.Lock()
	room.Subscribers[c.ID] = c
	if c.Role == internal.RoleDisplay {
		// First claim wins; a fresh display connection takes the slot over.
		room.DisplayID = c.ID
	} else if c.Game == internal.ModeDart {
		// Dart players are registered on connect, join only updates them.
		room.AddParticipant(&internal.Participant{
			ID:       c.ID,
			Name:     c.Name,
			JoinedAt: time.Now(),
			Conn:     c,
		})
	}
	playerCount := len(room.Participants)
	room.Mu.Unlock()

	log.Printf("[Connect] %s connected: game=%s room=%s role=%s",
		c.ID, c.Game, c.RoomCode, c.Role)

	switch c.Game {
	case internal.ModeBaseball:
		if c.Role == internal.RoleDisplay {
			h.pushState(room)
		}
	case internal.ModeClimb:
		SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
			Type: "roomPlayerCount",
			Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
		})
	case internal.ModeDart:
		if err := c.SafeWriteJSON(internal.Message[internal.ClientInfoData]{
			Type: "clientInfo",
			Data: internal.ClientInfoData{ID: c.ID, Name: c.Name, Room: room.Code},
		}); err != nil {
			log.Printf("[Connect] Failed to send clientInfo to %s: %v", c.ID, err)
		}
		SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
			Type: "roomPlayerCount",
			Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
		})
	}
}

// Disconnect folds an unexpected connection loss into the normal transition
// table. Every room is swept; in practice a connection belongs to one.
func (h *Hub) Disconnect(c *internal.Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID)
	rooms := make([]*internal.Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	log.Printf("[Disconnect] %s disconnected (game=%s)", c.ID, c.Game)

	for _, room := range rooms {
		h.reconcileLoss(room, c)
	}
	h.dropFromQueue(c)
}

// reconcileLoss applies the loss of one connection to one room.
func (h *Hub) reconcileLoss(room *internal.Room, c *internal.Conn) {
	room.Mu.Lock()

	_, wasSubscriber := room.Subscribers[c.ID]
	delete(room.Subscribers, c.ID)

	// Display gone: hard teardown, no grace period.
	if room.DisplayID == c.ID {
		h.stopSpawningLocked(room)
		snap := snapshotLocked(room)
		room.Mu.Unlock()

		SafeBroadcastToRoom(room, internal.Message[internal.GameOverData]{
			Type: "gameOver",
			Data: internal.GameOverData{Reason: "display_disconnected", Snapshot: snap},
		})
		log.Printf("[reconcileLoss] Display left, closing room %s", room.Code)
		h.removeRoom(room)
		return
	}

	// Participant gone: implicit pause back to idle.
	if room.HasParticipant(c.ID) {
		room.RemoveParticipant(c.ID)
		h.stopSpawningLocked(room)
		room.Status = internal.StatusIdle
		playerCount := len(room.Participants)
		snap := snapshotLocked(room)
		empty := room.IsEmpty()
		room.Mu.Unlock()

		if room.Mode == internal.ModeBaseball {
			SafeBroadcastToRoom(room, internal.Message[any]{Type: "batterLeft"})
		}
		SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
			Type: "roomPlayerCount",
			Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
		})
		SafeBroadcastToRoom(room, internal.Message[internal.Snapshot]{
			Type: "stateUpdate",
			Data: snap,
		})
		if empty {
			h.removeRoom(room)
		}
		return
	}

	// Pending controller or spectator: no game state touched.
	empty := room.IsEmpty() && len(room.Subscribers) == 0
	room.Mu.Unlock()

	if wasSubscriber && empty {
		h.removeRoom(room)
	}
}
