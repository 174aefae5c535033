package game

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/jaeho-dev/minigame-backend/internal"
	"github.com/jaeho-dev/minigame-backend/internal/utils"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// HandleWebSocket upgrades the HTTP connection and attaches it to a room.
// The game comes from the URL path, the room code and role from query
// params. A missing room code is a protocol violation: the client gets
// NO_ROOM and the socket is closed, no retry.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	mode := internal.GameMode(mux.Vars(r)["game"])
	if !mode.IsValid() {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}

	sock, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade failed: ", err)
		return
	}

	query := r.URL.Query()
	role := internal.RoleController
	if query.Get("role") == string(internal.RoleDisplay) {
		role = internal.RoleDisplay
	}

	c := &internal.Conn{
		ID:       uuid.NewString(),
		Sock:     sock,
		Game:     mode,
		RoomCode: query.Get("room"),
		Name:     utils.SanitizeName(query.Get("name"), h.cfg.NameMaxLen, "Unknown"),
		Role:     role,
	}

	if c.RoomCode == "" {
		sendError(c, internal.ErrNoRoom, "Room is required")
		sock.Close()
		return
	}

	h.Connect(c)
	go h.readLoop(c)
}

// readLoop pumps inbound frames for one connection until it dies, then
// hands the loss to the reconciler.
func (h *Hub) readLoop(c *internal.Conn) {
	defer func() {
		c.Sock.Close()
		h.Disconnect(c)
	}()

	log.Printf("[readLoop] Started for %s (game=%s room=%s)", c.ID, c.Game, c.RoomCode)

	for {
		_, raw, err := c.Sock.ReadMessage()
		if err != nil {
			log.Printf("[readLoop] Read error for %s: %v", c.ID, err)
			break
		}

		var base internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &base); err != nil {
			log.Printf("[readLoop] Failed to parse message from %s: %v", c.ID, err)
			continue
		}
		h.dispatch(c, base)
	}
}

// dispatch routes one inbound event to its handler. Payloads are decoded
// into their typed shape here, at the boundary; invalid payloads never
// reach the room state machine.
func (h *Hub) dispatch(c *internal.Conn, msg internal.Message[json.RawMessage]) {
	switch msg.Type {
	case "joinRoom":
		var data internal.JoinRoomData
		if !decode(c, msg, &data) {
			return
		}
		h.JoinRoom(c, data)
	case "leaveRoom":
		var data internal.LeaveRoomData
		if !decode(c, msg, &data) {
			return
		}
		h.LeaveRoom(c, data)
	case "startGame":
		h.StartGame(c)
	case "stopGame":
		h.StopGame(c)
	case "swing":
		var data internal.SwingData
		if !decode(c, msg, &data) {
			return
		}
		h.Swing(c, data)
	case "shake":
		var data internal.ShakeData
		if !decode(c, msg, &data) {
			return
		}
		h.Shake(c, data)
	case "throwDart":
		var data internal.ThrowDartData
		if !decode(c, msg, &data) {
			return
		}
		h.ThrowDart(c, data)
	case "aimUpdate":
		var data internal.AimUpdateData
		if !decode(c, msg, &data) {
			return
		}
		h.AimUpdate(c, data)
	case "aimOff":
		var data internal.AimOffData
		if !decode(c, msg, &data) {
			return
		}
		h.AimOff(c, data)
	case "finishGame":
		var data internal.FinishGameData
		if !decode(c, msg, &data) {
			return
		}
		h.FinishGame(c, data)
	case "resetQueue":
		var data internal.ResetQueueData
		if !decode(c, msg, &data) {
			return
		}
		h.ResetQueue(c, data)
	case "statusQueue":
		h.QueueStatus(c)
	case "joinQueue":
		h.JoinQueue(c)
	case "leaveQueue":
		h.LeaveQueue(c)
	default:
		log.Printf("[dispatch] Unknown message type %q from %s", msg.Type, c.ID)
	}
}

func decode[T any](c *internal.Conn, msg internal.Message[json.RawMessage], out *T) bool {
	if len(msg.Data) == 0 {
		log.Printf("[dispatch] Missing payload for %q from %s", msg.Type, c.ID)
		return false
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		log.Printf("[dispatch] Bad %q payload from %s: %v", msg.Type, c.ID, err)
		return false
	}
	return true
}
