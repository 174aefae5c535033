package game

import (
	"log"

	"github.com/jaeho-dev/minigame-backend/internal"
)

// =============================================================================
// BROADCAST HELPERS
// =============================================================================

// SafeBroadcastToRoom sends one message to every subscriber of a room.
// Subscribers are snapshotted under the room lock first, the writes happen
// after, so a slow socket never blocks the room.
func SafeBroadcastToRoom[T any](room *internal.Room, msg internal.Message[T]) {
	room.Mu.Lock()
	subscribers := make([]*internal.Conn, 0, len(room.Subscribers))
	for _, c := range room.Subscribers {
		subscribers = append(subscribers, c)
	}
	room.Mu.Unlock()

	for _, c := range subscribers {
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[Broadcast][Room:%s] Failed for %s: %v", room.Code, c.ID, err)
		}
	}
}

// SafeBroadcastToRoomExcept is SafeBroadcastToRoom minus one connection.
func SafeBroadcastToRoomExcept[T any](room *internal.Room, msg internal.Message[T], excludeID string) {
	room.Mu.Lock()
	subscribers := make([]*internal.Conn, 0, len(room.Subscribers))
	for _, c := range room.Subscribers {
		if c.ID == excludeID {
			continue
		}
		subscribers = append(subscribers, c)
	}
	room.Mu.Unlock()

	for _, c := range subscribers {
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[BroadcastExcept][Room:%s] Failed for %s: %v", room.Code, c.ID, err)
		}
	}
}

// sendError unicasts an error signal to the offending caller only. Room
// state is never touched and nothing is broadcast.
func sendError(c *internal.Conn, code, message string) {
	log.Printf("[sendError] %s -> %s: %s", code, c.ID, message)
	if err := c.SafeWriteJSON(internal.Message[internal.ErrorData]{
		Type: "error",
		Data: internal.ErrorData{Code: code, Message: message},
	}); err != nil {
		log.Printf("[sendError] Failed to send %s to %s: %v", code, c.ID, err)
	}
}

// snapshotLocked builds the full-state payload. Caller holds the room lock.
func snapshotLocked(room *internal.Room) internal.Snapshot {
	return internal.Snapshot{
		Status:       room.Status,
		Participants: room.OrderedParticipants(),
		WinnerID:     room.WinnerID,
	}
}

// pushState broadcasts the canonical full snapshot to the whole room.
// Every state-changing transition ends here, never with a partial diff.
func (h *Hub) pushState(room *internal.Room) {
	room.Mu.Lock()
	snap := snapshotLocked(room)
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[internal.Snapshot]{
		Type: "stateUpdate",
		Data: snap,
	})
}
