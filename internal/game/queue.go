package game

import (
	"log"
	"slices"

	"github.com/jaeho-dev/minigame-backend/internal"
)

// =============================================================================
// WAITING QUEUE - per-game FIFO of connection ids
// =============================================================================

// JoinQueue appends the caller to its game's waiting queue. Joining twice
// is idempotent. The new queue is broadcast to every connection of that
// game.
func (h *Hub) JoinQueue(c *internal.Conn) {
	h.queueMu.Lock()
	queue := h.queues[c.Game]
	if !slices.Contains(queue, c.ID) {
		h.queues[c.Game] = append(queue, c.ID)
	}
	snapshot := slices.Clone(h.queues[c.Game])
	h.queueMu.Unlock()

	log.Printf("[JoinQueue] %s joined %s queue (len=%d)", c.ID, c.Game, len(snapshot))
	h.broadcastQueue(c.Game, snapshot)
}

// LeaveQueue removes the caller from its game's waiting queue. Absent ids
// are a no-op.
func (h *Hub) LeaveQueue(c *internal.Conn) {
	h.queueMu.Lock()
	queue := h.queues[c.Game]
	if idx := slices.Index(queue, c.ID); idx >= 0 {
		h.queues[c.Game] = append(queue[:idx], queue[idx+1:]...)
	}
	snapshot := slices.Clone(h.queues[c.Game])
	h.queueMu.Unlock()

	log.Printf("[LeaveQueue] %s left %s queue (len=%d)", c.ID, c.Game, len(snapshot))
	h.broadcastQueue(c.Game, snapshot)
}

// QueueStatus unicasts the current queue to the requester only.
func (h *Hub) QueueStatus(c *internal.Conn) {
	h.queueMu.Lock()
	snapshot := slices.Clone(h.queues[c.Game])
	h.queueMu.Unlock()

	if err := c.SafeWriteJSON(internal.Message[internal.QueueStatusData]{
		Type: "statusQueue",
		Data: internal.QueueStatusData{Queue: snapshot},
	}); err != nil {
		log.Printf("[QueueStatus] Failed to send queue to %s: %v", c.ID, err)
	}
}

// ResetQueue empties the game's queue and notifies the named project room.
func (h *Hub) ResetQueue(c *internal.Conn, data internal.ResetQueueData) {
	h.queueMu.Lock()
	h.queues[c.Game] = nil
	h.queueMu.Unlock()

	log.Printf("[ResetQueue] %s queue reset (project=%s)", c.Game, data.Project)

	if room, ok := h.lookupRoom(c.Game, data.Project); ok {
		SafeBroadcastToRoom(room, internal.Message[internal.ResetQueueData]{
			Type: "resetQueue",
			Data: data,
		})
	}
}

// dropFromQueue prunes a lost connection from its waiting queue, so the
// queue never references a connection that is not actually connected.
func (h *Hub) dropFromQueue(c *internal.Conn) {
	h.queueMu.Lock()
	queue := h.queues[c.Game]
	idx := slices.Index(queue, c.ID)
	if idx >= 0 {
		h.queues[c.Game] = append(queue[:idx], queue[idx+1:]...)
	}
	snapshot := slices.Clone(h.queues[c.Game])
	h.queueMu.Unlock()

	if idx >= 0 {
		h.broadcastQueue(c.Game, snapshot)
	}
}

// broadcastQueue pushes the queue to every live connection of one game.
func (h *Hub) broadcastQueue(mode internal.GameMode, queue []string) {
	h.mu.RLock()
	targets := make([]*internal.Conn, 0, len(h.conns))
	for _, c := range h.conns {
		if c.Game == mode {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	msg := internal.Message[internal.QueueStatusData]{
		Type: "statusQueue",
		Data: internal.QueueStatusData{Queue: queue},
	}
	for _, c := range targets {
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[broadcastQueue] Failed for %s: %v", c.ID, err)
		}
	}
}
