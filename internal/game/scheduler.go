package game

import (
	"context"
	"log"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
	"github.com/jaeho-dev/minigame-backend/internal/utils"
)

// =============================================================================
// BALL SCHEDULER
// =============================================================================

// startSpawning launches the repeating spawn loop for a room. The first
// ball drops immediately, then one per interval. The loop holds a
// cancellation handle on the room so stop and teardown can kill it.
func (h *Hub) startSpawning(room *internal.Room) {
	room.Mu.Lock()
	if room.SpawnCancel != nil {
		room.SpawnCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	room.SpawnCancel = cancel
	room.Mu.Unlock()

	log.Printf("[startSpawning] Room %s: spawn loop started (interval=%v)",
		room.Code, h.cfg.SpawnInterval())

	h.spawnBall(room)

	go func() {
		ticker := time.NewTicker(h.cfg.SpawnInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.spawnBall(room)
			case <-ctx.Done():
				log.Printf("[startSpawning] Room %s: spawn loop stopped", room.Code)
				return
			}
		}
	}()
}

// stopSpawningLocked cancels the spawn loop and clears the live ball set.
// Pending expiry timers for cleared balls become no-ops: their id no
// longer resolves. Caller holds the room lock.
func (h *Hub) stopSpawningLocked(room *internal.Room) {
	if room.SpawnCancel != nil {
		room.SpawnCancel()
		room.SpawnCancel = nil
	}
	room.Balls = make(map[string]*internal.Ball)
}

// spawnBall drops one ball and schedules its independent expiry timer.
func (h *Hub) spawnBall(room *internal.Room) {
	room.Mu.Lock()
	if room.Status != internal.StatusRunning || len(room.Participants) == 0 {
		room.Mu.Unlock()
		return
	}

	id := "b_" + utils.GenerateID(6)
	now := time.Now()
	room.Balls[id] = &internal.Ball{
		ID:        id,
		SpawnAt:   now,
		PlateTime: now.Add(h.cfg.FallDuration()),
		Active:    true,
	}
	room.Mu.Unlock()

	SafeBroadcastToRoom(room, internal.Message[internal.BallSpawnData]{
		Type: "ballSpawn",
		Data: internal.BallSpawnData{
			BallID:  id,
			FallMs:  int64(h.cfg.FallMs),
			SpawnAt: now.UnixMilli(),
		},
	})

	time.AfterFunc(h.cfg.ExpireAfter(), func() {
		h.expireBall(room, id)
	})
}

// expireBall is the losing end of the hit-vs-expiry race when a swing got
// there first: the id no longer resolves and the timer exits in O(1).
// Otherwise the ball is missed, removed, and announced.
func (h *Hub) expireBall(room *internal.Room, ballID string) {
	room.Mu.Lock()
	ball, ok := room.Balls[ballID]
	if !ok {
		room.Mu.Unlock()
		return
	}
	resolved := ball.HitBy != ""
	ball.Active = false
	delete(room.Balls, ballID)
	room.Mu.Unlock()

	if !resolved {
		SafeBroadcastToRoom(room, internal.Message[internal.MissData]{
			Type: "miss",
			Data: internal.MissData{BallID: ballID},
		})
	}
	SafeBroadcastToRoom(room, internal.Message[internal.BallExpiredData]{
		Type: "ballExpired",
		Data: internal.BallExpiredData{BallID: ballID},
	})
}
