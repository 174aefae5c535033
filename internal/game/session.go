package game

import (
	"fmt"
	"log"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
	"github.com/jaeho-dev/minigame-backend/internal/utils"
)

const batterColor = "#ffd43b"

// =============================================================================
// JOIN / LEAVE
// =============================================================================

// JoinRoom registers the caller as a participant of an existing room.
// Capacity and slot ownership are checked per game mode.
func (h *Hub) JoinRoom(c *internal.Conn, data internal.JoinRoomData) {
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		sendError(c, internal.ErrNoSuchRoom, "Room not found")
		return
	}

	switch room.Mode {
	case internal.ModeBaseball:
		h.joinBatter(room, c, data)
	case internal.ModeClimb:
		h.joinClimber(room, c, data)
	case internal.ModeDart:
		h.joinDartPlayer(room, c, data)
	}
}

func (h *Hub) joinBatter(room *internal.Room, c *internal.Conn, data internal.JoinRoomData) {
	room.Mu.Lock()

	if len(room.Participants) > 0 && !room.HasParticipant(c.ID) {
		room.Mu.Unlock()
		sendError(c, internal.ErrRoomOccupied, "Batter slot is occupied")
		return
	}

	// Register or update; a rejoin keeps its score.
	score := 0
	if existing, ok := room.Participants[c.ID]; ok {
		score = existing.Score
	}
	batter := &internal.Participant{
		ID:       c.ID,
		Name:     utils.SanitizeName(data.Name, h.cfg.NameMaxLen, "Batter"),
		Color:    batterColor,
		Score:    score,
		JoinedAt: time.Now(),
		Conn:     c,
	}
	room.AddParticipant(batter)
	room.Subscribers[c.ID] = c
	ready := internal.BatterReadyData{ID: batter.ID, Name: batter.Name, Color: batter.Color}
	room.Mu.Unlock()

	log.Printf("[joinBatter] Room %s: %s took the batter slot", room.Code, c.ID)

	if err := c.SafeWriteJSON(internal.Message[internal.JoinedRoomData]{
		Type: "joinedRoom",
		Data: internal.JoinedRoomData{Room: room.Code, Role: "batter"},
	}); err != nil {
		log.Printf("[joinBatter] Failed to confirm join to %s: %v", c.ID, err)
	}
	SafeBroadcastToRoom(room, internal.Message[internal.BatterReadyData]{
		Type: "batterReady",
		Data: ready,
	})
	h.pushState(room)
}

func (h *Hub) joinClimber(room *internal.Room, c *internal.Conn, data internal.JoinRoomData) {
	room.Mu.Lock()

	if !room.HasParticipant(c.ID) && len(room.Participants) >= room.MaxPlayers {
		room.Mu.Unlock()
		sendError(c, internal.ErrRoomFull, "Room is full")
		return
	}

	name := data.Name
	if name == "" {
		name = fmt.Sprintf("P%d", len(room.Participants)+1)
	}
	room.AddParticipant(&internal.Participant{
		ID:       c.ID,
		Name:     utils.SanitizeName(name, h.cfg.NameMaxLen, name),
		Progress: 0,
		JoinedAt: time.Now(),
		Conn:     c,
	})
	room.Subscribers[c.ID] = c
	playerCount := len(room.Participants)
	room.Mu.Unlock()

	log.Printf("[joinClimber] Room %s: %s joined (%d/%d players)",
		room.Code, c.ID, playerCount, room.MaxPlayers)

	if err := c.SafeWriteJSON(internal.Message[internal.JoinedRoomData]{
		Type: "joinedRoom",
		Data: internal.JoinedRoomData{Room: room.Code, PlayerCount: playerCount},
	}); err != nil {
		log.Printf("[joinClimber] Failed to confirm join to %s: %v", c.ID, err)
	}
	SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
		Type: "roomPlayerCount",
		Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
	})
	h.pushState(room)
}

func (h *Hub) joinDartPlayer(room *internal.Room, c *internal.Conn, data internal.JoinRoomData) {
	room.Mu.Lock()

	name := data.Name
	if name == "" {
		name = c.Name
	}
	name = utils.SanitizeName(name, h.cfg.NameMaxLen, "Unknown")
	if p, ok := room.Participants[c.ID]; ok {
		p.Name = name
	} else {
		if len(room.Participants) >= room.MaxPlayers {
			room.Mu.Unlock()
			sendError(c, internal.ErrRoomFull, "Room is full")
			return
		}
		room.AddParticipant(&internal.Participant{
			ID:       c.ID,
			Name:     name,
			JoinedAt: time.Now(),
			Conn:     c,
		})
	}
	c.Name = name
	room.Subscribers[c.ID] = c
	playerCount := len(room.Participants)
	room.Mu.Unlock()

	log.Printf("[joinDartPlayer] Room %s: %s (%s) joined, players=%d",
		room.Code, c.ID, name, playerCount)

	if err := c.SafeWriteJSON(internal.Message[internal.JoinedRoomData]{
		Type: "joinedRoom",
		Data: internal.JoinedRoomData{Room: room.Code, PlayerCount: playerCount},
	}); err != nil {
		log.Printf("[joinDartPlayer] Failed to confirm join to %s: %v", c.ID, err)
	}
	SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
		Type: "roomPlayerCount",
		Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
	})
}

// LeaveRoom releases the caller's player slot. Leaving twice, or a room the
// caller never joined, is a no-op.
func (h *Hub) LeaveRoom(c *internal.Conn, data internal.LeaveRoomData) {
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		return
	}

	room.Mu.Lock()
	if !room.HasParticipant(c.ID) {
		room.Mu.Unlock()
		return
	}
	room.RemoveParticipant(c.ID)
	h.stopSpawningLocked(room)
	room.Status = internal.StatusIdle
	playerCount := len(room.Participants)
	room.Mu.Unlock()

	log.Printf("[LeaveRoom] Room %s: %s left", room.Code, c.ID)

	if room.Mode == internal.ModeBaseball {
		SafeBroadcastToRoom(room, internal.Message[any]{Type: "batterLeft"})
	}
	SafeBroadcastToRoom(room, internal.Message[internal.RoomPlayerCountData]{
		Type: "roomPlayerCount",
		Data: internal.RoomPlayerCountData{Room: room.Code, PlayerCount: playerCount},
	})
	h.pushState(room)
}

// =============================================================================
// START / STOP (DISPLAY ONLY)
// =============================================================================

// StartGame transitions the caller's room to running. Only the display may
// start, and the minimum player count must be met.
func (h *Hub) StartGame(c *internal.Conn) {
	room, ok := h.roomForConn(c)
	if !ok {
		return
	}

	room.Mu.Lock()

	if room.DisplayID == "" {
		room.Mu.Unlock()
		sendError(c, internal.ErrNoDisplay, "Display not found")
		return
	}
	if room.DisplayID != c.ID {
		room.Mu.Unlock()
		sendError(c, internal.ErrNotDisplay, "Only display can start")
		return
	}
	if room.Status == internal.StatusRunning {
		room.Mu.Unlock()
		sendError(c, internal.ErrGameRunning, "Game already running")
		return
	}
	if len(room.Participants) < room.MinPlayers {
		room.Mu.Unlock()
		if room.Mode == internal.ModeBaseball {
			sendError(c, internal.ErrNoBatter, "No batter in room")
		} else {
			sendError(c, internal.ErrNotEnoughPlayers, "Not enough players to start")
		}
		return
	}

	// Initialize: fresh scores and progress, no leftover balls.
	room.Status = internal.StatusRunning
	room.WinnerID = ""
	for _, p := range room.Participants {
		p.Score = 0
		p.Progress = 0
	}
	room.Balls = make(map[string]*internal.Ball)
	room.Mu.Unlock()

	log.Printf("[StartGame] Room %s (game=%s) started", room.Code, room.Mode)

	SafeBroadcastToRoom(room, internal.Message[any]{Type: "gameStarted"})
	h.pushState(room)

	if room.Mode == internal.ModeBaseball {
		h.startSpawning(room)
	}
}

// StopGame returns the room to idle and announces the final snapshot.
func (h *Hub) StopGame(c *internal.Conn) {
	room, ok := h.roomForConn(c)
	if !ok {
		return
	}

	room.Mu.Lock()
	if room.DisplayID != c.ID {
		room.Mu.Unlock()
		sendError(c, internal.ErrNotDisplay, "Only display can stop")
		return
	}
	h.stopSpawningLocked(room)
	room.Status = internal.StatusIdle
	snap := snapshotLocked(room)
	room.Mu.Unlock()

	log.Printf("[StopGame] Room %s stopped by display", room.Code)

	SafeBroadcastToRoom(room, internal.Message[internal.GameOverData]{
		Type: "gameOver",
		Data: internal.GameOverData{Reason: "stopped", Snapshot: snap},
	})
	h.pushState(room)
}

// =============================================================================
// GAMEPLAY ACTIONS
// =============================================================================

// Swing resolves a live ball for the batter. A swing against a ball that
// already resolved or expired is an expected race outcome and stays silent.
func (h *Hub) Swing(c *internal.Conn, data internal.SwingData) {
	room, ok := h.roomForConn(c)
	if !ok {
		return
	}

	room.Mu.Lock()
	if room.Status != internal.StatusRunning {
		room.Mu.Unlock()
		return
	}
	batter, ok := room.Participants[c.ID]
	if !ok {
		// Only the batter swings, and only for itself.
		room.Mu.Unlock()
		return
	}
	ball, ok := room.Balls[data.BallID]
	if !ok || !ball.Active || ball.HitBy != "" {
		room.Mu.Unlock()
		return
	}

	diff := time.Since(ball.PlateTime) // (-) early / (+) late
	outcome := JudgeSwing(diff, h.cfg.PerfectWindow())

	power := DefaultSwingPower
	if data.Power != nil {
		power = *data.Power
	}
	power = utils.Clamp(power, 0, 1)

	// First resolution wins; the ball leaves the live set right here.
	ball.HitBy = c.ID
	ball.Active = false
	delete(room.Balls, ball.ID)
	batter.Score += SwingPoints(outcome)

	hit := internal.HitData{
		BallID:      ball.ID,
		Outcome:     string(outcome),
		Power:       power,
		TimingMs:    diff.Milliseconds(),
		Participant: *batter,
	}
	room.Mu.Unlock()

	log.Printf("[Swing] Room %s: ball %s hit %s (%dms) by %s",
		room.Code, ball.ID, outcome, hit.TimingMs, c.ID)

	SafeBroadcastToRoom(room, internal.Message[internal.HitData]{Type: "hit", Data: hit})
	h.pushState(room)
}

// Shake folds one motion sample into the caller's climb progress. Crossing
// the win threshold ends the game for the whole room.
func (h *Hub) Shake(c *internal.Conn, data internal.ShakeData) {
	room, ok := h.roomForConn(c)
	if !ok {
		return
	}

	room.Mu.Lock()
	if room.Status != internal.StatusRunning {
		room.Mu.Unlock()
		return
	}
	player, ok := room.Participants[c.ID]
	if !ok {
		room.Mu.Unlock()
		return
	}

	player.Progress = ApplyShake(player.Progress, data.Delta, h.cfg.ShakeSampleCap, h.cfg.ShakeGain)

	if player.Progress >= h.cfg.WinThreshold {
		room.Status = internal.StatusEnded
		room.WinnerID = player.ID
		snap := snapshotLocked(room)
		room.Mu.Unlock()

		log.Printf("[Shake] Room %s: %s reached the top, game over", room.Code, c.ID)

		SafeBroadcastToRoom(room, internal.Message[internal.GameOverData]{
			Type: "gameOver",
			Data: internal.GameOverData{WinnerID: player.ID, Snapshot: snap},
		})
		return
	}
	room.Mu.Unlock()

	h.pushState(room)
}

// ThrowDart relays one throw to the room. Score bookkeeping stays on the
// clients until finishGame submits the totals.
func (h *Hub) ThrowDart(c *internal.Conn, data internal.ThrowDartData) {
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		return
	}
	room.Mu.Lock()
	player, ok := room.Participants[c.ID]
	if !ok {
		room.Mu.Unlock()
		return
	}
	if data.Name == "" {
		data.Name = player.Name
	}
	room.Mu.Unlock()

	log.Printf("[ThrowDart] Room %s: %s threw for %d", room.Code, c.ID, data.Score)
	SafeBroadcastToRoomExcept(room, internal.Message[internal.ThrowDartData]{
		Type: "dartThrown",
		Data: data,
	}, c.ID)
}

// AimUpdate relays live aim coordinates to the room.
func (h *Hub) AimUpdate(c *internal.Conn, data internal.AimUpdateData) {
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		return
	}
	room.Mu.Lock()
	player, ok := room.Participants[c.ID]
	if !ok {
		room.Mu.Unlock()
		return
	}
	if data.Name == "" {
		data.Name = player.Name
	}
	room.Mu.Unlock()

	SafeBroadcastToRoomExcept(room, internal.Message[internal.AimUpdateData]{
		Type: "aimUpdate",
		Data: data,
	}, c.ID)
}

// AimOff relays that the caller stopped aiming.
func (h *Hub) AimOff(c *internal.Conn, data internal.AimOffData) {
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		return
	}
	room.Mu.Lock()
	player, ok := room.Participants[c.ID]
	if !ok {
		room.Mu.Unlock()
		return
	}
	if data.Name == "" {
		data.Name = player.Name
	}
	room.Mu.Unlock()

	SafeBroadcastToRoomExcept(room, internal.Message[internal.AimOffData]{
		Type: "aimOff",
		Data: data,
	}, c.ID)
}

// FinishGame ranks the submitted scores and announces the result to every
// entrant. The per-entrant results map and the ranking list are identical
// for everyone; clients pick out their own entry.
func (h *Hub) FinishGame(c *internal.Conn, data internal.FinishGameData) {
	if data.Room == "" || len(data.Scores) == 0 {
		return
	}
	room, ok := h.lookupRoom(c.Game, data.Room)
	if !ok {
		return
	}

	results, ranking := RankScores(data.Scores)

	room.Mu.Lock()
	room.Status = internal.StatusEnded
	room.Mu.Unlock()

	log.Printf("[FinishGame] Room %s finished with %d entrants", room.Code, len(data.Scores))

	SafeBroadcastToRoom(room, internal.Message[internal.GameResultData]{
		Type: "gameResult",
		Data: internal.GameResultData{Results: results, Ranking: ranking},
	})

	// The summary ranking goes out without connection ids.
	public := make([]internal.RankedEntry, len(ranking))
	for i, entry := range ranking {
		public[i] = internal.RankedEntry{Name: entry.Name, Score: entry.Score, Rank: entry.Rank}
	}
	SafeBroadcastToRoom(room, internal.Message[internal.GameFinishedData]{
		Type: "gameFinished",
		Data: internal.GameFinishedData{Room: room.Code, Ranking: public},
	})
	h.pushState(room)
}
