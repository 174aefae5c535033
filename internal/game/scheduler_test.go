package game

import (
	"testing"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
)

// setupBaseball builds a running baseball room with a registered batter,
// without starting the real spawn loop.
func setupBaseball(t *testing.T, h *Hub) (*internal.Room, *internal.Conn) {
	t.Helper()
	h.Connect(newTestConn("d1", internal.ModeBaseball, "field", internal.RoleDisplay))
	batter := newTestConn("b1", internal.ModeBaseball, "field", internal.RoleController)
	h.Connect(batter)
	join(h, batter, "slugger")

	room, ok := h.lookupRoom(internal.ModeBaseball, "field")
	if !ok {
		t.Fatal("room should exist")
	}
	room.Mu.Lock()
	room.Status = internal.StatusRunning
	room.Mu.Unlock()
	return room, batter
}

func insertBall(room *internal.Room, id string, plateOffset time.Duration) {
	room.Mu.Lock()
	now := time.Now()
	room.Balls[id] = &internal.Ball{
		ID:        id,
		SpawnAt:   now,
		PlateTime: now.Add(plateOffset),
		Active:    true,
	}
	room.Mu.Unlock()
}

func batterScore(t *testing.T, room *internal.Room) int {
	t.Helper()
	room.Mu.Lock()
	defer room.Mu.Unlock()
	p, ok := room.Participants["b1"]
	if !ok {
		t.Fatal("batter missing")
	}
	return p.Score
}

func TestSwingResolvesAndRemovesBall(t *testing.T) {
	h := newTestHub()
	room, batter := setupBaseball(t, h)
	insertBall(room, "b_test1", -10*time.Millisecond) // inside the perfect window

	h.Swing(batter, internal.SwingData{BallID: "b_test1"})

	if got := batterScore(t, room); got != 2 {
		t.Fatalf("expected center hit worth 2, got %d", got)
	}
	room.Mu.Lock()
	_, alive := room.Balls["b_test1"]
	room.Mu.Unlock()
	if alive {
		t.Fatal("resolved ball must leave the live set")
	}
}

func TestSwingSameBallTwiceScoresOnce(t *testing.T) {
	h := newTestHub()
	room, batter := setupBaseball(t, h)
	insertBall(room, "b_test1", 0)

	h.Swing(batter, internal.SwingData{BallID: "b_test1"})
	h.Swing(batter, internal.SwingData{BallID: "b_test1"})

	if got := batterScore(t, room); got != 2 {
		t.Fatalf("second swing on the same ball must be a no-op, score = %d", got)
	}
}

func TestSwingStaleBallIsSilent(t *testing.T) {
	h := newTestHub()
	room, batter := setupBaseball(t, h)

	h.Swing(batter, internal.SwingData{BallID: "b_gone"})

	if got := batterScore(t, room); got != 0 {
		t.Fatalf("swing on an unknown ball must not score, got %d", got)
	}
}

func TestExpireAfterSwingIsNoOp(t *testing.T) {
	h := newTestHub()
	room, batter := setupBaseball(t, h)
	insertBall(room, "b_test1", -200*time.Millisecond) // late swing, still a hit

	h.Swing(batter, internal.SwingData{BallID: "b_test1"})
	scoreAfterHit := batterScore(t, room)

	// The expiry timer fires after the hit already removed the ball.
	h.expireBall(room, "b_test1")

	if got := batterScore(t, room); got != scoreAfterHit {
		t.Fatalf("stale expiry must not change score: %d != %d", got, scoreAfterHit)
	}
}

func TestExpireUnresolvedBallRemovesIt(t *testing.T) {
	h := newTestHub()
	room, _ := setupBaseball(t, h)
	insertBall(room, "b_test1", 0)

	h.expireBall(room, "b_test1")
	h.expireBall(room, "b_test1") // double fire stays a no-op

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if len(room.Balls) != 0 {
		t.Fatalf("expected no live balls, got %d", len(room.Balls))
	}
	if room.Participants["b1"].Score != 0 {
		t.Fatal("a missed ball must not score")
	}
}

func TestSwingAfterExpiryIsSilent(t *testing.T) {
	h := newTestHub()
	room, batter := setupBaseball(t, h)
	insertBall(room, "b_test1", 0)

	h.expireBall(room, "b_test1")
	h.Swing(batter, internal.SwingData{BallID: "b_test1"})

	if got := batterScore(t, room); got != 0 {
		t.Fatalf("swing after expiry must not score, got %d", got)
	}
}

func TestSpawnRequiresRunningRoom(t *testing.T) {
	h := newTestHub()
	room, _ := setupBaseball(t, h)
	room.Mu.Lock()
	room.Status = internal.StatusIdle
	room.Mu.Unlock()

	h.spawnBall(room)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if len(room.Balls) != 0 {
		t.Fatal("idle rooms must not spawn balls")
	}
}

func TestStopGameClearsBallsAndScheduler(t *testing.T) {
	h := newTestHub()
	room, _ := setupBaseball(t, h)
	insertBall(room, "b_test1", 0)
	insertBall(room, "b_test2", 0)

	display := newTestConn("d1", internal.ModeBaseball, "field", internal.RoleDisplay)
	h.StopGame(display)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Status != internal.StatusIdle {
		t.Fatalf("expected idle after stop, got %s", room.Status)
	}
	if len(room.Balls) != 0 {
		t.Fatalf("stop must clear live balls, got %d", len(room.Balls))
	}
	if room.SpawnCancel != nil {
		t.Fatal("spawn handle must be released on stop")
	}
}

func TestStartGameSpawnsImmediately(t *testing.T) {
	h := newTestHub()
	h.Connect(newTestConn("d1", internal.ModeBaseball, "park", internal.RoleDisplay))
	batter := newTestConn("b1", internal.ModeBaseball, "park", internal.RoleController)
	h.Connect(batter)
	join(h, batter, "slugger")

	display := newTestConn("d1", internal.ModeBaseball, "park", internal.RoleDisplay)
	h.StartGame(display)
	defer h.StopGame(display)

	room, _ := h.lookupRoom(internal.ModeBaseball, "park")
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Status != internal.StatusRunning {
		t.Fatalf("expected running, got %s", room.Status)
	}
	if len(room.Balls) != 1 {
		t.Fatalf("expected the first ball right away, got %d", len(room.Balls))
	}
	if room.SpawnCancel == nil {
		t.Fatal("spawn handle must be held while running")
	}
}
