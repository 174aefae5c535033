package game

import (
	"slices"
	"testing"

	"github.com/jaeho-dev/minigame-backend/internal"
)

func queueSnapshot(h *Hub, mode internal.GameMode) []string {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	return slices.Clone(h.queues[mode])
}

func TestQueueKeepsInsertionOrder(t *testing.T) {
	h := newTestHub()
	a := newTestConn("a", internal.ModeClimb, "r1", internal.RoleController)
	b := newTestConn("b", internal.ModeClimb, "r1", internal.RoleController)
	c := newTestConn("c", internal.ModeClimb, "r1", internal.RoleController)

	h.JoinQueue(a)
	h.JoinQueue(b)
	h.JoinQueue(c)

	want := []string{"a", "b", "c"}
	if got := queueSnapshot(h, internal.ModeClimb); !slices.Equal(got, want) {
		t.Fatalf("queue = %v, want %v", got, want)
	}
}

func TestQueueJoinIsIdempotent(t *testing.T) {
	h := newTestHub()
	a := newTestConn("a", internal.ModeClimb, "r1", internal.RoleController)

	h.JoinQueue(a)
	h.JoinQueue(a)

	if got := queueSnapshot(h, internal.ModeClimb); len(got) != 1 {
		t.Fatalf("double join must not duplicate, queue = %v", got)
	}
}

func TestQueueLeaveAbsentIsNoOp(t *testing.T) {
	h := newTestHub()
	a := newTestConn("a", internal.ModeClimb, "r1", internal.RoleController)
	b := newTestConn("b", internal.ModeClimb, "r1", internal.RoleController)

	h.JoinQueue(a)
	h.LeaveQueue(b)

	want := []string{"a"}
	if got := queueSnapshot(h, internal.ModeClimb); !slices.Equal(got, want) {
		t.Fatalf("queue = %v, want %v", got, want)
	}
}

func TestQueuesAreScopedPerGame(t *testing.T) {
	h := newTestHub()
	h.JoinQueue(newTestConn("a", internal.ModeClimb, "r1", internal.RoleController))
	h.JoinQueue(newTestConn("b", internal.ModeBaseball, "r1", internal.RoleController))

	if got := queueSnapshot(h, internal.ModeClimb); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("climb queue = %v", got)
	}
	if got := queueSnapshot(h, internal.ModeBaseball); !slices.Equal(got, []string{"b"}) {
		t.Fatalf("baseball queue = %v", got)
	}
}

func TestResetQueueEmpties(t *testing.T) {
	h := newTestHub()
	a := newTestConn("a", internal.ModeClimb, "r1", internal.RoleController)
	h.JoinQueue(a)

	h.ResetQueue(a, internal.ResetQueueData{Project: "r1"})

	if got := queueSnapshot(h, internal.ModeClimb); len(got) != 0 {
		t.Fatalf("reset must empty the queue, got %v", got)
	}
}

func TestDisconnectPrunesQueue(t *testing.T) {
	h := newTestHub()
	a := newTestConn("a", internal.ModeClimb, "r1", internal.RoleController)
	h.Connect(a)
	h.JoinQueue(a)

	h.Disconnect(a)

	if got := queueSnapshot(h, internal.ModeClimb); len(got) != 0 {
		t.Fatalf("queue must never reference a dead connection, got %v", got)
	}
}
