package main

import (
	"testing"
)

func TestAdmitUntilFullThenQueue(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	c1, c2, c3 := newTestClient(), newTestClient(), newTestClient()
	admitOrQueue(h, r, c1, "Ada")
	admitOrQueue(h, r, c2, "Ben")
	admitOrQueue(h, r, c3, "Cal")

	if len(r.players) != 2 {
		t.Fatalf("players = %d, want 2", len(r.players))
	}
	if len(r.waiting) != 1 || r.waiting[0].Name != "Cal" {
		t.Fatalf("waiting = %v", r.waiting)
	}

	var queued *QueuedMessage
	for _, msg := range drainSend(c3) {
		if q, ok := msg.(QueuedMessage); ok {
			queued = &q
		}
	}
	if queued == nil || queued.Position != 1 {
		t.Fatalf("queued message = %+v, want position 1", queued)
	}
}

func TestPlayersNeverExceedRequired(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "combination")
	r.game = &recordingGame{}

	for i := 0; i < 12; i++ {
		admitOrQueue(h, r, newTestClient(), "player")
	}

	if len(r.players) != r.required {
		t.Fatalf("players = %d, want %d", len(r.players), r.required)
	}
	if len(r.waiting) != 12-r.required {
		t.Fatalf("waiting = %d, want %d", len(r.waiting), 12-r.required)
	}
}

func TestPromotionIsFIFO(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	c1, c2 := newTestClient(), newTestClient()
	admitOrQueue(h, r, c1, "Ada")
	admitOrQueue(h, r, c2, "Ben")
	admitOrQueue(h, r, newTestClient(), "Cal")
	admitOrQueue(h, r, newTestClient(), "Dee")

	r.game.disconnect(h, r, r.playerFor(c1))

	names := r.playerNames()
	if len(names) != 2 || names[0] != "Ben" || names[1] != "Cal" {
		t.Fatalf("players after promotion = %v, want [Ben Cal]", names)
	}
	if len(r.waiting) != 1 || r.waiting[0].Name != "Dee" {
		t.Fatalf("waiting after promotion = %v", r.waiting)
	}
}

func TestPromotionSkipsDeadConnections(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	c1 := newTestClient()
	admitOrQueue(h, r, c1, "Ada")
	admitOrQueue(h, r, newTestClient(), "Ben")

	dead := newTestClient()
	admitOrQueue(h, r, dead, "Ghost")
	dead.gone = true

	alive := newTestClient()
	admitOrQueue(h, r, alive, "Cal")

	r.game.disconnect(h, r, r.playerFor(c1))

	names := r.playerNames()
	if len(names) != 2 || names[1] != "Cal" {
		t.Fatalf("players = %v, want the dead connection skipped", names)
	}
	if len(r.waiting) != 0 {
		t.Fatalf("waiting = %v, want the skipped entry discarded", r.waiting)
	}
}

func TestQueuePositionsRecomputedOnLeave(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	admitOrQueue(h, r, newTestClient(), "Ada")
	admitOrQueue(h, r, newTestClient(), "Ben")

	w1, w2 := newTestClient(), newTestClient()
	admitOrQueue(h, r, w1, "Cal")
	admitOrQueue(h, r, w2, "Dee")
	drainSend(w2)

	if !removeWaiting(h, r, w1) {
		t.Fatal("removeWaiting did not find the queued client")
	}

	var position int
	for _, msg := range drainSend(w2) {
		if q, ok := msg.(QueuedMessage); ok {
			position = q.Position
		}
	}
	if position != 1 {
		t.Fatalf("position after removal = %d, want 1", position)
	}
}

func TestRequeueAllDrainsQueueAheadOfRoster(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	admitOrQueue(h, r, newTestClient(), "Ada")
	admitOrQueue(h, r, newTestClient(), "Ben")
	admitOrQueue(h, r, newTestClient(), "Cal")
	r.started = true

	gen := r.generation
	requeueAll(h, r)

	if r.started {
		t.Fatal("room still started after requeue")
	}
	if r.generation == gen {
		t.Fatal("generation did not advance on requeue")
	}

	names := r.playerNames()
	if len(names) != 2 || names[0] != "Cal" || names[1] != "Ada" {
		t.Fatalf("players after requeue = %v, want [Cal Ada]", names)
	}
	if len(r.waiting) != 1 || r.waiting[0].Name != "Ben" {
		t.Fatalf("waiting after requeue = %v, want [Ben]", r.waiting)
	}
}

func TestDisconnectBelowRequiredResetsRoom(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	c1, c2 := newTestClient(), newTestClient()
	admitOrQueue(h, r, c1, "Ada")
	admitOrQueue(h, r, c2, "Ben")
	r.started = true
	drainSend(c2)

	r.game.disconnect(h, r, r.playerFor(c1))

	if r.started {
		t.Fatal("room still started after dropping below required")
	}

	var reset bool
	for _, msg := range drainSend(c2) {
		if _, ok := msg.(ResetMessage); ok {
			reset = true
		}
	}
	if !reset {
		t.Fatal("no reset broadcast after the disconnect")
	}
}

func TestDrainedEphemeralRoomIsRemoved(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, _ := h.registry.resolveOrCreate("r1", "quiz")
	r.game = &recordingGame{}

	c := newTestClient()
	admitOrQueue(h, r, c, "Ada")
	r.game.disconnect(h, r, r.playerFor(c))

	if h.registry.get("r1") != nil {
		t.Fatal("drained ephemeral room still registered")
	}
}
