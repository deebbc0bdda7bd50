package main

import (
	"testing"
)

func TestIntroRelaysUnknownActions(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)

	r, err := h.registry.resolveOrCreate("solo1", "intro")
	if err != nil {
		t.Fatalf("resolveOrCreate: %v", err)
	}
	c := newTestClient()
	admitOrQueue(h, r, c, "Ada")
	if !r.started {
		t.Fatal("intro room did not start with one player")
	}
	g := r.game.(*introGame)

	// Unknown actions fall through to the relay broadcast, like every other
	// challenge; they are not request errors.
	drainSend(c)
	g.action(h, r, r.players[0], "wave", nil)

	for _, msg := range drainSend(c) {
		if e, ok := msg.(ErrorMessage); ok {
			t.Fatalf("unknown action answered with error %q", e.Code)
		}
	}
	if g.line != 0 {
		t.Fatalf("unknown action advanced the script to line %d", g.line)
	}
}
