package main

import (
	"testing"
)

func TestValidCombinationAcceptsChainedCodes(t *testing.T) {
	codes := map[string]string{
		"navigator":  "C81A",
		"sage":       "ARCANE",
		"chronicler": "§¥∞≈",
		"craftsman":  "ARCH",
		"apprentice": "HRGBYC",
	}
	if !validCombination(codes) {
		t.Fatal("chained codes rejected")
	}
}

func TestValidCombinationRejectsBrokenChain(t *testing.T) {
	// 42973 ends in 3 but ARCANE starts with A, breaking the
	// navigator-to-sage link.
	codes := map[string]string{
		"navigator":  "42973",
		"sage":       "ARCANE",
		"chronicler": "§¥∞≈",
		"craftsman":  "ARCH",
		"apprentice": "HRGBYC",
	}
	if validCombination(codes) {
		t.Fatal("broken chain accepted")
	}
}

func TestValidCombinationIgnoresCase(t *testing.T) {
	codes := map[string]string{
		"navigator":  "c81a",
		"sage":       "arcane",
		"chronicler": "§¥∞≈",
		"craftsman":  "arch",
		"apprentice": "hrgbyc",
	}
	if !validCombination(codes) {
		t.Fatal("case difference rejected")
	}
}

func TestValidCombinationSkipsChroniclerLinks(t *testing.T) {
	// The sage-to-chronicler and chronicler-to-craftsman links would never
	// match; the chain has to skip both.
	codes := map[string]string{
		"navigator":  "C81A",
		"sage":       "ARCANE",
		"chronicler": "ZZZZ",
		"craftsman":  "ARCH",
		"apprentice": "HRGBYC",
	}
	if !validCombination(codes) {
		t.Fatal("chronicler-adjacent links were not skipped")
	}
}

func TestValidCombinationRejectsMissingCode(t *testing.T) {
	codes := map[string]string{
		"navigator":  "C81A",
		"sage":       "ARCANE",
		"chronicler": "§¥∞≈",
		"craftsman":  "ARCH",
	}
	if validCombination(codes) {
		t.Fatal("missing apprentice code accepted")
	}
}

func TestRoleCodesAllowAtLeastOneSolution(t *testing.T) {
	// Brute-force the pools: the dealt codes must always leave the players a
	// solvable puzzle.
	found := false
	for _, nav := range roleCodes["navigator"] {
		for _, sage := range roleCodes["sage"] {
			for _, craft := range roleCodes["craftsman"] {
				for _, appr := range roleCodes["apprentice"] {
					if validCombination(map[string]string{
						"navigator":  nav,
						"sage":       sage,
						"chronicler": roleCodes["chronicler"][0],
						"craftsman":  craft,
						"apprentice": appr,
					}) {
						found = true
					}
				}
			}
		}
	}
	if !found {
		t.Fatal("no combination of pool codes validates")
	}
}

func combinationRoom(t *testing.T, h *Hub) (*Room, *combinationGame, []*Client) {
	t.Helper()

	r, err := h.registry.resolveOrCreate("r1", "combination")
	if err != nil {
		t.Fatalf("resolveOrCreate: %v", err)
	}
	g := r.game.(*combinationGame)

	clients := make([]*Client, 0, len(combinationOrder))
	for _, role := range combinationOrder {
		c := newTestClient()
		clients = append(clients, c)
		admitOrQueue(h, r, c, role) // names match roles, so assignment is fixed
	}

	if !r.started {
		t.Fatal("combination room did not start at full roster")
	}
	return r, g, clients
}

func TestCombinationSubmissionCountsAttemptsAndHints(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	r, g, clients := combinationRoom(t, h)

	p := r.players[0]
	bad := mustJSON(t, map[string]any{"codes": map[string]string{
		"navigator":  "42973",
		"sage":       "ARCANE",
		"chronicler": "§¥∞≈",
		"craftsman":  "ARCH",
		"apprentice": "HRGBYC",
	}})

	for i := 0; i < 3; i++ {
		drainSend(clients[0])
		g.action(h, r, p, "submit", bad)
	}

	if len(g.log) != 3 {
		t.Fatalf("attempts = %d, want 3", len(g.log))
	}
	for i, attempt := range g.log {
		if attempt.Valid {
			t.Fatalf("attempt %d logged as valid", i)
		}
		if attempt.By != r.players[0].Name {
			t.Fatalf("attempt %d logged for %q", i, attempt.By)
		}
		if attempt.Codes["navigator"] != "42973" {
			t.Fatalf("attempt %d dropped the submitted codes: %v", i, attempt.Codes)
		}
	}

	var hint string
	for _, msg := range drainSend(clients[0]) {
		if res, ok := msg.(CombinationResultMessage); ok {
			hint = res.Hint
		}
	}
	if hint == "" {
		t.Fatal("no hint after the third failed attempt")
	}
	if g.solved {
		t.Fatal("failed submissions marked the room solved")
	}
}

func TestCombinationCorrectSubmissionRemovesTheRoom(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	r, g, clients := combinationRoom(t, h)

	drainSend(clients[1])
	good := mustJSON(t, map[string]any{"codes": map[string]string{
		"navigator":  "C81A",
		"sage":       "ARCANE",
		"chronicler": "§¥∞≈",
		"craftsman":  "ARCH",
		"apprentice": "HRGBYC",
	}})
	g.action(h, r, r.players[0], "submit", good)

	var completed *CompletedMessage
	for _, msg := range drainSend(clients[1]) {
		if m, ok := msg.(CompletedMessage); ok {
			completed = &m
		}
	}
	if completed == nil || !completed.Success {
		t.Fatalf("completion broadcast = %+v", completed)
	}

	// A correct submission is terminal: room gone, codes gone, roster freed.
	if h.registry.get("r1") != nil {
		t.Fatal("solved combination room is still registered")
	}
	if g.codes != nil {
		t.Fatal("dealt codes survived the teardown")
	}
	if len(r.players) != 0 || len(r.waiting) != 0 {
		t.Fatalf("roster survived the teardown: %d players, %d waiting", len(r.players), len(r.waiting))
	}
}
