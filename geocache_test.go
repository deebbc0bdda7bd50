package main

import (
	"strings"
	"testing"
)

func geocacheRoom(t *testing.T, h *Hub) (*Room, *geocacheGame) {
	t.Helper()
	r, err := h.registry.resolveOrCreate("r1", "geocache")
	if err != nil {
		t.Fatalf("resolveOrCreate: %v", err)
	}
	admitOrQueue(h, r, newTestClient(), "surveyor")
	admitOrQueue(h, r, newTestClient(), "lorekeeper")
	if !r.started {
		t.Fatal("geocache room did not start at full roster")
	}
	return r, r.game.(*geocacheGame)
}

// fullReport builds a report quoting the canonical coordinates and every
// keyword.
func fullReport(site *cacheSite) string {
	return "Found it at " + site.coords[0] + ". " + strings.Join(site.keywords, " ")
}

func TestGeocacheFullReportFindsTheCache(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	r, g := geocacheRoom(t, h)

	p := r.players[0]
	drainSend(p.client)
	g.action(h, r, p, "report", mustJSON(t, map[string]string{"text": fullReport(g.site)}))

	if !g.found {
		t.Fatal("full report did not find the cache")
	}

	var result *GeocacheResultMessage
	var completed *CompletedMessage
	for _, msg := range drainSend(p.client) {
		switch m := msg.(type) {
		case GeocacheResultMessage:
			result = &m
		case CompletedMessage:
			completed = &m
		}
	}
	if result == nil || !result.Found {
		t.Fatalf("result = %+v", result)
	}
	if completed == nil || !completed.Success {
		t.Fatalf("completion = %+v", completed)
	}
}

func TestGeocacheHintNamesTheFailingHalf(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	r, g := geocacheRoom(t, h)
	p := r.players[0]

	cases := []struct {
		text string
		want string
	}{
		{"N 00 00.000 E 000 00.000 " + strings.Join(g.site.keywords, " "), hintCoordinatesWrong},
		{g.site.coords[0] + " nothing useful here", hintDescriptionWrong},
		{"no clue at all", hintBothWrong},
	}

	for _, tc := range cases {
		drainSend(p.client)
		g.action(h, r, p, "report", mustJSON(t, map[string]string{"text": tc.text}))

		var result *GeocacheResultMessage
		for _, msg := range drainSend(p.client) {
			if m, ok := msg.(GeocacheResultMessage); ok {
				result = &m
			}
		}
		if result == nil || result.Found {
			t.Fatalf("report %q unexpectedly found the cache", tc.text)
		}
		if result.Hint != tc.want {
			t.Fatalf("hint for %q = %q, want %q", tc.text, result.Hint, tc.want)
		}
	}

	if g.attempts != len(cases) {
		t.Fatalf("attempts = %d, want %d", g.attempts, len(cases))
	}
}

func TestGeocacheMatchingIsCaseInsensitive(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	_, g := geocacheRoom(t, h)

	coordsOK, hits, needed := g.evaluate(strings.ToUpper(fullReport(g.site)))
	if !coordsOK {
		t.Fatal("upper-cased coordinates not matched")
	}
	if hits < needed {
		t.Fatalf("hits = %d, needed %d", hits, needed)
	}
}

func TestGeocacheAcceptsAlternateCoordinateFormats(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	_, g := geocacheRoom(t, h)

	if len(g.site.coords) < 2 {
		t.Fatalf("site carries %d coordinate formats, want at least 2", len(g.site.coords))
	}

	// Every accepted rendering passes, not just the canonical one shown to
	// the surveyor.
	for _, c := range g.site.coords {
		text := "We found it near " + c + ". " + strings.Join(g.site.keywords, " ")
		coordsOK, hits, needed := g.evaluate(text)
		if !coordsOK {
			t.Fatalf("coordinate format %q rejected", c)
		}
		if hits < needed {
			t.Fatalf("hits = %d, needed %d", hits, needed)
		}
	}
}

func TestGeocacheKeywordFloor(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	_, g := geocacheRoom(t, h)

	// Two keywords is always below the floor of three.
	text := g.site.coords[0] + " " + g.site.keywords[0] + " " + g.site.keywords[1]
	_, hits, needed := g.evaluate(text)

	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
	if needed < 3 {
		t.Fatalf("needed = %d, floor is 3", needed)
	}
	if hits >= needed {
		t.Fatal("two keywords met the threshold")
	}
}

func TestGeocachePrivateHalvesAreDisjoint(t *testing.T) {
	cfg := testConfig()
	h := newTestHub(cfg)
	r, g := geocacheRoom(t, h)

	surveyor := r.roleHolder("surveyor")
	lorekeeper := r.roleHolder("lorekeeper")
	if surveyor == nil || lorekeeper == nil {
		t.Fatal("roles not assigned")
	}

	check := func(c *Client, wantCoords, wantClue bool) {
		t.Helper()
		var private *GeocachePrivate
		for _, msg := range drainSend(c) {
			if m, ok := msg.(InitMessage); ok {
				if p, ok := m.Private.(GeocachePrivate); ok {
					private = &p
				}
			}
		}
		if private == nil {
			t.Fatal("no private payload delivered")
		}
		if (private.Coordinates != "") != wantCoords {
			t.Fatalf("coordinates visibility = %q, want present=%t", private.Coordinates, wantCoords)
		}
		if (private.Clue != "") != wantClue {
			t.Fatalf("clue visibility = %q, want present=%t", private.Clue, wantClue)
		}
	}

	check(surveyor.client, true, false)
	check(lorekeeper.client, false, true)

	if g.site == nil {
		t.Fatal("no site dealt")
	}
}
