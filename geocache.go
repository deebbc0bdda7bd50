// Hunthub geocaching challenge
//
// The surveyor privately receives the cache coordinates, the lorekeeper a
// written description of the hiding spot. Neither half is enough on its own:
// the find report has to quote the coordinates verbatim and describe the spot
// well enough to hit a minimum share of the description's keywords. Failed
// reports come back with a hint naming which half fell short.

package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
)

// Failure hints for a rejected find report.
const (
	hintCoordinatesWrong = "coordinates_wrong"
	hintDescriptionWrong = "description_wrong"
	hintBothWrong        = "both_wrong"
)

// cacheSite holds one hiding spot. coords lists every accepted rendering of
// the position; the first entry is the canonical one shown to the surveyor.
type cacheSite struct {
	coords   []string
	clue     string
	keywords []string
}

var cacheSites = []cacheSite{
	{
		coords: []string{
			"N 51 30.412 W 000 07.893",
			"N51 30.412 W000 07.893",
			"51.50687, -0.13155",
		},
		clue: "Behind the oak stump at the foot of the old boundary wall, under a flat slate propped against the ivy.",
		keywords: []string{
			"oak", "stump", "boundary", "wall", "slate", "ivy", "flat",
		},
	},
	{
		coords: []string{
			"N 53 24.117 W 002 58.440",
			"N53 24.117 W002 58.440",
			"53.40195, -2.97400",
		},
		clue: "Inside the hollow iron gatepost by the towpath bridge, wedged above the lowest hinge pin.",
		keywords: []string{
			"hollow", "iron", "gatepost", "towpath", "bridge", "hinge", "pin",
		},
	},
	{
		coords: []string{
			"N 55 57.201 W 003 11.326",
			"N55 57.201 W003 11.326",
			"55.95335, -3.18877",
		},
		clue: "Beneath the loose cobble at the third bench along the churchyard path, facing the sundial.",
		keywords: []string{
			"cobble", "bench", "churchyard", "path", "sundial", "loose", "third",
		},
	},
}

// GeocachePrivate is the per-role half of the cache information.
type GeocachePrivate struct {
	Coordinates string `json:"coordinates,omitempty"`
	Clue        string `json:"clue,omitempty"`
}

// GeocacheResultMessage reports one find attempt.
type GeocacheResultMessage struct {
	Type     string `json:"type"` // "geocache_result"
	Found    bool   `json:"found"`
	Hint     string `json:"hint,omitempty"`
	Hits     int    `json:"hits"`
	Needed   int    `json:"needed"`
	Attempts int    `json:"attempts"`
}

type geocacheGame struct {
	cfg *Config
	rng *rand.Rand

	site     *cacheSite
	attempts int
	found    bool
}

func newGeocacheGame(cfg *Config, rng *rand.Rand) *geocacheGame {
	return &geocacheGame{cfg: cfg, rng: rng}
}

func (g *geocacheGame) join(h *Hub, r *Room, p *Player) {
	assignRoles(r, g.rng)

	h.sendTo(p.client, InitMessage{
		Type:      "init",
		Room:      r.id,
		Challenge: r.challenge,
		Role:      p.Role,
		Required:  r.required,
		Players:   r.playerNames(),
	})
	h.broadcastExcept(r, p.client, UserJoinedMessage{
		Type:    "user_joined",
		Name:    p.Name,
		Players: r.playerNames(),
	})

	if !r.started && r.rosterComplete() {
		g.start(h, r)
	}
}

func (g *geocacheGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.site = &cacheSites[g.rng.Intn(len(cacheSites))]
	g.attempts = 0
	g.found = false

	for _, p := range r.players {
		private := GeocachePrivate{}
		switch p.Role {
		case "surveyor":
			private.Coordinates = g.site.coords[0]
		case "lorekeeper":
			private.Clue = g.site.clue
		}
		h.sendTo(p.client, InitMessage{
			Type:      "init",
			Room:      r.id,
			Challenge: r.challenge,
			Role:      p.Role,
			Required:  r.required,
			Players:   r.playerNames(),
			Private:   private,
		})
	}

	logf(g.cfg, "GAMES: Geocache started in %s", r.id)
}

func (g *geocacheGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "report":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The hunt has not started yet.", action)
			return
		}
		if g.found {
			h.sendError(p.client, errRoundClosed, "The cache has already been found.", action)
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.Text == "" {
			h.sendError(p.client, errInvalidRequest, "A find report needs text.", action)
			return
		}

		g.attempts++
		coordsOK, hits, needed := g.evaluate(body.Text)
		descOK := hits >= needed

		if coordsOK && descOK {
			g.found = true
			h.broadcast(r, GeocacheResultMessage{
				Type:     "geocache_result",
				Found:    true,
				Hits:     hits,
				Needed:   needed,
				Attempts: g.attempts,
			})
			h.broadcast(r, CompletedMessage{
				Type:      "challenge_completed",
				Challenge: r.challenge,
				Success:   true,
				Score:     g.attempts,
				Message:   "Cache found and logged.",
			})
			h.notifier.completion(completionNotice{
				GameType:   r.challenge,
				Score:      g.attempts,
				PlayerName: strings.Join(r.playerNames(), ", "),
			})
			return
		}

		hint := hintBothWrong
		switch {
		case coordsOK:
			hint = hintDescriptionWrong
		case descOK:
			hint = hintCoordinatesWrong
		}
		h.broadcast(r, GeocacheResultMessage{
			Type:     "geocache_result",
			Found:    false,
			Hint:     hint,
			Hits:     hits,
			Needed:   needed,
			Attempts: g.attempts,
		})

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

// evaluate checks the two halves of a find report: any accepted rendering of
// the coordinates has to appear as a substring (case-insensitively), and the
// description has to hit at least three keywords or 40% of the pool,
// whichever is larger.
func (g *geocacheGame) evaluate(text string) (coordsOK bool, hits, needed int) {
	lower := strings.ToLower(text)
	for _, c := range g.site.coords {
		if strings.Contains(lower, strings.ToLower(c)) {
			coordsOK = true
			break
		}
	}

	for _, kw := range g.site.keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	needed = int(math.Ceil(0.4 * float64(len(g.site.keywords))))
	if needed < 3 {
		needed = 3
	}
	return coordsOK, hits, needed
}

func (g *geocacheGame) tick(h *Hub, r *Room, kind string) {}

func (g *geocacheGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.found,
		Score:     g.attempts,
	})
	g.clear()
	h.finishRoom(r)
}

func (g *geocacheGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, g.clear)
}

func (g *geocacheGame) clear() {
	g.site = nil
	g.attempts = 0
	g.found = false
}
