// Hunthub code-combination challenge
//
// Five roles each hold a private code drawn from their role's pool. The codes
// have to be read out loud across devices and submitted together; the check
// chains them in a fixed cyclic role order, matching the last character of
// each code against the first character of the next, case-insensitively. The
// chronicler's code is pure symbols and both of its adjacencies are exempt
// from the chain. Failed submissions count up toward staged hints.

package main

import (
	"encoding/json"
	"math/rand"
	"strings"
)

// combinationOrder is the fixed cyclic order the chain check walks. It
// doubles as the role list, so the roster size follows its length.
var combinationOrder = [...]string{"navigator", "sage", "chronicler", "craftsman", "apprentice"}

// roleCodes holds each role's candidate codes. One code per role is dealt
// privately at start.
var roleCodes = map[string][]string{
	"navigator":  {"42973", "C81A", "515B"},
	"sage":       {"ARCANE", "EMBERS", "RUNE44"},
	"chronicler": {"§¥∞≈", "†‡◊¶", "♠♣♥♦"},
	"craftsman":  {"ARCH", "PLUMB", "BEVEL"},
	"apprentice": {"HRGBYC", "EAGER", "BRIGHT"},
}

// combinationHints unlock in order as failed attempts accumulate.
var combinationHints = []struct {
	attempts int
	text     string
}{
	{3, "The codes connect to each other. Look at where one ends and the next begins."},
	{5, "Follow the marching order: navigator, sage, chronicler, craftsman, apprentice, and back around."},
	{7, "The chronicler's symbols stand apart; the chain skips past them. Case does not matter."},
}

// CombinationStartMessage is broadcast when the roster fills.
type CombinationStartMessage struct {
	Type    string   `json:"type"` // "combination_start"
	Order   []string `json:"order"`
	Players []string `json:"players"`
}

// CombinationCodeMessage carries a role's private code.
type CombinationCodeMessage struct {
	Type string `json:"type"` // "combination_code"
	Role string `json:"role"`
	Code string `json:"code"`
}

// CombinationSharedMessage rebroadcasts a code a player chose to reveal.
type CombinationSharedMessage struct {
	Type string `json:"type"` // "combination_shared"
	From string `json:"from"`
	Role string `json:"role"`
	Code string `json:"code"`
}

// CombinationResultMessage reports one submission attempt.
type CombinationResultMessage struct {
	Type     string `json:"type"` // "combination_result"
	Valid    bool   `json:"valid"`
	Attempts int    `json:"attempts"`
	Hint     string `json:"hint,omitempty"`
}

// combinationAttempt is one logged submission, kept in order.
type combinationAttempt struct {
	By    string
	Codes map[string]string
	Valid bool
}

type combinationGame struct {
	cfg *Config
	rng *rand.Rand

	codes  map[string]string // role -> dealt code
	log    []combinationAttempt
	hinted int
	solved bool
}

func newCombinationGame(cfg *Config, rng *rand.Rand) *combinationGame {
	return &combinationGame{cfg: cfg, rng: rng}
}

func (g *combinationGame) join(h *Hub, r *Room, p *Player) {
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

func (g *combinationGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.log = nil
	g.hinted = 0
	g.solved = false

	g.codes = make(map[string]string, len(combinationOrder))
	for role, pool := range roleCodes {
		g.codes[role] = pool[g.rng.Intn(len(pool))]
	}

	h.broadcast(r, CombinationStartMessage{
		Type:    "combination_start",
		Order:   combinationOrder[:],
		Players: r.playerNames(),
	})

	for _, p := range r.players {
		h.sendTo(p.client, CombinationCodeMessage{
			Type: "combination_code",
			Role: p.Role,
			Code: g.codes[p.Role],
		})
	}

	logf(g.cfg, "GAMES: Combination started in %s", r.id)
}

func (g *combinationGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "share_code":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The round has not started yet.", action)
			return
		}
		h.broadcastExcept(r, p.client, CombinationSharedMessage{
			Type: "combination_shared",
			From: p.Name,
			Role: p.Role,
			Code: g.codes[p.Role],
		})

	case "submit":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The round has not started yet.", action)
			return
		}
		if g.solved {
			h.sendError(p.client, errRoundClosed, "The combination is already solved.", action)
			return
		}

		var body struct {
			Codes map[string]string `json:"codes"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || len(body.Codes) != len(combinationOrder) {
			h.sendError(p.client, errInvalidRequest, "A submission needs one code per role.", action)
			return
		}
		for _, role := range combinationOrder {
			if body.Codes[role] == "" {
				h.sendError(p.client, errInvalidRequest, "A submission needs one code per role.", action)
				return
			}
		}

		valid := validCombination(body.Codes)
		g.log = append(g.log, combinationAttempt{By: p.Name, Codes: body.Codes, Valid: valid})
		logf(g.cfg, "GAMES: Combination attempt %d in %s: valid=%t", len(g.log), r.id, valid)

		if valid {
			g.solved = true
			h.broadcast(r, CombinationResultMessage{
				Type:     "combination_result",
				Valid:    true,
				Attempts: len(g.log),
			})
			h.broadcast(r, CompletedMessage{
				Type:      "challenge_completed",
				Challenge: r.challenge,
				Success:   true,
				Score:     len(g.log),
				Message:   "The combination holds.",
			})
			h.notifier.completion(completionNotice{
				GameType:   r.challenge,
				Score:      len(g.log),
				PlayerName: strings.Join(r.playerNames(), ", "),
			})
			// A correct submission is terminal for the room.
			g.codes = nil
			h.finishRoom(r)
			return
		}

		result := CombinationResultMessage{
			Type:     "combination_result",
			Valid:    false,
			Attempts: len(g.log),
		}
		if g.hinted < len(combinationHints) && len(g.log) >= combinationHints[g.hinted].attempts {
			result.Hint = combinationHints[g.hinted].text
			g.hinted++
		}
		h.broadcast(r, result)

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

func (g *combinationGame) tick(h *Hub, r *Room, kind string) {}

func (g *combinationGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.solved,
		Score:     len(g.log),
	})
	g.codes = nil
	h.finishRoom(r)
}

func (g *combinationGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, func() {
		g.codes = nil
		g.log = nil
		g.hinted = 0
		g.solved = false
	})
}

// validCombination walks the cyclic role order and requires the last
// character of each code to match the first character of the next one,
// ignoring case. Any pair touching the chronicler is skipped; its code is
// symbols and does not take part in the chain. Pure: the verdict depends only
// on the submitted codes.
func validCombination(codes map[string]string) bool {
	for i, role := range combinationOrder {
		next := combinationOrder[(i+1)%len(combinationOrder)]
		if role == "chronicler" || next == "chronicler" {
			continue
		}

		a := []rune(codes[role])
		b := []rune(codes[next])
		if len(a) == 0 || len(b) == 0 {
			return false
		}
		if !strings.EqualFold(string(a[len(a)-1]), string(b[0])) {
			return false
		}
	}
	return true
}
