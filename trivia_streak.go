// Hunthub shared trivia challenge
//
// The room works through a repeating question pool chasing a streak of
// consecutive correct answers. For each question exactly one player is dealt
// the correct option among three decoys; everyone else gets four decoys. The
// room has to talk it out and decide who answers: only the first answer
// counts, and it decides the outcome for everybody. A correct answer extends
// the streak, a wrong one resets it to zero, and either way the pool moves
// on. Reaching the target streak wins, after which the roster is recycled
// through the waiting list.

package main

import (
	"encoding/json"
	"math/rand"
	"strings"
)

// StreakStartMessage is broadcast when the roster fills.
type StreakStartMessage struct {
	Type    string   `json:"type"` // "streak_start"
	Target  int      `json:"target"`
	Players []string `json:"players"`
}

// StreakQuestionMessage is sent privately: every player gets its own
// independently shuffled option set, and only one of those sets contains the
// correct answer.
type StreakQuestionMessage struct {
	Type     string   `json:"type"` // "streak_question"
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Streak   int      `json:"streak"`
	Target   int      `json:"target"`
}

// StreakResultMessage reveals the outcome of the single accepted answer.
type StreakResultMessage struct {
	Type    string `json:"type"` // "streak_result"
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"` // the correct option
	By      string `json:"by"`     // who answered
	Streak  int    `json:"streak"`
	Target  int    `json:"target"`
}

type streakGame struct {
	cfg *Config
	rng *rand.Rand

	qIndex   int
	streak   int
	answered bool // first answer wins; later ones are no-ops
}

func newStreakGame(cfg *Config, rng *rand.Rand) *streakGame {
	return &streakGame{cfg: cfg, rng: rng}
}

func (g *streakGame) join(h *Hub, r *Room, p *Player) {
	h.sendTo(p.client, InitMessage{
		Type:      "init",
		Room:      r.id,
		Challenge: r.challenge,
		Role:      "player",
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

func (g *streakGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.streak = 0

	h.broadcast(r, StreakStartMessage{
		Type:    "streak_start",
		Target:  g.cfg.streakTarget,
		Players: r.playerNames(),
	})
	g.deal(h, r)

	logf(g.cfg, "GAMES: Trivia started in %s with %d players", r.id, len(r.players))
}

// deal sends the current question. The player holding the correct option
// rotates with the question pointer.
func (g *streakGame) deal(h *Hub, r *Room) {
	q := streakQuestions[g.qIndex%len(streakQuestions)]
	holder := r.players[g.qIndex%len(r.players)]
	g.answered = false

	for _, p := range r.players {
		var options []string
		if p == holder {
			options = append(options, q.Correct)
			options = append(options, q.Wrong[:3]...)
		} else {
			options = append(options, q.Wrong[:4]...)
		}
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		h.sendTo(p.client, StreakQuestionMessage{
			Type:     "streak_question",
			Question: q.Text,
			Options:  options,
			Streak:   g.streak,
			Target:   g.cfg.streakTarget,
		})
	}
}

func (g *streakGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "answer":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The round has not started yet.", action)
			return
		}
		// Only the first answer for a question is accepted; a second
		// submission before the round advances is a deliberate no-op.
		if g.answered {
			return
		}

		var body struct {
			Option string `json:"option"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.Option == "" {
			h.sendError(p.client, errInvalidRequest, "An answer needs an option.", action)
			return
		}

		g.answered = true
		q := streakQuestions[g.qIndex%len(streakQuestions)]
		correct := body.Option == q.Correct

		if correct {
			g.streak++
			p.Score++
		} else {
			g.streak = 0
		}

		h.broadcast(r, StreakResultMessage{
			Type:    "streak_result",
			Correct: correct,
			Answer:  q.Correct,
			By:      p.Name,
			Streak:  g.streak,
			Target:  g.cfg.streakTarget,
		})

		if g.streak >= g.cfg.streakTarget {
			h.broadcast(r, CompletedMessage{
				Type:      "challenge_completed",
				Challenge: r.challenge,
				Success:   true,
				Score:     g.streak,
				Message:   "Streak complete! The room will reset shortly.",
			})
			h.notifier.completion(completionNotice{
				GameType:   r.challenge,
				TriviaType: "streak",
				Score:      g.streak,
				PlayerName: strings.Join(r.playerNames(), ", "),
			})
			h.scheduleAfter(r, g.cfg.resetDelay, "reset")
			return
		}

		h.scheduleAfter(r, g.cfg.revealDelay, "advance")

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

func (g *streakGame) tick(h *Hub, r *Room, kind string) {
	switch kind {
	case "advance":
		// The pointer advances on every outcome and wraps over the pool.
		g.qIndex++
		g.deal(h, r)

	case "reset":
		g.reset(h, r)
	}
}

// reset returns the room to the waiting state: streak and pointer cleared,
// all current players moved to the tail of the waiting list in join order,
// and the queue drained straight back into the room.
func (g *streakGame) reset(h *Hub, r *Room) {
	g.streak = 0
	g.qIndex = 0
	g.answered = false
	requeueAll(h, r)
}

func (g *streakGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   true,
		Score:     g.streak,
	})
	g.streak = 0
	g.qIndex = 0
	g.answered = false
	h.finishRoom(r)
}

func (g *streakGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, func() {
		g.answered = false
	})
}
