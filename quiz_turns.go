// Hunthub turn-based quiz
//
// Questions rotate through a randomized player order. Only the active player
// may answer; everyone else is limited to sending hints, which are relayed to
// the active player alone. Each question resolves on the single accepted
// answer, and the round ends with the same pass/fail verdict the other
// quizzes use.

package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
)

const turnQuizThreshold = 0.6

// QuizHintMessage carries a whisper from an advisor to the active player.
type QuizHintMessage struct {
	Type string `json:"type"` // "quiz_hint"
	From string `json:"from"`
	Text string `json:"text"`
}

type turnQuizGame struct {
	cfg *Config
	rng *rand.Rand

	questions []question
	options   [][]string
	qIndex    int
	order     []string // connection ids, shuffled at start
	turn      int
	correct   int
	open      bool
	completed bool
}

func newTurnQuizGame(cfg *Config, rng *rand.Rand) *turnQuizGame {
	return &turnQuizGame{cfg: cfg, rng: rng}
}

func (g *turnQuizGame) join(h *Hub, r *Room, p *Player) {
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

func (g *turnQuizGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.completed = false
	g.correct = 0
	g.qIndex = 0
	g.turn = 0

	g.questions, g.options = dealQuizSubset(g.rng, techQuestions, quizQuestionCount)

	g.order = make([]string, 0, len(r.players))
	for _, p := range r.players {
		g.order = append(g.order, p.client.id)
	}
	g.rng.Shuffle(len(g.order), func(i, j int) {
		g.order[i], g.order[j] = g.order[j], g.order[i]
	})

	h.broadcast(r, QuizStartMessage{
		Type:      "quiz_start",
		Total:     len(g.questions),
		Threshold: turnQuizThreshold,
		Players:   r.playerNames(),
	})
	g.deal(h, r)

	logf(g.cfg, "GAMES: Turn quiz started in %s", r.id)
}

func (g *turnQuizGame) active(r *Room) *Player {
	if len(g.order) == 0 {
		return nil
	}
	id := g.order[g.turn%len(g.order)]
	for _, p := range r.players {
		if p.client.id == id {
			return p
		}
	}
	return nil
}

func (g *turnQuizGame) deal(h *Hub, r *Room) {
	g.open = true

	active := g.active(r)
	name := ""
	if active != nil {
		name = active.Name
	}

	h.broadcast(r, QuizQuestionMessage{
		Type:     "quiz_question",
		Index:    g.qIndex,
		Total:    len(g.questions),
		Question: g.questions[g.qIndex].Text,
		Options:  g.options[g.qIndex],
		Active:   name,
	})
}

func (g *turnQuizGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "answer":
		if !r.started || g.completed {
			h.sendError(p.client, errNotStarted, "No quiz is running.", action)
			return
		}
		if !g.open {
			h.sendError(p.client, errRoundClosed, "This question has already been resolved.", action)
			return
		}
		if g.active(r) != p {
			h.sendError(p.client, errNotYourTurn, "It is not your turn to answer.", action)
			return
		}

		var body struct {
			Option int `json:"option"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.Option < 0 || body.Option >= len(g.options[g.qIndex]) {
			h.sendError(p.client, errInvalidRequest, "Answer with a valid option index.", action)
			return
		}

		g.resolve(h, r, p, body.Option)

	case "hint":
		if !r.started || g.completed {
			h.sendError(p.client, errNotStarted, "No quiz is running.", action)
			return
		}
		active := g.active(r)
		if active == p {
			h.sendError(p.client, errNotYourTurn, "The active player answers, the others hint.", action)
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.Text == "" {
			h.sendError(p.client, errInvalidRequest, "A hint needs text.", action)
			return
		}

		h.sendTo(active.client, QuizHintMessage{
			Type: "quiz_hint",
			From: p.Name,
			Text: body.Text,
		})

	case "restart":
		if !g.completed {
			h.sendError(p.client, errNotCompleted, "The quiz can only restart once finished.", action)
			return
		}
		for _, q := range r.players {
			q.Score = 0
		}
		g.start(h, r)

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

func (g *turnQuizGame) resolve(h *Hub, r *Room, p *Player, option int) {
	g.open = false

	q := g.questions[g.qIndex]
	correctIdx := optionIndex(g.options[g.qIndex], q.Correct)
	correct := option == correctIdx

	if correct {
		g.correct++
		p.Score++
	}

	h.broadcast(r, QuizRevealMessage{
		Type:        "quiz_reveal",
		Correct:     correct,
		Answer:      q.Correct,
		Majority:    option,
		Answers:     map[string]int{p.Name: option},
		RoomCorrect: g.correct,
	})

	if g.qIndex+1 >= len(g.questions) {
		g.finish(h, r)
		return
	}

	h.scheduleAfter(r, g.cfg.revealDelay, "advance")
}

func (g *turnQuizGame) finish(h *Hub, r *Room) {
	g.completed = true
	percent := float64(g.correct) / float64(len(g.questions))

	h.broadcast(r, QuizOutcomeMessage{
		Type:      "quiz_outcome",
		Pass:      percent >= turnQuizThreshold,
		Correct:   g.correct,
		Total:     len(g.questions),
		Percent:   math.Round(percent*100) / 100,
		Threshold: turnQuizThreshold,
	})

	h.notifier.completion(completionNotice{
		GameType:   r.challenge,
		TriviaType: "turns",
		Score:      g.correct,
		PlayerName: strings.Join(r.playerNames(), ", "),
	})
}

func (g *turnQuizGame) tick(h *Hub, r *Room, kind string) {
	if kind != "advance" {
		return
	}
	g.qIndex++
	g.turn++
	g.deal(h, r)
}

func (g *turnQuizGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.completed && float64(g.correct)/float64(max(len(g.questions), 1)) >= turnQuizThreshold,
		Score:     g.correct,
	})
	g.clear()
	h.finishRoom(r)
}

func (g *turnQuizGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, g.clear)
}

func (g *turnQuizGame) clear() {
	g.open = false
	g.completed = false
	g.order = nil
	g.turn = 0
	g.correct = 0
	g.qIndex = 0
}
