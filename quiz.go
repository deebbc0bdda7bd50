// Hunthub scored quiz challenges
//
// Two policies share the same scoring core. The group-consensus quiz waits
// until every player has answered, then the majority option decides the
// question. The timed quiz runs a per-question countdown and resolves when it
// expires, recording anyone who stayed silent with an explicit no-answer
// sentinel; answering early from everyone cancels the countdown. Both play a
// fixed-size subset of their pool and end with a pass/fail verdict against a
// percentage threshold, after which a restart reshuffles a fresh subset.

package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"time"
)

const quizQuestionCount = 10

// noAnswer marks a player who let the countdown expire. It is deliberately
// distinct from every real option index.
const noAnswer = -1

// QuizStartMessage is broadcast when a quiz begins or restarts.
type QuizStartMessage struct {
	Type         string   `json:"type"` // "quiz_start"
	Total        int      `json:"total"`
	Threshold    float64  `json:"threshold"`
	TimerSeconds int      `json:"timerSeconds,omitempty"`
	Players      []string `json:"players"`
}

// QuizQuestionMessage is broadcast per question.
type QuizQuestionMessage struct {
	Type     string   `json:"type"` // "quiz_question"
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Active   string   `json:"active,omitempty"` // turn-based only
}

// QuizRevealMessage closes a question.
type QuizRevealMessage struct {
	Type        string         `json:"type"` // "quiz_reveal"
	Correct     bool           `json:"correct"`
	Answer      string         `json:"answer"`
	Majority    int            `json:"majority"` // winning option index, -1 when nobody answered
	Answers     map[string]int `json:"answers"`  // player name -> option index (-1 = no answer)
	RoomCorrect int            `json:"roomCorrect"`
}

// QuizOutcomeMessage carries the final verdict; it has everything a client
// needs to render pass/fail without further queries.
type QuizOutcomeMessage struct {
	Type      string  `json:"type"` // "quiz_outcome"
	Pass      bool    `json:"pass"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Threshold float64 `json:"threshold"`
}

type quizGame struct {
	cfg   *Config
	rng   *rand.Rand
	timed bool

	questions []question
	options   [][]string
	qIndex    int
	answers   map[string]int // connection id -> option index
	correct   int
	open      bool // current question still accepting answers
	completed bool
	timer     *time.Timer
}

func newQuizGame(cfg *Config, rng *rand.Rand, timed bool) *quizGame {
	return &quizGame{cfg: cfg, rng: rng, timed: timed}
}

func (g *quizGame) threshold() float64 {
	if g.timed {
		return 0.5
	}
	return 0.6
}

func (g *quizGame) pool() []question {
	if g.timed {
		return specialistQuestions
	}
	return commonQuestions
}

func (g *quizGame) join(h *Hub, r *Room, p *Player) {
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

func (g *quizGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.completed = false
	g.correct = 0
	g.qIndex = 0

	g.questions, g.options = dealQuizSubset(g.rng, g.pool(), quizQuestionCount)

	start := QuizStartMessage{
		Type:      "quiz_start",
		Total:     len(g.questions),
		Threshold: g.threshold(),
		Players:   r.playerNames(),
	}
	if g.timed {
		start.TimerSeconds = int(g.cfg.questionTimer.Seconds())
	}
	h.broadcast(r, start)

	g.deal(h, r)

	logf(g.cfg, "GAMES: Quiz started in %s (timed=%t)", r.id, g.timed)
}

func (g *quizGame) deal(h *Hub, r *Room) {
	r.generation++
	g.answers = make(map[string]int, len(r.players))
	g.open = true

	h.broadcast(r, QuizQuestionMessage{
		Type:     "quiz_question",
		Index:    g.qIndex,
		Total:    len(g.questions),
		Question: g.questions[g.qIndex].Text,
		Options:  g.options[g.qIndex],
	})

	if g.timed {
		g.timer = h.scheduleAfter(r, g.cfg.questionTimer, "timeout")
	}
}

func (g *quizGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
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
		if _, done := g.answers[p.client.id]; done {
			h.sendError(p.client, errAlreadyAnswered, "You already answered this question.", action)
			return
		}

		var body struct {
			Option int `json:"option"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.Option < 0 || body.Option >= len(g.options[g.qIndex]) {
			h.sendError(p.client, errInvalidRequest, "Answer with a valid option index.", action)
			return
		}

		g.answers[p.client.id] = body.Option

		if len(g.answers) == len(r.players) {
			// Everyone answered; a still-pending countdown must not fire
			// later against the next question.
			if g.timer != nil {
				g.timer.Stop()
			}
			g.resolve(h, r)
		}

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

// resolve scores the current question: the majority option wins it, ties
// break toward the lower option index.
func (g *quizGame) resolve(h *Hub, r *Room) {
	g.open = false

	q := g.questions[g.qIndex]
	opts := g.options[g.qIndex]
	correctIdx := optionIndex(opts, q.Correct)

	counts := make([]int, len(opts))
	named := make(map[string]int, len(r.players))
	for _, p := range r.players {
		idx, ok := g.answers[p.client.id]
		if !ok {
			idx = noAnswer
		}
		named[p.Name] = idx
		if idx != noAnswer {
			counts[idx]++
		}
	}

	majority := noAnswer
	best := 0
	for i, n := range counts {
		if n > best {
			majority = i
			best = n
		}
	}

	questionCorrect := majority != noAnswer && majority == correctIdx
	if questionCorrect {
		g.correct++
	}
	if majority != noAnswer {
		for _, p := range r.players {
			if idx, ok := g.answers[p.client.id]; ok && idx == majority {
				p.Score++
			}
		}
	}

	h.broadcast(r, QuizRevealMessage{
		Type:        "quiz_reveal",
		Correct:     questionCorrect,
		Answer:      q.Correct,
		Majority:    majority,
		Answers:     named,
		RoomCorrect: g.correct,
	})

	if g.qIndex+1 >= len(g.questions) {
		g.finish(h, r)
		return
	}

	h.scheduleAfter(r, g.cfg.revealDelay, "advance")
}

func (g *quizGame) finish(h *Hub, r *Room) {
	g.completed = true
	percent := float64(g.correct) / float64(len(g.questions))
	pass := percent >= g.threshold()

	h.broadcast(r, QuizOutcomeMessage{
		Type:      "quiz_outcome",
		Pass:      pass,
		Correct:   g.correct,
		Total:     len(g.questions),
		Percent:   math.Round(percent*100) / 100,
		Threshold: g.threshold(),
	})

	triviaType := "consensus"
	if g.timed {
		triviaType = "timed"
	}
	h.notifier.completion(completionNotice{
		GameType:   r.challenge,
		TriviaType: triviaType,
		Score:      g.correct,
		PlayerName: strings.Join(r.playerNames(), ", "),
	})
}

func (g *quizGame) tick(h *Hub, r *Room, kind string) {
	switch kind {
	case "advance":
		g.qIndex++
		g.deal(h, r)

	case "timeout":
		if g.open {
			g.resolve(h, r)
		}
	}
}

func (g *quizGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.completed && float64(g.correct)/float64(max(len(g.questions), 1)) >= g.threshold(),
		Score:     g.correct,
	})
	g.clear()
	h.finishRoom(r)
}

func (g *quizGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, g.clear)
}

func (g *quizGame) clear() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.open = false
	g.answers = nil
	g.completed = false
	g.correct = 0
	g.qIndex = 0
}

// dealQuizSubset reshuffles the pool, slices off a fresh subset, and
// pre-shuffles each question's options.
func dealQuizSubset(rng *rand.Rand, pool []question, count int) ([]question, [][]string) {
	deck := make([]question, len(pool))
	copy(deck, pool)
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	if count > len(deck) {
		count = len(deck)
	}
	deck = deck[:count]

	options := make([][]string, len(deck))
	for i, q := range deck {
		opts := make([]string, 0, 4)
		opts = append(opts, q.Correct)
		opts = append(opts, q.Wrong[:3]...)
		rng.Shuffle(len(opts), func(a, b int) {
			opts[a], opts[b] = opts[b], opts[a]
		})
		options[i] = opts
	}

	return deck, options
}

func optionIndex(opts []string, want string) int {
	for i, o := range opts {
		if o == want {
			return i
		}
	}
	return noAnswer
}
