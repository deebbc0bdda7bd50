// Hunthub cross-device mechanism puzzle
//
// Two players face opposite halves of one machine. Each sees only the
// controls on their own half, but privately receives the operating
// instructions for the other half, so solving means reading your sheet out
// loud while your partner works their controls. A control only reacts to the
// verbs it was built with; any other verb does nothing and is not recorded.
// The machine unlocks once every step of the solution has been performed, in
// any order, with extra operations tolerated.

package main

import (
	"encoding/json"
	"math/rand"
	"strings"
)

const (
	halfEngineer   = "engineer"
	halfTechnician = "technician"
)

// mechVerbs are the only verbs the machine understands at all; anything else
// is a malformed request rather than a dead control.
var mechVerbs = map[string]bool{
	"rotate":  true,
	"toggle":  true,
	"adjust":  true,
	"pull":    true,
	"press":   true,
	"connect": true,
}

type mechStep struct {
	Component string `json:"component"`
	Verb      string `json:"verb"`
}

type mechComponent struct {
	Name string   `json:"name"`
	Half string   `json:"half"`
	Caps []string `json:"caps"`
}

type mechConfig struct {
	name       string
	components []mechComponent
	solution   []mechStep
}

var mechConfigs = []mechConfig{
	{
		name: "gears",
		components: []mechComponent{
			{Name: "drive wheel", Half: halfEngineer, Caps: []string{"rotate"}},
			{Name: "clutch lever", Half: halfEngineer, Caps: []string{"pull", "toggle"}},
			{Name: "idler pin", Half: halfEngineer, Caps: []string{"press"}},
			{Name: "ratchet", Half: halfTechnician, Caps: []string{"rotate", "adjust"}},
			{Name: "tension screw", Half: halfTechnician, Caps: []string{"adjust"}},
			{Name: "flywheel brake", Half: halfTechnician, Caps: []string{"pull"}},
		},
		solution: []mechStep{
			{Component: "clutch lever", Verb: "pull"},
			{Component: "tension screw", Verb: "adjust"},
			{Component: "drive wheel", Verb: "rotate"},
			{Component: "ratchet", Verb: "rotate"},
			{Component: "flywheel brake", Verb: "pull"},
		},
	},
	{
		name: "circuits",
		components: []mechComponent{
			{Name: "main breaker", Half: halfEngineer, Caps: []string{"toggle"}},
			{Name: "dial A", Half: halfEngineer, Caps: []string{"rotate", "adjust"}},
			{Name: "red jumper", Half: halfEngineer, Caps: []string{"connect"}},
			{Name: "relay bank", Half: halfTechnician, Caps: []string{"toggle", "press"}},
			{Name: "dial B", Half: halfTechnician, Caps: []string{"rotate"}},
			{Name: "ground strap", Half: halfTechnician, Caps: []string{"connect"}},
		},
		solution: []mechStep{
			{Component: "main breaker", Verb: "toggle"},
			{Component: "ground strap", Verb: "connect"},
			{Component: "dial A", Verb: "adjust"},
			{Component: "relay bank", Verb: "press"},
			{Component: "red jumper", Verb: "connect"},
		},
	},
	{
		name: "plumbing",
		components: []mechComponent{
			{Name: "inlet valve", Half: halfEngineer, Caps: []string{"rotate", "toggle"}},
			{Name: "pressure gauge", Half: halfEngineer, Caps: []string{"adjust"}},
			{Name: "bleed cock", Half: halfEngineer, Caps: []string{"pull"}},
			{Name: "pump primer", Half: halfTechnician, Caps: []string{"press"}},
			{Name: "outlet valve", Half: halfTechnician, Caps: []string{"rotate"}},
			{Name: "overflow hose", Half: halfTechnician, Caps: []string{"connect"}},
		},
		solution: []mechStep{
			{Component: "inlet valve", Verb: "toggle"},
			{Component: "pump primer", Verb: "press"},
			{Component: "pressure gauge", Verb: "adjust"},
			{Component: "overflow hose", Verb: "connect"},
			{Component: "outlet valve", Verb: "rotate"},
		},
	},
}

// MechanismPrivate is the per-player payload: the controls in front of you
// and the instructions for the controls you cannot see.
type MechanismPrivate struct {
	Config       string          `json:"config"`
	Components   []mechComponent `json:"components"`
	Instructions []mechStep      `json:"instructions"`
}

// MechanismOpMessage reports one performed operation.
type MechanismOpMessage struct {
	Type      string `json:"type"` // "mechanism_op"
	By        string `json:"by"`
	Component string `json:"component"`
	Verb      string `json:"verb"`
	Applied   bool   `json:"applied"`
	Remaining int    `json:"remaining"`
}

// MechanismSolvedMessage is broadcast when every solution step has been done.
type MechanismSolvedMessage struct {
	Type   string `json:"type"` // "mechanism_solved"
	Config string `json:"config"`
	Ops    int    `json:"ops"`
}

// mechOp is one logged operation, applied or not, kept in order.
type mechOp struct {
	By      string
	Step    mechStep
	Applied bool
}

type mechanismGame struct {
	cfg *Config
	rng *rand.Rand

	config    *mechConfig
	performed map[string]bool
	state     map[string]string // component -> last applied verb
	log       []mechOp
	solved    bool
}

func newMechanismGame(cfg *Config, rng *rand.Rand) *mechanismGame {
	return &mechanismGame{cfg: cfg, rng: rng}
}

func (g *mechanismGame) join(h *Hub, r *Room, p *Player) {
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

func (g *mechanismGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.config = &mechConfigs[g.rng.Intn(len(mechConfigs))]
	g.performed = make(map[string]bool)
	g.state = make(map[string]string)
	g.log = nil
	g.solved = false

	for _, p := range r.players {
		h.sendTo(p.client, InitMessage{
			Type:      "init",
			Room:      r.id,
			Challenge: r.challenge,
			Role:      p.Role,
			Required:  r.required,
			Players:   r.playerNames(),
			Private:   g.privateFor(p.Role),
		})
	}

	logf(g.cfg, "GAMES: Mechanism started in %s with config %q", r.id, g.config.name)
}

// privateFor builds a role's view: its own half's controls, the other half's
// instructions.
func (g *mechanismGame) privateFor(role string) MechanismPrivate {
	private := MechanismPrivate{Config: g.config.name}
	for _, comp := range g.config.components {
		if comp.Half == role {
			private.Components = append(private.Components, comp)
		}
	}
	for _, step := range g.config.solution {
		if g.halfOf(step.Component) != role {
			private.Instructions = append(private.Instructions, step)
		}
	}
	return private
}

func (g *mechanismGame) halfOf(component string) string {
	for _, comp := range g.config.components {
		if comp.Name == component {
			return comp.Half
		}
	}
	return ""
}

func (g *mechanismGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "operate":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The machine is not live yet.", action)
			return
		}
		if g.solved {
			h.sendError(p.client, errRoundClosed, "The machine is already unlocked.", action)
			return
		}

		var body mechStep
		if err := json.Unmarshal(payload, &body); err != nil || body.Component == "" || !mechVerbs[body.Verb] {
			h.sendError(p.client, errInvalidRequest, "An operation needs a component and a known verb.", action)
			return
		}

		half := g.halfOf(body.Component)
		if half == "" {
			h.sendError(p.client, errInvalidRequest, "No such component.", action)
			return
		}
		if half != p.Role {
			h.sendError(p.client, errNotYourTurn, "That control is on your partner's half.", action)
			return
		}

		applied := g.capable(body.Component, body.Verb)
		g.log = append(g.log, mechOp{By: p.Name, Step: body, Applied: applied})
		if applied {
			g.performed[body.Component+"/"+body.Verb] = true
			g.state[body.Component] = body.Verb
		}

		h.broadcast(r, MechanismOpMessage{
			Type:      "mechanism_op",
			By:        p.Name,
			Component: body.Component,
			Verb:      body.Verb,
			Applied:   applied,
			Remaining: g.remaining(),
		})

		if applied && g.remaining() == 0 {
			g.solve(h, r)
		}

	case "restart":
		if !g.solved {
			h.sendError(p.client, errNotSolved, "The machine can only be rebuilt once unlocked.", action)
			return
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

// capable reports whether the component declares the verb. Verbs a control
// was not built with do nothing rather than erroring.
func (g *mechanismGame) capable(component, verb string) bool {
	for _, comp := range g.config.components {
		if comp.Name != component {
			continue
		}
		for _, c := range comp.Caps {
			if c == verb {
				return true
			}
		}
	}
	return false
}

func (g *mechanismGame) remaining() int {
	left := 0
	for _, step := range g.config.solution {
		if !g.performed[step.Component+"/"+step.Verb] {
			left++
		}
	}
	return left
}

func (g *mechanismGame) solve(h *Hub, r *Room) {
	g.solved = true

	h.broadcast(r, MechanismSolvedMessage{
		Type:   "mechanism_solved",
		Config: g.config.name,
		Ops:    len(g.log),
	})
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   true,
		Score:     len(g.log),
	})
	h.notifier.completion(completionNotice{
		GameType:   r.challenge,
		ConfigType: g.config.name,
		Score:      len(g.log),
		PlayerName: strings.Join(r.playerNames(), ", "),
	})
}

func (g *mechanismGame) tick(h *Hub, r *Room, kind string) {}

func (g *mechanismGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.solved,
		Score:     len(g.log),
	})
	g.clear()
	h.finishRoom(r)
}

func (g *mechanismGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, g.clear)
}

func (g *mechanismGame) clear() {
	g.config = nil
	g.performed = nil
	g.state = nil
	g.log = nil
	g.solved = false
}
