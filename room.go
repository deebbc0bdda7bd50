package main

import (
	"encoding/json"
	"math/rand"
	"strings"
)

// Player is one participant within one room. A Player exists from successful
// admission (or promotion off the waiting list) until disconnect or explicit
// leave; it is never persisted beyond the connection's lifetime.
type Player struct {
	client *Client
	Name   string
	Score  int
	Role   string
}

// game is the lifecycle contract every challenge variant implements. All
// methods run on the hub goroutine; none may block.
//
// join is called once a player has been admitted to the active set. It sends
// the initialization payload to the new player, announces them to the room,
// and starts the challenge if this join completes the required roster.
//
// action dispatches a variant-specific verb. Actions that violate the current
// state are rejected with an error event to the sender and no state change.
// Unrecognized verbs fall through to a relay broadcast.
//
// complete tears down transient state and emits the final broadcast. It must
// be safe to call when the state is already torn down.
//
// disconnect handles a player's connection going away mid-room.
//
// tick handles a scheduled event that survived its generation check.
type game interface {
	join(h *Hub, r *Room, p *Player)
	action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage)
	complete(h *Hub, r *Room, p *Player)
	disconnect(h *Hub, r *Room, p *Player)
	tick(h *Hub, r *Room, kind string)
}

// Room is one play session bound to exactly one challenge variant.
//
// players is ordered by admission; the order is meaningful for turn-based
// variants and for collision tie-breaking. waiting is a FIFO queue of players
// that arrived while the room was full or in progress.
//
// generation increments whenever in-progress state is invalidated (start,
// round advance, reset, restart, disconnect recovery). Scheduled events carry
// the generation they were created under and are dropped when it no longer
// matches.
type Room struct {
	id         string
	challenge  string
	required   int
	roles      []string
	players    []*Player
	waiting    []*Player
	started    bool
	generation uint64
	game       game
}

func (r *Room) full() bool {
	return len(r.players) >= r.required
}

func (r *Room) empty() bool {
	return len(r.players) == 0 && len(r.waiting) == 0
}

func (r *Room) playerFor(c *Client) *Player {
	for _, p := range r.players {
		if p.client == c {
			return p
		}
	}
	return nil
}

func (r *Room) waitingFor(c *Client) int {
	for i, p := range r.waiting {
		if p.client == c {
			return i
		}
	}
	return -1
}

func (r *Room) playerNames() []string {
	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.Name)
	}
	return names
}

func (r *Room) removePlayer(p *Player) {
	dst := r.players[:0]
	for _, q := range r.players {
		if q == p {
			continue
		}
		dst = append(dst, q)
	}
	r.players = dst
}

// assignRoles fills any unassigned roles. Players whose display name mentions
// a vacant role claim it; leftover roles are shuffled and dealt over the
// remaining unassigned players. Once set, a player's role never changes.
func assignRoles(r *Room, rng *rand.Rand) {
	if len(r.roles) == 0 {
		return
	}

	taken := make(map[string]bool, len(r.roles))
	for _, p := range r.players {
		if p.Role != "" {
			taken[p.Role] = true
		}
	}

	// Name-based matching first.
	for _, p := range r.players {
		if p.Role != "" {
			continue
		}
		for _, role := range r.roles {
			if taken[role] {
				continue
			}
			if strings.Contains(strings.ToLower(p.Name), role) {
				p.Role = role
				taken[role] = true
				break
			}
		}
	}

	// Shuffle-and-slice over whatever is left.
	vacant := make([]string, 0, len(r.roles))
	for _, role := range r.roles {
		if !taken[role] {
			vacant = append(vacant, role)
		}
	}
	rng.Shuffle(len(vacant), func(i, j int) {
		vacant[i], vacant[j] = vacant[j], vacant[i]
	})

	for _, p := range r.players {
		if p.Role != "" || len(vacant) == 0 {
			continue
		}
		p.Role = vacant[0]
		vacant = vacant[1:]
	}
}

// rosterComplete reports whether the challenge may start: a full player count,
// and for role-based variants a fully assigned role set.
func (r *Room) rosterComplete() bool {
	if !r.full() {
		return false
	}
	for _, p := range r.players {
		if len(r.roles) > 0 && p.Role == "" {
			return false
		}
	}
	return true
}

func (r *Room) roleHolder(role string) *Player {
	for _, p := range r.players {
		if p.Role == role {
			return p
		}
	}
	return nil
}
