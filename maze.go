// Hunthub shared maze challenge
//
// Up to five players share a procedurally generated maze. Each player gets a
// private spawn and target cell, plans an ordered list of moves without
// seeing anyone else's plan, and submits it. Once everyone has submitted, the
// server replays all plans step-by-step in lockstep: walls block movement
// (logged as a wall collision), and two players meeting in one cell is a
// player collision. Any collision halts the replay and fails the attempt;
// the room keeps the same grid and positions for the retry. Success needs a
// collision-free replay that leaves every player standing on their target.

package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
)

const (
	mazeWidth  = 15
	mazeHeight = 15

	mazeExtraOpenings = 12
	mazeOpenAreas     = 2

	minCellSeparation = 5.0
	placementRetries  = 30
)

type cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Broadcast when the roster fills and the maze is dealt.
type MazeStartMessage struct {
	Type    string   `json:"type"` // "maze_start"
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Grid    [][]bool `json:"grid"` // true = open cell
	Players []string `json:"players"`
}

// Sent privately to each player: only you know where you start and where you
// must end up.
type MazeAssignmentMessage struct {
	Type   string `json:"type"` // "maze_assignment"
	Spawn  cell   `json:"spawn"`
	Target cell   `json:"target"`
}

// Broadcast after each submission so the room can see who is still planning.
type MazeProgressMessage struct {
	Type      string `json:"type"` // "maze_progress"
	Submitted int    `json:"submitted"`
	Required  int    `json:"required"`
}

type collisionEvent struct {
	Step   int    `json:"step"`
	Player string `json:"player"`
	Other  string `json:"other,omitempty"`
	Cell   cell   `json:"cell"`
}

// MazeResultMessage reports the outcome of one lockstep replay.
type MazeResultMessage struct {
	Type             string           `json:"type"` // "maze_result"
	Success          bool             `json:"success"`
	HaltStep         int              `json:"haltStep"` // -1 when the replay ran to completion
	WallCollisions   []collisionEvent `json:"wallCollisions"`
	PlayerCollisions []collisionEvent `json:"playerCollisions"`
	Finals           map[string]cell  `json:"finals"` // player name -> final cell
}

type mazeGame struct {
	cfg *Config
	rng *rand.Rand

	grid    [][]bool
	spawns  map[string]cell // keyed by connection id
	targets map[string]cell
	moves   map[string][]string
	ready   map[string]bool
}

func newMazeGame(cfg *Config, rng *rand.Rand) *mazeGame {
	return &mazeGame{cfg: cfg, rng: rng}
}

func (g *mazeGame) join(h *Hub, r *Room, p *Player) {
	h.sendTo(p.client, InitMessage{
		Type:      "init",
		Room:      r.id,
		Challenge: r.challenge,
		Role:      "runner",
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

func (g *mazeGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++

	g.grid = newMazeGrid(g.rng)
	g.spawns = make(map[string]cell, len(r.players))
	g.targets = make(map[string]cell, len(r.players))
	g.moves = make(map[string][]string)
	g.ready = make(map[string]bool)

	var placed []cell
	for _, p := range r.players {
		spawn := placeApart(g.rng, g.grid, placed, false)
		placed = append(placed, spawn)
		g.spawns[p.client.id] = spawn
	}
	for _, p := range r.players {
		target := placeApart(g.rng, g.grid, placed, true)
		placed = append(placed, target)
		g.targets[p.client.id] = target
	}

	h.broadcast(r, MazeStartMessage{
		Type:    "maze_start",
		Width:   mazeWidth,
		Height:  mazeHeight,
		Grid:    g.grid,
		Players: r.playerNames(),
	})
	for _, p := range r.players {
		h.sendTo(p.client, MazeAssignmentMessage{
			Type:   "maze_assignment",
			Spawn:  g.spawns[p.client.id],
			Target: g.targets[p.client.id],
		})
	}

	logf(g.cfg, "GAMES: Maze started in %s with %d players", r.id, len(r.players))
}

func (g *mazeGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "moves":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The maze has not started yet.", action)
			return
		}
		if g.ready[p.client.id] {
			h.sendError(p.client, errAlreadyAnswered, "You already submitted a plan for this attempt.", action)
			return
		}

		var body struct {
			Moves []string `json:"moves"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || len(body.Moves) == 0 {
			h.sendError(p.client, errInvalidRequest, "A plan needs at least one move.", action)
			return
		}
		for _, mv := range body.Moves {
			switch mv {
			case "up", "down", "left", "right", "stop":
			default:
				h.sendError(p.client, errInvalidRequest, "Unknown move "+mv+".", action)
				return
			}
		}

		g.moves[p.client.id] = body.Moves
		g.ready[p.client.id] = true
		h.broadcast(r, MazeProgressMessage{
			Type:      "maze_progress",
			Submitted: len(g.ready),
			Required:  len(r.players),
		})

		if len(g.ready) == len(r.players) {
			g.runSimulation(h, r)
		}

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

func (g *mazeGame) runSimulation(h *Hub, r *Room) {
	order := make([]string, 0, len(r.players))
	names := make(map[string]string, len(r.players))
	for _, p := range r.players {
		order = append(order, p.client.id)
		names[p.client.id] = p.Name
	}

	res := simulateMoves(g.grid, g.spawns, g.targets, order, g.moves)

	finals := make(map[string]cell, len(res.finals))
	for id, pos := range res.finals {
		finals[names[id]] = pos
	}
	msg := MazeResultMessage{
		Type:             "maze_result",
		Success:          res.success,
		HaltStep:         res.haltStep,
		WallCollisions:   make([]collisionEvent, 0, len(res.wallCollisions)),
		PlayerCollisions: make([]collisionEvent, 0, len(res.playerCollisions)),
		Finals:           finals,
	}
	for _, ev := range res.wallCollisions {
		ev.Player = names[ev.Player]
		msg.WallCollisions = append(msg.WallCollisions, ev)
	}
	for _, ev := range res.playerCollisions {
		ev.Player = names[ev.Player]
		ev.Other = names[ev.Other]
		msg.PlayerCollisions = append(msg.PlayerCollisions, ev)
	}

	h.broadcast(r, msg)

	if res.success {
		// The room stays put until an external follow-up arrives.
		for _, p := range r.players {
			p.Score++
		}
		h.notifier.completion(completionNotice{
			GameType:   r.challenge,
			Score:      1,
			PlayerName: strings.Join(r.playerNames(), ", "),
		})
		logf(g.cfg, "GAMES: Maze solved in %s", r.id)
		return
	}

	// Same grid and positions for the retry.
	g.moves = make(map[string][]string)
	g.ready = make(map[string]bool)
}

func (g *mazeGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   true,
		Score:     1,
	})
	g.clear()
	h.finishRoom(r)
}

func (g *mazeGame) disconnect(h *Hub, r *Room, p *Player) {
	delete(g.moves, p.client.id)
	delete(g.ready, p.client.id)
	dropAndRecover(h, r, p, g.clear)
}

func (g *mazeGame) tick(h *Hub, r *Room, kind string) {}

func (g *mazeGame) clear() {
	g.grid = nil
	g.spawns = nil
	g.targets = nil
	g.moves = nil
	g.ready = nil
}

// ---------------------------------------------------------------------
// Grid generation
// ---------------------------------------------------------------------

// newMazeGrid carves a maze with a randomized depth-first walk over the odd
// cell lattice, then knocks out a handful of extra walls and stamps a couple
// of open areas so more than one route exists.
func newMazeGrid(rng *rand.Rand) [][]bool {
	grid := make([][]bool, mazeHeight)
	for y := range grid {
		grid[y] = make([]bool, mazeWidth)
	}

	type point struct{ x, y int }
	start := point{1, 1}
	grid[start.y][start.x] = true
	stack := []point{start}

	dirs := [4]point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		perm := rng.Perm(4)
		carved := false
		for _, i := range perm {
			nx, ny := cur.x+dirs[i].x, cur.y+dirs[i].y
			if nx < 1 || ny < 1 || nx >= mazeWidth-1 || ny >= mazeHeight-1 || grid[ny][nx] {
				continue
			}
			grid[cur.y+dirs[i].y/2][cur.x+dirs[i].x/2] = true
			grid[ny][nx] = true
			stack = append(stack, point{nx, ny})
			carved = true
			break
		}
		if !carved {
			stack = stack[:len(stack)-1]
		}
	}

	for i := 0; i < mazeExtraOpenings; i++ {
		x := 1 + rng.Intn(mazeWidth-2)
		y := 1 + rng.Intn(mazeHeight-2)
		grid[y][x] = true
	}

	for i := 0; i < mazeOpenAreas; i++ {
		x := 1 + rng.Intn(mazeWidth-4)
		y := 1 + rng.Intn(mazeHeight-4)
		for dy := 0; dy < 3; dy++ {
			for dx := 0; dx < 3; dx++ {
				grid[y+dy][x+dx] = true
			}
		}
	}

	return grid
}

// placeApart picks an open cell keeping at least minCellSeparation from every
// already placed cell, giving up after placementRetries attempts. The
// fallback is the first unoccupied open cell in scan order, or, when farthest
// is set, the open cell with the greatest summed distance to the placed set.
func placeApart(rng *rand.Rand, grid [][]bool, placed []cell, farthest bool) cell {
	occupied := func(c cell) bool {
		for _, q := range placed {
			if q == c {
				return true
			}
		}
		return false
	}

	for try := 0; try < placementRetries; try++ {
		c := cell{X: rng.Intn(mazeWidth), Y: rng.Intn(mazeHeight)}
		if !grid[c.Y][c.X] || occupied(c) {
			continue
		}
		ok := true
		for _, q := range placed {
			if distance(c, q) < minCellSeparation {
				ok = false
				break
			}
		}
		if ok {
			return c
		}
	}

	if farthest {
		best := cell{X: -1}
		bestDist := -1.0
		for y := 0; y < mazeHeight; y++ {
			for x := 0; x < mazeWidth; x++ {
				c := cell{X: x, Y: y}
				if !grid[y][x] || occupied(c) {
					continue
				}
				total := 0.0
				for _, q := range placed {
					total += distance(c, q)
				}
				if total > bestDist {
					best = c
					bestDist = total
				}
			}
		}
		if best.X >= 0 {
			return best
		}
	}

	for y := 0; y < mazeHeight; y++ {
		for x := 0; x < mazeWidth; x++ {
			c := cell{X: x, Y: y}
			if grid[y][x] && !occupied(c) {
				return c
			}
		}
	}
	return cell{X: 1, Y: 1}
}

func distance(a, b cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ---------------------------------------------------------------------
// Lockstep replay
// ---------------------------------------------------------------------

type simResult struct {
	success          bool
	haltStep         int // -1 when no step halted the replay
	wallCollisions   []collisionEvent
	playerCollisions []collisionEvent
	finals           map[string]cell
}

// simulateMoves replays all plans in lockstep against a frozen grid. It is a
// pure function of its inputs: the same grid and plans always produce the
// same outcome and the same halt step.
//
// Plans shorter than the longest one are padded with "stop". Within a step,
// players move in roster order; the pairwise collision check iterates
// increasing index pairs and the first conflict found halts the replay, which
// makes roster order the tie-break.
func simulateMoves(grid [][]bool, spawns, targets map[string]cell, order []string, moves map[string][]string) simResult {
	res := simResult{
		haltStep:         -1,
		wallCollisions:   []collisionEvent{},
		playerCollisions: []collisionEvent{},
		finals:           make(map[string]cell, len(order)),
	}

	pos := make(map[string]cell, len(order))
	steps := 0
	for _, id := range order {
		pos[id] = spawns[id]
		if len(moves[id]) > steps {
			steps = len(moves[id])
		}
	}

	for step := 0; step < steps; step++ {
		stepWall := false

		for _, id := range order {
			mv := "stop"
			if step < len(moves[id]) {
				mv = moves[id][step]
			}

			next := pos[id]
			switch mv {
			case "up":
				next.Y--
			case "down":
				next.Y++
			case "left":
				next.X--
			case "right":
				next.X++
			case "stop":
				continue
			}

			if next.X < 0 || next.Y < 0 || next.X >= len(grid[0]) || next.Y >= len(grid) || !grid[next.Y][next.X] {
				// Blocked: the move becomes a no-op but the collision is
				// still recorded for this step.
				stepWall = true
				res.wallCollisions = append(res.wallCollisions, collisionEvent{
					Step:   step,
					Player: id,
					Cell:   next,
				})
				continue
			}

			pos[id] = next
		}

		halted := stepWall
	pairs:
		for i := 0; i < len(order); i++ {
			for j := i + 1; j < len(order); j++ {
				if pos[order[i]] == pos[order[j]] {
					res.playerCollisions = append(res.playerCollisions, collisionEvent{
						Step:   step,
						Player: order[i],
						Other:  order[j],
						Cell:   pos[order[i]],
					})
					halted = true
					break pairs
				}
			}
		}

		if halted {
			res.haltStep = step
			for id, c := range pos {
				res.finals[id] = c
			}
			return res
		}
	}

	success := true
	for _, id := range order {
		res.finals[id] = pos[id]
		if pos[id] != targets[id] {
			success = false
		}
	}
	res.success = success
	return res
}
