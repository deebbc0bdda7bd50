// Hunthub scripted introduction
//
// A single-player walkthrough that steps through a fixed script one line per
// acknowledgement. It exists so a new player can learn the message flow
// before joining a real room; finishing it fires the same completion path as
// every other challenge.

package main

import (
	"encoding/json"
)

var introScript = []string{
	"Welcome, seeker. This town hides more than it shows.",
	"Every challenge you meet will speak to you through messages like this one.",
	"Some rooms wait for a full party; if yours is full, you queue and your place is held.",
	"When you are ready to move on, acknowledge each line and the story continues.",
	"That is all the schooling you get. The first clue is already out there. Good hunting.",
}

// IntroLineMessage delivers one line of the script.
type IntroLineMessage struct {
	Type  string `json:"type"` // "intro_line"
	Index int    `json:"index"`
	Total int    `json:"total"`
	Text  string `json:"text"`
}

type introGame struct {
	cfg *Config

	line int
	done bool
}

func newIntroGame(cfg *Config) *introGame {
	return &introGame{cfg: cfg}
}

func (g *introGame) join(h *Hub, r *Room, p *Player) {
	p.Role = "seeker"

	h.sendTo(p.client, InitMessage{
		Type:      "init",
		Room:      r.id,
		Challenge: r.challenge,
		Role:      p.Role,
		Required:  r.required,
		Players:   r.playerNames(),
	})

	if !r.started && r.rosterComplete() {
		g.start(h, r)
	}
}

func (g *introGame) start(h *Hub, r *Room) {
	r.started = true
	r.generation++
	g.line = 0
	g.done = false
	g.deal(h, r)
}

func (g *introGame) deal(h *Hub, r *Room) {
	h.broadcast(r, IntroLineMessage{
		Type:  "intro_line",
		Index: g.line,
		Total: len(introScript),
		Text:  introScript[g.line],
	})
}

func (g *introGame) action(h *Hub, r *Room, p *Player, action string, payload json.RawMessage) {
	switch action {
	case "advance":
		if !r.started {
			h.sendError(p.client, errNotStarted, "The introduction has not started yet.", action)
			return
		}
		if g.done {
			h.sendError(p.client, errRoundClosed, "The introduction is already over.", action)
			return
		}

		g.line++
		if g.line < len(introScript) {
			g.deal(h, r)
			return
		}

		g.done = true
		h.broadcast(r, CompletedMessage{
			Type:      "challenge_completed",
			Challenge: r.challenge,
			Success:   true,
			Score:     len(introScript),
		})
		h.notifier.completion(completionNotice{
			GameType:   r.challenge,
			Score:      len(introScript),
			PlayerName: p.Name,
		})
		h.finishRoom(r)

	default:
		h.broadcastExcept(r, p.client, RelayMessage{
			Type:    "relay",
			From:    p.Name,
			Action:  action,
			Payload: payload,
		})
	}
}

func (g *introGame) tick(h *Hub, r *Room, kind string) {}

func (g *introGame) complete(h *Hub, r *Room, p *Player) {
	h.broadcast(r, CompletedMessage{
		Type:      "challenge_completed",
		Challenge: r.challenge,
		Success:   g.done,
		Score:     g.line,
	})
	h.finishRoom(r)
}

func (g *introGame) disconnect(h *Hub, r *Room, p *Player) {
	dropAndRecover(h, r, p, func() {
		g.line = 0
		g.done = false
	})
}
