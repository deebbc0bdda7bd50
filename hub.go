package main

import (
	"encoding/json"
	"time"
)

const hubBufferSize = 64

// inbound pairs a parsed client message with the connection that sent it.
type inbound struct {
	client *Client
	msg    ClientMessage
}

// scheduled is a delayed event aimed at a room. It carries the generation the
// room had when the event was created; the hub re-fetches the room by id and
// drops the event if the generation moved on, so a disconnect or restart
// during the delay window can never be mutated over.
type scheduled struct {
	roomID     string
	generation uint64
	kind       string
}

// externalEvent is an event injected through the /notify endpoint rather than
// a websocket connection.
type externalEvent struct {
	Room      string `json:"room,omitempty"`
	Challenge string `json:"challenge,omitempty"`
	Event     string `json:"event"`
	Message   string `json:"message,omitempty"`
}

// ConnectedMessage confirms a fresh websocket connection and hands the client
// its connection id.
type ConnectedMessage struct {
	Type string `json:"type"` // "connected"
	ID   string `json:"id"`
}

// Hub owns the room registry and all room mutation. Every join, action,
// disconnect, scheduled event, and external notification funnels through its
// single run goroutine, so room state needs no locking: there is exactly one
// writer by construction.
type Hub struct {
	cfg      *Config
	registry *Registry
	notifier *Notifier

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	scheduled  chan scheduled
	external   chan externalEvent

	// sessions maps each connection to the rooms it participates in, active
	// or waiting, so a disconnect can walk all of them.
	sessions map[*Client]map[string]bool
}

func newHub(cfg *Config) *Hub {
	h := &Hub{
		cfg:        cfg,
		registry:   newRegistry(cfg),
		notifier:   newNotifier(cfg),
		register:   make(chan *Client, hubBufferSize),
		unregister: make(chan *Client, hubBufferSize),
		inbound:    make(chan inbound, hubBufferSize),
		scheduled:  make(chan scheduled, hubBufferSize),
		external:   make(chan externalEvent, hubBufferSize),
		sessions:   make(map[*Client]map[string]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.sessions[c] = make(map[string]bool)
			h.sendTo(c, ConnectedMessage{Type: "connected", ID: c.id})

		case c := <-h.unregister:
			h.handleDisconnect(c)

		case in := <-h.inbound:
			h.handleMessage(in.client, in.msg)

		case ev := <-h.scheduled:
			h.handleScheduled(ev)

		case ev := <-h.external:
			h.handleExternal(ev)
		}
	}
}

func (h *Hub) handleMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "join":
		h.handleJoin(c, msg)
	case "action":
		h.handleAction(c, msg)
	case "leave":
		h.handleLeave(c, msg)
	default:
		h.sendError(c, errInvalidRequest, "Unknown message type.", msg.Type)
	}
}

func (h *Hub) handleJoin(c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.Room == "" {
		h.sendError(c, errInvalidRequest, "A join needs a room id and a display name.", "join")
		return
	}

	r, err := h.registry.resolveOrCreate(msg.Room, msg.Challenge)
	if err != nil {
		h.sendError(c, errUnknownChallenge, "No such challenge type.", "join")
		return
	}

	if r.playerFor(c) != nil || r.waitingFor(c) >= 0 {
		h.sendError(c, errInvalidRequest, "Already in this room.", "join")
		return
	}

	admitOrQueue(h, r, c, msg.Name)
}

func (h *Hub) handleAction(c *Client, msg ClientMessage) {
	r := h.registry.get(msg.Room)
	if r == nil {
		h.sendError(c, errRoomNotFound, "Room not found.", msg.Action)
		return
	}

	p := r.playerFor(c)
	if p == nil {
		h.sendError(c, errNotInRoom, "Not an active player in this room.", msg.Action)
		return
	}

	if msg.Action == "send_message" {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Payload, &body); err != nil || body.Text == "" {
			h.sendError(c, errInvalidRequest, "Malformed message payload.", msg.Action)
			return
		}
		h.broadcast(r, ChatMessage{Type: "message", From: p.Name, Text: body.Text})
		return
	}

	r.game.action(h, r, p, msg.Action, msg.Payload)
}

func (h *Hub) handleLeave(c *Client, msg ClientMessage) {
	r := h.registry.get(msg.Room)
	if r == nil {
		h.sendError(c, errRoomNotFound, "Room not found.", "leave")
		return
	}

	if removeWaiting(h, r, c) {
		h.detach(c, r)
		if r.empty() {
			h.registry.remove(r.id)
		}
		return
	}

	p := r.playerFor(c)
	if p == nil {
		h.sendError(c, errNotInRoom, "Not in this room.", "leave")
		return
	}

	r.game.disconnect(h, r, p)
	h.detach(c, r)
}

// handleDisconnect walks every room the connection participated in and fires
// the appropriate recovery transition.
func (h *Hub) handleDisconnect(c *Client) {
	c.gone = true

	for roomID := range h.sessions[c] {
		r := h.registry.get(roomID)
		if r == nil {
			continue
		}

		if removeWaiting(h, r, c) {
			if r.empty() {
				h.registry.remove(r.id)
			}
			continue
		}

		if p := r.playerFor(c); p != nil {
			r.game.disconnect(h, r, p)
		}
	}

	delete(h.sessions, c)
	close(c.send)
}

func (h *Hub) handleScheduled(ev scheduled) {
	r := h.registry.get(ev.roomID)
	if r == nil || r.generation != ev.generation {
		return
	}
	r.game.tick(h, r, ev.kind)
}

// handleExternal re-dispatches an externally-injected event onto the same
// broadcast gateway used for in-process events.
func (h *Hub) handleExternal(ev externalEvent) {
	var rooms []*Room
	if ev.Room != "" {
		if r := h.registry.get(ev.Room); r != nil {
			rooms = append(rooms, r)
		}
	} else if ev.Challenge != "" {
		rooms = h.registry.roomsFor(ev.Challenge)
	}

	for _, r := range rooms {
		h.broadcast(r, NoticeMessage{Type: "notice", Event: ev.Event, Message: ev.Message})
		if ev.Event == "completed" {
			r.game.complete(h, r, nil)
		}
	}
}

// scheduleAfter posts a scheduled event for the room after d, stamped with
// the room's current generation. The returned timer lets round logic cancel
// the event early when the round resolves by another path.
func (h *Hub) scheduleAfter(r *Room, d time.Duration, kind string) *time.Timer {
	ev := scheduled{roomID: r.id, generation: r.generation, kind: kind}
	return time.AfterFunc(d, func() {
		h.scheduled <- ev
	})
}

func (h *Hub) attach(c *Client, r *Room) {
	if rooms, ok := h.sessions[c]; ok {
		rooms[r.id] = true
	}
}

func (h *Hub) detach(c *Client, r *Room) {
	if rooms, ok := h.sessions[c]; ok {
		delete(rooms, r.id)
	}
}

// sendTo delivers a message to a single connection. Sends to a disconnected
// or saturated client are dropped; fan-out is fire-and-forget.
func (h *Hub) sendTo(c *Client, msg any) {
	if c == nil || c.gone {
		return
	}
	select {
	case c.send <- msg:
	default:
		logf(h.cfg, "GAMES: Send buffer full for client %s, dropping", c.id)
	}
}

// sendError surfaces a recoverable error to the triggering connection only.
func (h *Hub) sendError(c *Client, code, message, request string) {
	h.sendTo(c, ErrorMessage{
		Type:    "error",
		Code:    code,
		Message: message,
		Request: request,
	})
}

func (h *Hub) broadcast(r *Room, msg any) {
	for _, p := range r.players {
		h.sendTo(p.client, msg)
	}
}

func (h *Hub) broadcastExcept(r *Room, except *Client, msg any) {
	for _, p := range r.players {
		if p.client == except {
			continue
		}
		h.sendTo(p.client, msg)
	}
}

// finishRoom runs the shared teardown after a final broadcast has gone out:
// persistent rooms recycle their roster through the waiting list, ephemeral
// rooms leave the registry. Safe to call on an already-drained room.
func (h *Hub) finishRoom(r *Room) {
	r.started = false
	r.generation++

	if h.registry.persistent[r.id] {
		requeueAll(h, r)
		return
	}

	for _, p := range r.players {
		h.detach(p.client, r)
	}
	for _, p := range r.waiting {
		h.detach(p.client, r)
	}
	r.players = r.players[:0]
	r.waiting = r.waiting[:0]
	h.registry.remove(r.id)
}
