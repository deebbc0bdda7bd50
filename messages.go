package main

import (
	"encoding/json"
)

// Machine-readable error codes sent alongside error events. Errors always go
// to the triggering connection only, never room-wide.
const (
	errInvalidRequest   = "invalid_request"
	errUnknownChallenge = "unknown_challenge"
	errRoomNotFound     = "room_not_found"
	errNotInRoom        = "not_in_room"
	errNotStarted       = "not_started"
	errAlreadyAnswered  = "already_answered"
	errNotYourTurn      = "not_your_turn"
	errRoundClosed      = "round_closed"
	errNotCompleted     = "not_completed"
	errNotSolved        = "not_solved"
)

// Messages coming from clients
type ClientMessage struct {
	Type      string          `json:"type"`                // "join", "action" or "leave"
	Room      string          `json:"room,omitempty"`      // defaults to the room in the URL
	Challenge string          `json:"challenge,omitempty"` // challenge tag, for new rooms
	Name      string          `json:"name,omitempty"`      // join: display name
	Action    string          `json:"action,omitempty"`    // action: variant-specific verb
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ErrorMessage is sent to a single client when its request was rejected.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
	Request string `json:"request,omitempty"` // action that triggered the error
}

// InitMessage is the first thing a newly admitted player receives: its role
// (or "observer"), the current roster, and any private data the role is
// entitled to see.
type InitMessage struct {
	Type      string   `json:"type"` // "init"
	Room      string   `json:"room"`
	Challenge string   `json:"challenge"`
	Role      string   `json:"role"`
	Required  int      `json:"required"`
	Players   []string `json:"players"`
	Private   any      `json:"private,omitempty"`
}

// UserJoinedMessage tells the rest of the room about a new player.
type UserJoinedMessage struct {
	Type    string   `json:"type"` // "user_joined"
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// UserLeftMessage tells the rest of the room a player is gone.
type UserLeftMessage struct {
	Type    string   `json:"type"` // "user_left"
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// QueuedMessage carries a waiting player's current 1-based position. It is
// recomputed and re-sent on every queue change, never cached.
type QueuedMessage struct {
	Type     string `json:"type"` // "queued"
	Room     string `json:"room"`
	Position int    `json:"position"`
}

// PromotedMessage tells a waiting player they were moved into the active set.
type PromotedMessage struct {
	Type string `json:"type"` // "promoted"
	Room string `json:"room"`
}

// ResetMessage is broadcast when an in-progress challenge is returned to the
// waiting state, e.g. after a mid-round disconnect.
type ResetMessage struct {
	Type    string `json:"type"` // "game_reset"
	Message string `json:"message"`
}

// CompletedMessage is the final broadcast of a challenge.
type CompletedMessage struct {
	Type      string `json:"type"` // "challenge_completed"
	Challenge string `json:"challenge"`
	Success   bool   `json:"success"`
	Score     int    `json:"score"`
	Message   string `json:"message,omitempty"`
}

// ChatMessage relays free-form text between room members.
type ChatMessage struct {
	Type string `json:"type"` // "message"
	From string `json:"from"`
	Text string `json:"text"`
}

// RelayMessage wraps an unrecognized action and rebroadcasts it to the rest
// of the room. Unknown actions are not errors; clients use this path for ad
// hoc signaling.
type RelayMessage struct {
	Type    string          `json:"type"` // "relay"
	From    string          `json:"from"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NoticeMessage carries externally-injected events from the /notify endpoint.
type NoticeMessage struct {
	Type    string `json:"type"` // "notice"
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
}
