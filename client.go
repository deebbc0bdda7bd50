package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "hunthub_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// Client is one live websocket connection. Its id is unique per connection
// and not stable across reconnects; playerID is the long-lived cookie
// identity used by the browser.
type Client struct {
	id        string
	playerID  string
	conn      *websocket.Conn
	send      chan any
	room      string // room id from the URL, default target for messages
	challenge string // challenge tag from the URL

	// gone is set by the hub loop once the connection unregisters. Only the
	// hub goroutine reads or writes it.
	gone bool
}

// serveWS upgrades the connection and hands it to the hub. The room and
// challenge from the URL become the default join target; individual messages
// may still name another room.
func serveWS(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		challenge := ps.ByName("challenge")
		roomID := ps.ByName("room")
		if challenge == "" || roomID == "" {
			http.Error(w, "missing challenge or room id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			id:        uuid.New().String(),
			playerID:  playerID,
			conn:      conn,
			send:      make(chan any, 16),
			room:      roomID,
			challenge: challenge,
		}

		h.register <- client

		go client.writePump()
		client.readPump(h)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msg.Room == "" {
			msg.Room = c.room
		}
		if msg.Challenge == "" {
			msg.Challenge = c.challenge
		}

		h.inbound <- inbound{client: c, msg: msg}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
