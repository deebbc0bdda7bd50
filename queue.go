package main

// admitOrQueue places a joining connection either in the active player set or
// at the tail of the waiting list. Admission requires a room that has not
// started and still has capacity; everyone else queues and learns their
// 1-based position.
func admitOrQueue(h *Hub, r *Room, c *Client, name string) {
	h.attach(c, r)

	if !r.started && !r.full() {
		admit(h, r, &Player{client: c, Name: name})
		return
	}

	r.waiting = append(r.waiting, &Player{client: c, Name: name})
	h.sendTo(c, QueuedMessage{
		Type:     "queued",
		Room:     r.id,
		Position: len(r.waiting),
	})
	logf(h.cfg, "GAMES: Player %q queued at position %d in %s", name, len(r.waiting), r.id)
}

func admit(h *Hub, r *Room, p *Player) {
	r.players = append(r.players, p)
	logf(h.cfg, "GAMES: Player %q joined %s (%d/%d)", p.Name, r.id, len(r.players), r.required)
	r.game.join(h, r, p)
}

// promoteFromWaiting moves queued players into free slots, oldest first. Dead
// connections are skipped outright, not re-queued; the loop is bounded by the
// queue length at entry so skipping can never cycle forever. After the loop
// every remaining waiting player is told its recomputed position.
func promoteFromWaiting(h *Hub, r *Room) {
	promoted := false

	for bound := len(r.waiting); bound > 0; bound-- {
		if r.started || r.full() || len(r.waiting) == 0 {
			break
		}

		p := r.waiting[0]
		r.waiting = r.waiting[1:]

		if p.client.gone {
			continue
		}

		promoted = true
		h.sendTo(p.client, PromotedMessage{Type: "promoted", Room: r.id})
		admit(h, r, p)
	}

	if promoted {
		broadcastQueuePositions(h, r)
	}
}

// broadcastQueuePositions re-sends every waiting player its current 1-based
// index. Positions are always recomputed at send time.
func broadcastQueuePositions(h *Hub, r *Room) {
	for i, p := range r.waiting {
		h.sendTo(p.client, QueuedMessage{
			Type:     "queued",
			Room:     r.id,
			Position: i + 1,
		})
	}
}

// removeWaiting drops a connection from the waiting list, if present, and
// rebroadcasts positions to everyone behind it.
func removeWaiting(h *Hub, r *Room, c *Client) bool {
	idx := r.waitingFor(c)
	if idx < 0 {
		return false
	}
	r.waiting = append(r.waiting[:idx], r.waiting[idx+1:]...)
	broadcastQueuePositions(h, r)
	return true
}

// requeueAll moves every active player to the tail of the waiting list,
// oldest-admitted first, and immediately refills from the head of the queue.
// The shared trivia room does this after a win so anyone already queued gets
// in ahead of the previous roster.
func requeueAll(h *Hub, r *Room) {
	r.started = false
	r.generation++

	for _, p := range r.players {
		r.waiting = append(r.waiting, p)
	}
	r.players = r.players[:0]

	broadcastQueuePositions(h, r)
	promoteFromWaiting(h, r)
}

// dropAndRecover removes a player and runs the shared disconnect recovery:
// announce the departure, reset the challenge if it can no longer continue,
// refill from the waiting list, and delete drained ephemeral rooms. clear is
// the variant hook that wipes in-progress round state before the reset
// notice goes out.
func dropAndRecover(h *Hub, r *Room, p *Player, clear func()) {
	r.removePlayer(p)
	h.broadcast(r, UserLeftMessage{
		Type:    "user_left",
		Name:    p.Name,
		Players: r.playerNames(),
	})

	if r.started && len(r.players) < r.required {
		r.started = false
		r.generation++
		if clear != nil {
			clear()
		}
		h.broadcast(r, ResetMessage{
			Type:    "game_reset",
			Message: "A player disconnected; waiting for the room to refill.",
		})
	}

	promoteFromWaiting(h, r)

	if r.empty() {
		h.registry.remove(r.id)
	}
}
