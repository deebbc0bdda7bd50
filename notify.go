/* Copyright © 2025 Ferrand <ferrand@posteo.net> */

// Hunthub completion webhook and external event intake
//
// Completions are pushed to a configured URL as a one-shot JSON POST; the
// push is fire-and-forget and a failure is logged, never surfaced to the room
// that triggered it. The same shared secret guards the inbound /notify
// endpoint, which lets an outside system inject events into live rooms.

package main

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

const notifyTokenHeader = "X-Hunt-Token"

// completionNotice is the payload POSTed to the configured webhook when a
// challenge finishes.
type completionNotice struct {
	GameType   string `json:"gameType"`
	Score      int    `json:"score"`
	PlayerName string `json:"playerName"`
	ConfigType string `json:"configType,omitempty"`
	TriviaType string `json:"triviaType,omitempty"`
	Token      string `json:"token,omitempty"`
}

// Notifier pushes completion notices to an external endpoint. A zero-value
// URL disables it entirely.
type Notifier struct {
	cfg    *Config
	client *http.Client
}

func newNotifier(cfg *Config) *Notifier {
	return &Notifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// completion fires the webhook on its own goroutine. Delivery is best-effort:
// the room's completion flow never waits on, or hears about, the push.
func (n *Notifier) completion(notice completionNotice) {
	if n.cfg.notifyURL == "" {
		return
	}

	notice.Token = n.cfg.notifyToken

	go func() {
		body, err := json.Marshal(notice)
		if err != nil {
			logf(n.cfg, "SERVE: Failed to encode completion notice: %v", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, n.cfg.notifyURL, bytes.NewReader(body))
		if err != nil {
			logf(n.cfg, "SERVE: Failed to build completion request: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if n.cfg.notifyToken != "" {
			req.Header.Set(notifyTokenHeader, n.cfg.notifyToken)
		}

		resp, err := n.client.Do(req)
		if err != nil {
			logf(n.cfg, "SERVE: Completion push to %s failed: %v", n.cfg.notifyURL, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			logf(n.cfg, "SERVE: Completion push to %s returned %s", n.cfg.notifyURL, resp.Status)
			return
		}

		logf(n.cfg, "SERVE: Completion for %q pushed to %s", notice.GameType, n.cfg.notifyURL)
	}()
}

// serveNotify accepts externally-injected events. Requests must carry the
// shared secret; the comparison is constant-time. Accepted events are handed
// to the hub goroutine and applied there, never here.
func serveNotify(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if cfg.notifyToken == "" {
			http.Error(w, "404 page not found", http.StatusNotFound)
			return
		}

		token := r.Header.Get(notifyTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.notifyToken)) != 1 {
			logf(cfg, "SERVE: Rejected /notify request from %s (bad token)", realIP(r))
			http.Error(w, "403 forbidden", http.StatusForbidden)
			return
		}

		var ev externalEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil || ev.Event == "" {
			http.Error(w, "400 bad request", http.StatusBadRequest)
			return
		}
		if ev.Room == "" && ev.Challenge == "" {
			http.Error(w, "400 bad request", http.StatusBadRequest)
			return
		}

		h.external <- ev

		logf(cfg, "SERVE: Accepted /notify event %q from %s", ev.Event, realIP(r))

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("accepted"))
	}
}
