package main

import (
	"fmt"
	"math/rand"
	"time"
)

// Well-known ids of the persistent global rooms. These are created once at
// startup and are never deleted; when they drain they stay allocated with
// started=false and recycle players through their waiting lists.
const (
	sequenceRoomID = "sequence"
	triviaRoomID   = "trivia"
)

// challengeSpec describes how to build a room for one challenge tag.
type challengeSpec struct {
	required int
	roles    []string
	newGame  func(cfg *Config, rng *rand.Rand) game
}

func challengeCatalog(cfg *Config) map[string]challengeSpec {
	return map[string]challengeSpec{
		"sequence": {
			required: cfg.sequencePlayers,
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newMazeGame(cfg, rng) },
		},
		"trivia": {
			required: cfg.triviaPlayers,
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newStreakGame(cfg, rng) },
		},
		"quiz": {
			required: 2,
			roles:    []string{"scholar", "companion"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newQuizGame(cfg, rng, false) },
		},
		"timedquiz": {
			required: 2,
			roles:    []string{"operator", "analyst"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newQuizGame(cfg, rng, true) },
		},
		"turnquiz": {
			required: 2,
			roles:    []string{"challenger", "advisor"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newTurnQuizGame(cfg, rng) },
		},
		"combination": {
			required: len(combinationOrder),
			roles:    combinationOrder[:],
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newCombinationGame(cfg, rng) },
		},
		"mechanism": {
			required: 2,
			roles:    []string{"engineer", "technician"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newMechanismGame(cfg, rng) },
		},
		"geocache": {
			required: 2,
			roles:    []string{"surveyor", "lorekeeper"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newGeocacheGame(cfg, rng) },
		},
		"intro": {
			required: 1,
			roles:    []string{"seeker"},
			newGame:  func(cfg *Config, rng *rand.Rand) game { return newIntroGame(cfg) },
		},
	}
}

// Registry maps room ids to rooms. It is owned by the hub goroutine; nothing
// else touches it, so no locking is needed.
type Registry struct {
	cfg         *Config
	rng         *rand.Rand
	catalog     map[string]challengeSpec
	rooms       map[string]*Room
	persistent  map[string]bool
	byChallenge map[string][]string // challenge tag -> room ids
}

func newRegistry(cfg *Config) *Registry {
	reg := &Registry{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		catalog:     challengeCatalog(cfg),
		rooms:       make(map[string]*Room),
		persistent:  make(map[string]bool),
		byChallenge: make(map[string][]string),
	}

	// Global rooms exist for the life of the process.
	for id, tag := range map[string]string{
		sequenceRoomID: "sequence",
		triviaRoomID:   "trivia",
	} {
		room, _ := reg.create(id, tag)
		reg.persistent[room.id] = true
	}

	return reg
}

// resolveOrCreate returns the existing room for id, or allocates a fresh one
// for the given challenge tag. Idempotent: a second call with the same id
// returns the first room unchanged.
func (reg *Registry) resolveOrCreate(id, challenge string) (*Room, error) {
	if room, ok := reg.rooms[id]; ok {
		return room, nil
	}
	return reg.create(id, challenge)
}

func (reg *Registry) create(id, challenge string) (*Room, error) {
	spec, ok := reg.catalog[challenge]
	if !ok {
		return nil, fmt.Errorf("unknown challenge %q", challenge)
	}

	room := &Room{
		id:        id,
		challenge: challenge,
		required:  spec.required,
		roles:     spec.roles,
		game:      spec.newGame(reg.cfg, reg.rng),
	}
	reg.rooms[id] = room
	reg.byChallenge[challenge] = append(reg.byChallenge[challenge], id)
	return room, nil
}

func (reg *Registry) get(id string) *Room {
	return reg.rooms[id]
}

// roomsFor returns all live rooms of a challenge tag, via the secondary index
// maintained on create/remove.
func (reg *Registry) roomsFor(challenge string) []*Room {
	ids := reg.byChallenge[challenge]
	rooms := make([]*Room, 0, len(ids))
	for _, id := range ids {
		if room, ok := reg.rooms[id]; ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// remove deletes an ephemeral room. The persistent global rooms are on an
// allow-list and survive every removal attempt.
func (reg *Registry) remove(id string) {
	if reg.persistent[id] {
		return
	}
	room, ok := reg.rooms[id]
	if !ok {
		return
	}
	delete(reg.rooms, id)

	ids := reg.byChallenge[room.challenge]
	dst := ids[:0]
	for _, rid := range ids {
		if rid == id {
			continue
		}
		dst = append(dst, rid)
	}
	reg.byChallenge[room.challenge] = dst
}
