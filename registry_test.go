package main

import (
	"testing"
)

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	reg := newRegistry(testConfig())

	r1, err := reg.resolveOrCreate("r1", "quiz")
	if err != nil {
		t.Fatalf("resolveOrCreate: %v", err)
	}
	r2, err := reg.resolveOrCreate("r1", "mechanism")
	if err != nil {
		t.Fatalf("second resolveOrCreate: %v", err)
	}
	if r1 != r2 {
		t.Fatal("same id produced two rooms")
	}
	if r2.challenge != "quiz" {
		t.Fatalf("challenge rebound to %q", r2.challenge)
	}
}

func TestUnknownChallengeRejected(t *testing.T) {
	reg := newRegistry(testConfig())

	if _, err := reg.resolveOrCreate("r1", "karaoke"); err == nil {
		t.Fatal("unknown challenge accepted")
	}
	if reg.get("r1") != nil {
		t.Fatal("room allocated for unknown challenge")
	}
}

func TestPersistentRoomsExistAtStartup(t *testing.T) {
	reg := newRegistry(testConfig())

	for _, id := range []string{sequenceRoomID, triviaRoomID} {
		r := reg.get(id)
		if r == nil {
			t.Fatalf("persistent room %q missing", id)
		}
		if !reg.persistent[id] {
			t.Fatalf("room %q not on the persistent allow-list", id)
		}
	}
}

func TestPersistentRoomsSurviveRemoval(t *testing.T) {
	reg := newRegistry(testConfig())

	reg.remove(triviaRoomID)
	if reg.get(triviaRoomID) == nil {
		t.Fatal("persistent room deleted")
	}

	r, _ := reg.resolveOrCreate("r1", "quiz")
	reg.remove(r.id)
	if reg.get("r1") != nil {
		t.Fatal("ephemeral room survived removal")
	}
}

func TestRoomsForTracksLiveRooms(t *testing.T) {
	reg := newRegistry(testConfig())

	reg.resolveOrCreate("r1", "quiz")
	reg.resolveOrCreate("r2", "quiz")
	reg.resolveOrCreate("r3", "mechanism")

	if got := len(reg.roomsFor("quiz")); got != 2 {
		t.Fatalf("roomsFor(quiz) = %d, want 2", got)
	}

	reg.remove("r1")
	if got := len(reg.roomsFor("quiz")); got != 1 {
		t.Fatalf("roomsFor(quiz) after removal = %d, want 1", got)
	}
}

func TestCatalogRequiredCountsFollowConfig(t *testing.T) {
	cfg := testConfig()
	cfg.sequencePlayers = 3
	cfg.triviaPlayers = 6

	catalog := challengeCatalog(cfg)
	if catalog["sequence"].required != 3 {
		t.Fatalf("sequence required = %d, want 3", catalog["sequence"].required)
	}
	if catalog["trivia"].required != 6 {
		t.Fatalf("trivia required = %d, want 6", catalog["trivia"].required)
	}
	if catalog["combination"].required != len(combinationOrder) {
		t.Fatalf("combination required = %d, want %d", catalog["combination"].required, len(combinationOrder))
	}
}
