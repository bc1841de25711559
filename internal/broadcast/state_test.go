package broadcast

import (
	"testing"

	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/world/worldtest"
	"github.com/pixil98/go-testutil"
)

func TestProgressPercent(t *testing.T) {
	tests := map[string]struct {
		viewerRoad string
		other      *player.Player
		distance   float64
		exp        int
	}{
		"same road shows raw percent": {
			viewerRoad: worldtest.VillageToForest,
			other:      &player.Player{Road: worldtest.VillageToForest, Progress: 40},
			distance:   100,
			exp:        40,
		},
		"same road floors": {
			viewerRoad: worldtest.VillageToForest,
			other:      &player.Player{Road: worldtest.VillageToForest, Progress: 33.9},
			distance:   100,
			exp:        33,
		},
		"backward road shows complement": {
			viewerRoad: worldtest.VillageToForest,
			other:      &player.Player{Road: worldtest.ForestToVillage, Progress: 10},
			distance:   50,
			exp:        80,
		},
		"complement is taken after flooring": {
			viewerRoad: worldtest.VillageToForest,
			other:      &player.Player{Road: worldtest.ForestToVillage, Progress: 1},
			distance:   3,
			exp:        67,
		},
		"viewer itself": {
			viewerRoad: worldtest.ForestToVillage,
			other:      &player.Player{Road: worldtest.ForestToVillage, Progress: 0},
			distance:   50,
			exp:        0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "percent", ProgressPercent(tt.viewerRoad, tt.other, tt.distance), tt.exp)
		})
	}
}

func TestBuildState_AtLocation(t *testing.T) {
	g := worldtest.Graph(t)
	alice := &player.Player{Id: "alice", Location: worldtest.Village}
	bob := &player.Player{Id: "bob", Location: worldtest.Village}

	s, err := BuildState(g, bob, []*player.Player{bob, alice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "type", s.Type, MessageState)
	testutil.AssertEqual(t, "location", s.Location, worldtest.Village)
	testutil.AssertEqual(t, "road", s.Road, "")
	testutil.AssertEqual(t, "players", len(s.PlayersHere), 2)
	testutil.AssertEqual(t, "first", s.PlayersHere[0].Identifier, "alice")
	testutil.AssertEqual(t, "second", s.PlayersHere[1].Identifier, "bob")
	for _, ph := range s.PlayersHere {
		if ph.ProgressPercent != nil {
			t.Errorf("%s: expected no progress at a location", ph.Identifier)
		}
	}
}

func TestBuildState_IsViewerRelative(t *testing.T) {
	g := worldtest.Graph(t)
	alice := &player.Player{Id: "alice", Location: worldtest.Village, Road: worldtest.VillageToForest, Progress: 25}
	bob := &player.Player{Id: "bob", Location: worldtest.Forest, Road: worldtest.ForestToVillage, Progress: 10}
	here := []*player.Player{alice, bob}

	fromAlice, err := BuildState(g, alice, here)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromBob, err := BuildState(g, bob, here)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "alice road", fromAlice.Road, worldtest.VillageToForest)
	testutil.AssertEqual(t, "alice sees herself", *fromAlice.PlayersHere[0].ProgressPercent, 25)
	testutil.AssertEqual(t, "alice sees bob", *fromAlice.PlayersHere[1].ProgressPercent, 80)

	testutil.AssertEqual(t, "bob road", fromBob.Road, worldtest.ForestToVillage)
	testutil.AssertEqual(t, "bob sees alice", *fromBob.PlayersHere[0].ProgressPercent, 75)
	testutil.AssertEqual(t, "bob sees himself", *fromBob.PlayersHere[1].ProgressPercent, 20)
}

func TestBuildState_UnknownRoad(t *testing.T) {
	g := worldtest.Graph(t)
	viewer := &player.Player{Id: "alice", Location: worldtest.Village, Road: worldtest.VillageToForest}
	corrupt := &player.Player{Id: "bob", Location: worldtest.Village, Road: "nowhere"}

	_, err := BuildState(g, viewer, []*player.Player{viewer, corrupt})
	testutil.AssertErrorContains(t, err, "nowhere")
}
