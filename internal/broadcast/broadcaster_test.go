package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/position"
	"github.com/pixil98/go-roads/internal/session"
	"github.com/pixil98/go-roads/internal/session/sessiontest"
	"github.com/pixil98/go-roads/internal/world/worldtest"
	"github.com/pixil98/go-testutil"
)

type playerMap map[string]*player.Player

func (m playerMap) Get(id string) (*player.Player, bool) {
	p, ok := m[id]
	return p, ok
}

func decodeState(t *testing.T, data []byte) State {
	t.Helper()

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return s
}

func TestBroadcaster_Broadcast(t *testing.T) {
	g := worldtest.Graph(t)
	players := playerMap{
		"alice": {Id: "alice", Location: worldtest.Village},
		"bob":   {Id: "bob", Location: worldtest.Village},
		"carol": {Id: "carol", Location: worldtest.Forest},
		"dave":  {Id: "dave", Location: worldtest.Village, Road: worldtest.VillageToForest, Progress: 50},
		"erin":  {Id: "erin", Location: worldtest.Forest, Road: worldtest.ForestToVillage, Progress: 5},
		"frank": {Id: "frank", Location: worldtest.Village},
	}

	tests := map[string]struct {
		key         position.Key
		expReceived []string
	}{
		"location room": {
			key:         position.LocationKey(worldtest.Village),
			expReceived: []string{"alice", "bob"},
		},
		"paired road room includes both directions": {
			key:         "r14:forest-village_village-forest",
			expReceived: []string{"dave", "erin"},
		},
		"empty room": {
			key: position.LocationKey(worldtest.River),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			reg := session.NewRegistry()
			handles := map[string]*sessiontest.Recorder{}
			// frank has a record but no connection.
			for _, id := range []string{"alice", "bob", "carol", "dave", "erin"} {
				handles[id] = &sessiontest.Recorder{}
				if err := reg.Register(id, handles[id]); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			b := NewBroadcaster(g, players, reg)
			if err := b.Broadcast(context.Background(), tt.key); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			expected := map[string]bool{}
			for _, id := range tt.expReceived {
				expected[id] = true
			}
			for id, h := range handles {
				want := 0
				if expected[id] {
					want = 1
				}
				testutil.AssertEqual(t, id+" messages", h.Count(), want)
			}

			for _, id := range tt.expReceived {
				s := decodeState(t, handles[id].Last())
				testutil.AssertEqual(t, id+" players here", len(s.PlayersHere), len(tt.expReceived))
				for _, ph := range s.PlayersHere {
					if ph.Identifier == "frank" {
						t.Errorf("disconnected players must not be listed")
					}
				}
			}
		})
	}
}

func TestBroadcaster_RoadPayloadsPerViewer(t *testing.T) {
	g := worldtest.Graph(t)
	players := playerMap{
		"dave": {Id: "dave", Location: worldtest.Village, Road: worldtest.VillageToForest, Progress: 50},
		"erin": {Id: "erin", Location: worldtest.Forest, Road: worldtest.ForestToVillage, Progress: 5},
	}
	reg := session.NewRegistry()
	dave, erin := &sessiontest.Recorder{}, &sessiontest.Recorder{}
	_ = reg.Register("dave", dave)
	_ = reg.Register("erin", erin)

	b := NewBroadcaster(g, players, reg)
	if err := b.Broadcast(context.Background(), "r14:forest-village_village-forest"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fromDave := decodeState(t, dave.Last())
	testutil.AssertEqual(t, "dave road", fromDave.Road, worldtest.VillageToForest)
	testutil.AssertEqual(t, "dave sees dave", *fromDave.PlayersHere[0].ProgressPercent, 50)
	testutil.AssertEqual(t, "dave sees erin", *fromDave.PlayersHere[1].ProgressPercent, 90)

	fromErin := decodeState(t, erin.Last())
	testutil.AssertEqual(t, "erin sees dave", *fromErin.PlayersHere[0].ProgressPercent, 50)
	testutil.AssertEqual(t, "erin sees erin", *fromErin.PlayersHere[1].ProgressPercent, 10)
}

func TestBroadcaster_SendFailureDoesNotStopOthers(t *testing.T) {
	g := worldtest.Graph(t)
	players := playerMap{
		"alice": {Id: "alice", Location: worldtest.Village},
		"bob":   {Id: "bob", Location: worldtest.Village},
	}
	reg := session.NewRegistry()
	alice := &sessiontest.Recorder{Err: errors.New("connection reset")}
	bob := &sessiontest.Recorder{}
	_ = reg.Register("alice", alice)
	_ = reg.Register("bob", bob)

	b := NewBroadcaster(g, players, reg)
	if err := b.Broadcast(context.Background(), position.LocationKey(worldtest.Village)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "bob still served", bob.Count(), 1)
}

func TestBroadcaster_SkipsCorruptRecords(t *testing.T) {
	g := worldtest.Graph(t)
	players := playerMap{
		"alice": {Id: "alice", Location: worldtest.Village},
		"bob":   {Id: "bob", Location: worldtest.Village, Road: "nowhere"},
	}
	reg := session.NewRegistry()
	alice, bob := &sessiontest.Recorder{}, &sessiontest.Recorder{}
	_ = reg.Register("alice", alice)
	_ = reg.Register("bob", bob)

	b := NewBroadcaster(g, players, reg)
	if err := b.Broadcast(context.Background(), position.LocationKey(worldtest.Village)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "alice served", alice.Count(), 1)
	testutil.AssertEqual(t, "bob skipped", bob.Count(), 0)
	testutil.AssertEqual(t, "alice alone", len(decodeState(t, alice.Last()).PlayersHere), 1)
}
