// Package worldtest provides a small fixed world for tests.
package worldtest

import (
	"testing"

	"github.com/pixil98/go-roads/internal/storage"
	"github.com/pixil98/go-roads/internal/world"
)

// Location and road ids in the village world.
const (
	Village = "village"
	Forest  = "forest"
	House   = "house"
	Secret  = "secret-place"
	River   = "river"

	VillageToForest = "village-forest" // 100, paired with ForestToVillage
	ForestToVillage = "forest-village" // 50
	SecretPathway   = "secret-pathway" // house -> secret place, 200, one way
	TheClimb        = "the-climb"      // secret place -> river, 30, one way
	RiverToForest   = "river-forest"   // 20, paired with ForestToRiver
	ForestToRiver   = "forest-river"   // 20
	RiverToVillage  = "river-village"  // 200, paired with VillageToRiver
	VillageToRiver  = "village-river"  // 100
)

func Locations() storage.MemoryStore[*world.Location] {
	return storage.MemoryStore[*world.Location]{
		Village: {Name: "Village", Description: "Village description", Neighbors: []string{House}},
		Forest:  {Name: "Forest", Description: "Forest near village"},
		House:   {Name: "House", Description: "House in the village", Neighbors: []string{Village}},
		Secret:  {Name: "Secret place", Description: "Secret place with treasures"},
		River:   {Name: "River", Description: "Small brook"},
	}
}

func Roads() storage.MemoryStore[*world.Road] {
	return storage.MemoryStore[*world.Road]{
		VillageToForest: {Name: "Road from village to forest", From: Village, To: Forest, Distance: 100, Backward: ForestToVillage},
		ForestToVillage: {Name: "Road from forest to village", From: Forest, To: Village, Distance: 50, Backward: VillageToForest},
		SecretPathway:   {Name: "Secret pathway", From: House, To: Secret, Distance: 200},
		TheClimb:        {Name: "The climb", From: Secret, To: River, Distance: 30},
		RiverToForest:   {Name: "Fun road", From: River, To: Forest, Distance: 20, Backward: ForestToRiver},
		ForestToRiver:   {Name: "Fun road", From: Forest, To: River, Distance: 20, Backward: RiverToForest},
		RiverToVillage:  {Name: "Road to village", From: River, To: Village, Distance: 200, Backward: VillageToRiver},
		VillageToRiver:  {Name: "Road to river", From: Village, To: River, Distance: 100, Backward: RiverToVillage},
	}
}

// Graph returns the village world, failing the test if it does not build.
func Graph(t testing.TB) *world.Graph {
	t.Helper()

	g, err := world.NewGraph(Locations(), Roads())
	if err != nil {
		t.Fatalf("building village graph: %v", err)
	}
	return g
}
