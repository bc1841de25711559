// Package position derives the visibility room a player occupies. Players
// that resolve to the same Key can see each other.
package position

import (
	"fmt"
	"strconv"

	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/world"
)

// Key identifies a visibility room.
type Key string

// RoadLookup is the part of the world graph the resolver needs.
type RoadLookup interface {
	Road(id string) (*world.Road, error)
}

// LocationKey is the room of players standing at a location.
func LocationKey(locationId string) Key {
	return Key("l" + locationId)
}

// RoadKey is the room of players on road. Both directions of a paired road
// share one room, named after the pair in ascending order. A one-way road
// gets a room of its own.
//
// Road ids may contain any character, so the lower id of a pair is length
// prefixed and one-way roads use their own kind byte.
func RoadKey(roadId string, road *world.Road) Key {
	if road.OneWay() {
		return Key("o" + roadId)
	}

	lo, hi := roadId, road.Backward
	if hi < lo {
		lo, hi = hi, lo
	}
	return Key("r" + strconv.Itoa(len(lo)) + ":" + lo + "_" + hi)
}

// Resolve returns the room p occupies. A road missing from the graph means
// the player record is corrupt and is reported as an error.
func Resolve(roads RoadLookup, p *player.Player) (Key, error) {
	if !p.OnRoad() {
		return LocationKey(p.Location), nil
	}

	road, err := roads.Road(p.Road)
	if err != nil {
		return "", fmt.Errorf("resolving position of %q: %w", p.Id, err)
	}
	return RoadKey(p.Road, road), nil
}
