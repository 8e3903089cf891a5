// Package world moves characters across the lazily generated room grid.
package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
)

var (
	// ErrNoCharacter is returned when the player has no character yet.
	ErrNoCharacter = errors.New("you have not created a character yet")
	// ErrNoDoor is returned when the way is shut.
	ErrNoDoor = errors.New("there is no door that way")
	// ErrRoomMissing means the world lost the character's room. The session
	// has to be restarted.
	ErrRoomMissing = errors.New("your current room is missing from the world; please restart the game")
)

// New returns a world holding only the origin room.
func New(g *gen.Generator) *models.World {
	return models.NewWorld(g.Room(models.Origin, nil))
}

// MoveResult describes the room a character arrived in.
type MoveResult struct {
	Direction models.Direction
	Room      *models.Room
	Generated bool
}

// Move walks the player's character one room in direction, generating the
// target room the first time anyone enters it.
func Move(s *models.Session, g *gen.Generator, playerID string, direction models.Direction) (MoveResult, error) {
	c, current, err := locate(s, playerID)
	if err != nil {
		return MoveResult{}, err
	}
	if !current.Doors[direction] {
		return MoveResult{}, fmt.Errorf("%w (%s)", ErrNoDoor, direction)
	}

	target := c.Position.Step(direction)
	res := MoveResult{Direction: direction}
	room, ok := s.World.Room(target)
	if !ok {
		room = g.Room(target, &direction)
		s.World.Add(room)
		s.Append(fmt.Sprintf("Room %s was generated.", target))
		res.Generated = true
	}
	res.Room = room
	c.Position = target
	return res, nil
}

// Look returns the character's current room.
func Look(s *models.Session, playerID string) (*models.Room, error) {
	_, room, err := locate(s, playerID)
	return room, err
}

// PickUp moves the item at index from the current room into the inventory.
func PickUp(s *models.Session, playerID string, index int) (models.Entry, error) {
	c, room, err := locate(s, playerID)
	if err != nil {
		return nil, err
	}
	item, err := room.Items.At(index)
	if err != nil {
		return nil, fmt.Errorf("nothing to pick up: %w", err)
	}
	room.Items = room.Items.Remove(index)
	if len(room.Items) == 0 {
		room.Items = nil
	}
	c.Inventory = append(c.Inventory, item)
	return item, nil
}

// Describe renders a room for the player.
func Describe(room *models.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s\n", room.Coord)
	fmt.Fprintf(&b, "%s\n", room.Description)

	open := room.OpenDoors()
	if len(open) == 0 {
		b.WriteString("Exits: none")
	} else {
		names := make([]string, len(open))
		for i, d := range open {
			names[i] = string(d)
		}
		fmt.Fprintf(&b, "Exits: %s", strings.Join(names, ", "))
	}

	for i, item := range room.Items {
		if i == 0 {
			b.WriteString("\nYou see:")
		}
		fmt.Fprintf(&b, "\n  [%d] %s", i, item.Label())
	}
	return b.String()
}

func locate(s *models.Session, playerID string) (*models.Character, *models.Room, error) {
	c, ok := s.Characters[playerID]
	if !ok {
		return nil, nil, ErrNoCharacter
	}
	room, ok := s.World.Room(c.Position)
	if !ok {
		return nil, nil, ErrRoomMissing
	}
	return c, room, nil
}
