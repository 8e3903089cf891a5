package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Coord is a room position on the world grid. It is comparable and used as
// the world's map key.
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Origin is where every session starts.
var Origin = Coord{}

// String is the stable "x,y" encoding used on disk.
func (c Coord) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// ParseCoord decodes the "x,y" encoding produced by String.
func ParseCoord(s string) (Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return Coord{X: x, Y: y}, nil
}

// Direction is one of the four cardinal directions.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists the cardinal directions in display order.
var Directions = []Direction{North, South, East, West}

// ParseDirection accepts a full direction name or its first letter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, nil
	case "south", "s":
		return South, nil
	case "east", "e":
		return East, nil
	case "west", "w":
		return West, nil
	}
	return "", fmt.Errorf("invalid direction %q: use north, south, east or west", s)
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return ""
}

// Delta is the grid offset of one step. North decreases y.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Room is one cell of the world.
type Room struct {
	Coord       Coord              `yaml:"coord"`
	Description string             `yaml:"description"`
	Doors       map[Direction]bool `yaml:"doors"`
	Items       Inventory          `yaml:"items"`
}

// OpenDoors lists the open directions in display order.
func (r *Room) OpenDoors() []Direction {
	var open []Direction
	for _, d := range Directions {
		if r.Doors[d] {
			open = append(open, d)
		}
	}
	return open
}

// World maps coordinates to rooms. It only ever grows.
type World struct {
	rooms map[Coord]*Room
}

// NewWorld returns a world holding rooms.
func NewWorld(rooms ...*Room) *World {
	w := &World{rooms: make(map[Coord]*Room)}
	for _, r := range rooms {
		w.Add(r)
	}
	return w
}

// Room returns the room at c.
func (w *World) Room(c Coord) (*Room, bool) {
	r, ok := w.rooms[c]
	return r, ok
}

// Add inserts r at its coordinate, replacing nothing that already exists.
func (w *World) Add(r *Room) bool {
	if w.rooms == nil {
		w.rooms = make(map[Coord]*Room)
	}
	if _, exists := w.rooms[r.Coord]; exists {
		return false
	}
	w.rooms[r.Coord] = r
	return true
}

// Len is the number of generated rooms.
func (w *World) Len() int {
	return len(w.rooms)
}

// Coords returns every room coordinate ordered by y then x.
func (w *World) Coords() []Coord {
	coords := make([]Coord, 0, len(w.rooms))
	for c := range w.rooms {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// MarshalYAML encodes the world as a mapping keyed by "x,y".
func (w *World) MarshalYAML() (interface{}, error) {
	out := make(map[string]*Room, len(w.rooms))
	for c, r := range w.rooms {
		out[c.String()] = r
	}
	return out, nil
}

// UnmarshalYAML decodes the "x,y" keyed mapping written by MarshalYAML.
func (w *World) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]*Room
	if err := value.Decode(&raw); err != nil {
		return err
	}
	w.rooms = make(map[Coord]*Room, len(raw))
	for key, room := range raw {
		c, err := ParseCoord(key)
		if err != nil {
			return err
		}
		if room == nil {
			return fmt.Errorf("room %s is empty", key)
		}
		room.Coord = c
		w.rooms[c] = room
	}
	return nil
}
