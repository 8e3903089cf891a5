package models

import "fmt"

// Element is a magical element used for spells, resistances and runes.
type Element string

const (
	Fire   Element = "fire"
	Ice    Element = "ice"
	Poison Element = "poison"
)

// Elements lists every element a spell may carry.
var Elements = []Element{Fire, Ice, Poison}

// ParseElement validates a spell element name.
func ParseElement(s string) (Element, error) {
	for _, e := range Elements {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("invalid element %q: choose fire, ice or poison", s)
}

// Temperament is a fixed personality trait chosen at creation.
type Temperament string

const (
	Calm      Temperament = "calm"
	Neutral   Temperament = "neutral"
	Irritable Temperament = "irritable"
)

// Temperaments lists the possible temperaments.
var Temperaments = []Temperament{Calm, Neutral, Irritable}

// Modifier is the temperament's adjustment to skill checks.
func (t Temperament) Modifier() int {
	switch t {
	case Calm:
		return 2
	case Irritable:
		return -2
	default:
		return 0
	}
}

// AttackType distinguishes melee from ranged fighters.
type AttackType string

const (
	Melee  AttackType = "melee"
	Ranged AttackType = "ranged"
)

// Character is a player's avatar within one session.
type Character struct {
	Name            string          `yaml:"name"`
	HP              int             `yaml:"hp"`
	MaxHP           int             `yaml:"max_hp"`
	Attack          int             `yaml:"attack"`
	Defense         int             `yaml:"defense"`
	MagicAttack     int             `yaml:"magic_attack"`
	MagicDefense    int             `yaml:"magic_defense"`
	PhysicalBonus   int             `yaml:"physical_bonus,omitempty"`
	ExtraAttributes map[Element]int `yaml:"extra_attributes"`
	Temperament     Temperament     `yaml:"temperament"`
	AttackType      AttackType      `yaml:"attack_type"`
	Level           int             `yaml:"level"`
	Exp             int             `yaml:"exp"`
	Position        Coord           `yaml:"position"`
	Weapon          *Weapon         `yaml:"weapon"`
	Skills          []string        `yaml:"skills"`
	Inventory       Inventory       `yaml:"inventory"`
	Money           int             `yaml:"money"`
}

// DisplayHP is the hit point value shown to players, never below zero.
func (c *Character) DisplayHP() int {
	return max(c.HP, 0)
}

// KnowsSkill reports whether the character has learned name.
func (c *Character) KnowsSkill(name string) bool {
	for _, s := range c.Skills {
		if s == name {
			return true
		}
	}
	return false
}

// WeaponDamage is the equipped weapon's damage, zero when unarmed.
func (c *Character) WeaponDamage() int {
	if c.Weapon == nil {
		return 0
	}
	return c.Weapon.Damage
}

// Monster is an opponent generated for a single combat call.
type Monster struct {
	Name            string
	Level           int
	HP              int
	MaxHP           int
	PhysicalAttack  int
	PhysicalDefense int
	MagicAttack     int
	MagicDefense    int
	Resistances     map[Element]int
}

// Session aggregates all game-related data.
type Session struct {
	ID         string                `yaml:"-"`
	Players    []string              `yaml:"players"`
	Log        []string              `yaml:"log"`
	Characters map[string]*Character `yaml:"characters"`
	World      *World                `yaml:"world"`
}

// NewSession returns an empty session around world.
func NewSession(id string, world *World) *Session {
	return &Session{
		ID:         id,
		Characters: make(map[string]*Character),
		World:      world,
	}
}

// Append adds lines to the session log.
func (s *Session) Append(lines ...string) {
	s.Log = append(s.Log, lines...)
}

// RecentLog returns at most n of the latest log lines.
func (s *Session) RecentLog(n int) []string {
	if n <= 0 || len(s.Log) <= n {
		return s.Log
	}
	return s.Log[len(s.Log)-n:]
}

// AddPlayer records a display name once.
func (s *Session) AddPlayer(name string) {
	for _, p := range s.Players {
		if p == name {
			return
		}
	}
	s.Players = append(s.Players, name)
}
