// Package gen builds rooms, monsters, weapons, runes, items and loot from the
// game tuning table and a dice roller.
package gen

import (
	"fmt"
	"strings"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/models"
)

// Generator holds no state besides its configuration and roller.
type Generator struct {
	cfg  *config.Game
	dice *dice.Roller
}

// New returns a Generator.
func New(cfg *config.Game, roller *dice.Roller) *Generator {
	return &Generator{cfg: cfg, dice: roller}
}

// Dice exposes the roller so callers share one random stream.
func (g *Generator) Dice() *dice.Roller {
	return g.dice
}

// Room generates the room at coord. When entry is set, the door leading back
// the way the player came is always open.
func (g *Generator) Room(coord models.Coord, entry *models.Direction) *models.Room {
	doors := make(map[models.Direction]bool, len(models.Directions))
	for _, d := range models.Directions {
		if entry != nil && d == entry.Opposite() {
			doors[d] = true
			continue
		}
		doors[d] = g.dice.Chance(g.cfg.DoorProbability)
	}

	room := &models.Room{
		Coord:       coord,
		Description: dice.Pick(g.dice, g.cfg.RoomDescriptions),
		Doors:       doors,
	}
	if g.dice.Chance(g.cfg.ItemProbability) {
		count := g.dice.Between(1, 2)
		for i := 0; i < count; i++ {
			room.Items = append(room.Items, g.Item(""))
		}
	}
	return room
}

// Monster generates an opponent whose stats scale with level.
func (g *Generator) Monster(level int) *models.Monster {
	level = max(level, 1)
	m := &models.Monster{
		Name:  dice.Pick(g.dice, g.cfg.MonsterNames),
		Level: level,
	}
	m.HP = level * g.dice.Between(20, 30)
	m.MaxHP = m.HP
	m.PhysicalAttack = level * g.dice.Between(3, 7)
	m.PhysicalDefense = level * g.dice.Between(1, 3)
	m.MagicAttack = level * g.dice.Between(1, 5)
	m.MagicDefense = level * g.dice.Between(1, 5)

	m.Resistances = make(map[models.Element]int, len(models.Elements))
	for _, e := range []models.Element{models.Fire, models.Ice, models.Poison} {
		m.Resistances[e] = g.dice.Between(0, 5)
	}
	return m
}

// Weapon generates a fresh level 1 weapon.
func (g *Generator) Weapon() *models.Weapon {
	return g.weapon(g.cfg.DamageRange)
}

func (g *Generator) weapon(damageRange config.Range) *models.Weapon {
	kind := dice.Pick(g.dice, g.cfg.WeaponTypes)
	adjective := dice.Pick(g.dice, g.cfg.WeaponAdjectives)
	damage := g.dice.Between(damageRange.Min, damageRange.Max)
	return &models.Weapon{
		Name:        adjective + " " + kind,
		Damage:      damage,
		Description: WeaponDescription(damage),
		Level:       1,
	}
}

// Rune generates a level 1 rune. An empty runeType picks one at random.
func (g *Generator) Rune(runeType string) *models.Rune {
	if runeType == "" {
		runeType = dice.Pick(g.dice, g.cfg.RuneTypes)
	}
	adjective := dice.Pick(g.dice, g.cfg.RuneAdjectives)
	bonus := g.dice.Between(g.cfg.BonusRange.Min, g.cfg.BonusRange.Max)
	return &models.Rune{
		Name:        fmt.Sprintf("%s %s Rune", adjective, titleCase(runeType)),
		Type:        runeType,
		Bonus:       bonus,
		Description: RuneDescription(bonus, runeType),
		Level:       1,
	}
}

// Item generates a potion, scroll, treasure, gold or misc item. An empty kind
// picks one of the configured item types.
func (g *Generator) Item(kind models.ItemKind) models.Entry {
	if kind == "" {
		kind = models.ItemKind(dice.Pick(g.dice, g.cfg.ItemTypes))
	}
	switch kind {
	case models.KindPotion:
		heal := g.dice.Between(g.cfg.PotionRange.Min, g.cfg.PotionRange.Max)
		return &models.Potion{Name: fmt.Sprintf("Potion (+%d HP)", heal), Heal: heal}
	case models.KindScroll:
		skill := dice.Pick(g.dice, g.cfg.SkillList)
		return &models.Scroll{Name: fmt.Sprintf("Scroll (%s)", skill), Skill: skill}
	case models.KindTreasure:
		value := g.dice.Between(1, 10)
		return &models.Treasure{Name: fmt.Sprintf("Treasure chest (worth %d)", value), Value: value}
	case models.KindGold:
		amount := g.dice.Between(g.cfg.GoldRange.Min, g.cfg.GoldRange.Max)
		return &models.Gold{Name: fmt.Sprintf("%d gold", amount), Amount: amount}
	default:
		value := g.dice.Between(1, 5)
		return &models.Misc{Name: fmt.Sprintf("Mysterious object (+%d)", value), Value: value}
	}
}

// WeaponDescription is the standard weapon blurb.
func WeaponDescription(damage int) string {
	return fmt.Sprintf("damage %d", damage)
}

// RuneDescription is the standard rune blurb.
func RuneDescription(bonus int, runeType string) string {
	return fmt.Sprintf("adds %d %s", bonus, runeType)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
