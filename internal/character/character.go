// Package character creates characters and applies progression: experience,
// level-ups, skills and consumable items.
package character

import (
	"errors"
	"fmt"
	"math"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
)

var (
	// ErrWrongItemType is returned when an item cannot be used that way.
	ErrWrongItemType = errors.New("that item cannot be used like that")
	// ErrSkillKnown is returned when learning a skill twice.
	ErrSkillKnown = errors.New("skill already known")
)

// Create builds a level 1 character from the configured defaults.
func Create(cfg *config.Game, name string, temperament models.Temperament) *models.Character {
	extra := make(map[models.Element]int, len(models.Elements))
	for _, e := range models.Elements {
		extra[e] = cfg.DefaultElements[string(e)]
	}

	var skills []string
	if len(cfg.SkillList) > 0 {
		skills = []string{cfg.SkillList[0]}
	}

	return &models.Character{
		Name:            name,
		HP:              cfg.DefaultCharacterHP,
		MaxHP:           cfg.DefaultCharacterHP,
		Attack:          cfg.DefaultAttack,
		Defense:         cfg.DefaultDefense,
		MagicAttack:     cfg.DefaultMagicAttack,
		MagicDefense:    cfg.DefaultMagicDefense,
		ExtraAttributes: extra,
		Temperament:     temperament,
		AttackType:      models.Melee,
		Level:           1,
		Position:        models.Origin,
		Weapon: &models.Weapon{
			Name:        cfg.StarterWeaponName,
			Damage:      cfg.DefaultWeaponDamage,
			Description: gen.WeaponDescription(cfg.DefaultWeaponDamage),
			Level:       1,
		},
		Skills: skills,
	}
}

// RequiredExp is the experience needed to leave level.
func RequiredExp(level int, growth float64) int {
	return int(100 * math.Pow(float64(level), growth))
}

// LevelUp records one level gained.
type LevelUp struct {
	Level       int
	RequiredExp int
}

// GainExp adds exp and resolves every level-up it pays for.
func GainExp(c *models.Character, exp int, growth float64) []LevelUp {
	c.Exp += exp

	var ups []LevelUp
	required := RequiredExp(c.Level, growth)
	for c.Exp >= required {
		c.Level++
		c.Exp -= required
		c.MaxHP += 10
		c.HP += 10
		c.Attack += 2
		c.Defense += 1
		ups = append(ups, LevelUp{Level: c.Level, RequiredExp: required})
		required = RequiredExp(c.Level, growth)
	}
	return ups
}

// LearnSkill adds name to the character's skills.
func LearnSkill(c *models.Character, name string) error {
	if c.KnowsSkill(name) {
		return fmt.Errorf("%w: %s", ErrSkillKnown, name)
	}
	c.Skills = append(c.Skills, name)
	return nil
}

// UseItem applies the inventory entry at index. Potions, gold, scrolls and
// treasure are consumed; a treasure chest is opened into a loot roll at the
// character's level. Weapons and runes are rejected without changes.
func UseItem(c *models.Character, index int, g *gen.Generator) (string, error) {
	entry, err := c.Inventory.At(index)
	if err != nil {
		return "", err
	}

	switch item := entry.(type) {
	case *models.Potion:
		before := c.HP
		c.HP = min(c.HP+item.Heal, c.MaxHP)
		c.Inventory = c.Inventory.Remove(index)
		return fmt.Sprintf("You drink %s. HP %d -> %d.", item.Name, before, c.HP), nil

	case *models.Gold:
		c.Money += item.Amount
		c.Inventory = c.Inventory.Remove(index)
		return fmt.Sprintf("You pocket %d gold (now %d).", item.Amount, c.Money), nil

	case *models.Scroll:
		if err := LearnSkill(c, item.Skill); err != nil {
			return "", err
		}
		c.Inventory = c.Inventory.Remove(index)
		return fmt.Sprintf("You read %s and learn %s!", item.Name, item.Skill), nil

	case *models.Treasure:
		loot := g.Loot(c.Level)
		c.Inventory = append(c.Inventory.Remove(index), loot...)
		msg := fmt.Sprintf("You open %s and find:", item.Name)
		for _, l := range loot {
			msg += "\n  - " + l.Label()
		}
		return msg, nil

	case *models.Misc:
		return fmt.Sprintf("You fiddle with %s, but nothing happens.", item.Name), nil

	case *models.Weapon:
		return "", fmt.Errorf("%w: equip %s instead", ErrWrongItemType, item.Name)

	case *models.Rune:
		return "", fmt.Errorf("%w: apply %s to your weapon instead", ErrWrongItemType, item.Name)
	}
	return "", ErrWrongItemType
}
