package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/models"
)

// ErrSkillNotKnown is returned when a character uses a skill it never learned.
var ErrSkillNotKnown = errors.New("you have not learned that skill")

// SpellResult summarises a single spell exchange.
type SpellResult struct {
	Element  models.Element
	Check    dice.Check
	Fumbled  bool
	Bonus    int
	Monster  *models.Monster // nil when the spell fumbled
	Damage   int
	Defeated bool
	Log      []string
}

// CastSpell throws one elemental spell at a freshly generated monster. A
// fumble wastes the spell outright, whatever the total.
func (e *Engine) CastSpell(c *models.Character, element models.Element, difficulty int) SpellResult {
	modifier := c.MagicAttack + c.Temperament.Modifier()
	check := e.dice.SkillCheck(modifier, difficulty, dice.D20)

	res := SpellResult{Element: element, Check: check}
	res.Log = append(res.Log, fmt.Sprintf("Spell check: rolled %d + modifier %d = %d (difficulty %d)",
		check.Roll, modifier, check.Total, difficulty))

	switch {
	case check.Fumble:
		res.Fumbled = true
		res.Log = append(res.Log, "Fumble! The spell fizzles completely.")
		return res
	case !check.Success:
		res.Log = append(res.Log, "The check fails; the spell comes out weak.")
	case check.Critical:
		res.Bonus = check.Total * 2
		res.Log = append(res.Log, "Critical success! The spell surges with power.")
	default:
		res.Bonus = check.Total
	}

	m := e.gen.Monster(c.Level)
	res.Monster = m
	res.Damage = SpellDamage(c, m, element, res.Bonus)
	res.Log = append(res.Log, fmt.Sprintf("You cast %s at the %s for %d magic damage.", element, m.Name, res.Damage))
	if res.Damage >= m.HP {
		res.Defeated = true
		res.Log = append(res.Log, fmt.Sprintf("You defeated the %s!", m.Name))
	} else {
		res.Log = append(res.Log, fmt.Sprintf("The %s has %d HP left.", m.Name, max(m.HP-res.Damage, 0)))
	}
	return res
}

// SpellDamage is magic attack plus check bonus, minus magic defense and the
// monster's resistance to element, never negative.
func SpellDamage(c *models.Character, m *models.Monster, element models.Element, bonus int) int {
	return max(0, c.MagicAttack+bonus-(m.MagicDefense+m.Resistances[element]))
}

// SkillResult summarises one skill use.
type SkillResult struct {
	Skill    string
	Info     config.Skill
	Check    *dice.Check // nil for buffs and unknown skill types
	Damage   int
	Defeated bool
	Log      []string
}

// UseSkill resolves skill against target. Buffs and unknown skill types only
// describe themselves. The fumble flag is not consulted here.
func (e *Engine) UseSkill(c *models.Character, skill string, target *models.Monster, difficulty int) (SkillResult, error) {
	if !c.KnowsSkill(skill) {
		return SkillResult{}, fmt.Errorf("%w: %s", ErrSkillNotKnown, skill)
	}

	info := e.cfg.SkillInfo(skill)
	res := SkillResult{Skill: skill, Info: info}

	var base, defense int
	switch info.Type {
	case "physical":
		base, defense = c.Attack, target.PhysicalDefense
	case "magic":
		base, defense = c.MagicAttack, target.MagicDefense
	default:
		res.Log = append(res.Log, fmt.Sprintf("You use %s: %s", skill, info.Description))
		return res, nil
	}

	check := e.dice.SkillCheck(base, difficulty, dice.D20)
	res.Check = &check
	multiplier := info.BaseMultiplier
	if !check.Success {
		multiplier *= 0.5
	}
	res.Damage = SkillDamage(base, multiplier, check.Total, defense)

	res.Log = append(res.Log, fmt.Sprintf("Skill check: rolled %d + %d = %d (difficulty %d)",
		check.Roll, base, check.Total, difficulty))
	if res.Damage >= target.HP {
		res.Defeated = true
		res.Log = append(res.Log, fmt.Sprintf("Your %s defeats the %s with %d damage!", skill, target.Name, res.Damage))
	} else {
		res.Log = append(res.Log, fmt.Sprintf("Your %s hits the %s for %d damage. (target HP left: %d)",
			skill, target.Name, res.Damage, max(target.HP-res.Damage, 0)))
	}
	return res, nil
}

// SkillDamage is floor(base*multiplier + total - defense), never negative.
func SkillDamage(base int, multiplier float64, total, defense int) int {
	return max(0, int(math.Floor(float64(base)*multiplier+float64(total-defense))))
}

// Target generates a monster at the character's level for skill practice.
func (e *Engine) Target(c *models.Character) *models.Monster {
	return e.gen.Monster(c.Level)
}
