// Package combat resolves physical battles, spells and skill attacks.
package combat

import (
	"fmt"

	"github.com/tatianab/text-rpg/internal/character"
	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
)

// Outcome is how a battle ended.
type Outcome int

const (
	OutcomeWin Outcome = iota + 1
	OutcomeLoss
	OutcomeStalemate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Engine resolves fights against generated monsters.
type Engine struct {
	cfg  *config.Game
	gen  *gen.Generator
	dice *dice.Roller
}

// New returns an Engine drawing monsters and rolls from g.
func New(cfg *config.Game, g *gen.Generator) *Engine {
	return &Engine{cfg: cfg, gen: g, dice: g.Dice()}
}

// BattleResult summarises a physical battle.
type BattleResult struct {
	Monster   models.Monster
	Outcome   Outcome
	Rounds    int
	ExpGained int
	LevelUps  []character.LevelUp
	Drop      *models.Weapon
	Log       []string
}

// Battle fights a monster generated at the character's level until one side
// drops.
func (e *Engine) Battle(c *models.Character) BattleResult {
	return e.fight(c, e.gen.Monster(c.Level))
}

func (e *Engine) fight(c *models.Character, m *models.Monster) BattleResult {
	res := BattleResult{}
	logf := func(format string, args ...any) {
		res.Log = append(res.Log, fmt.Sprintf(format, args...))
	}
	logf("Battle begins! You face a level %d %s.", m.Level, m.Name)
	if c.HP <= 0 {
		res.Outcome = OutcomeLoss
		logf("You are too weak to fight. The %s looms over you.", m.Name)
	}

	for c.HP > 0 && m.HP > 0 {
		if res.Rounds == e.cfg.MaxBattleRounds {
			res.Outcome = OutcomeStalemate
			logf("Neither of you can land a blow. The %s slinks away.", m.Name)
			break
		}
		res.Rounds++
		logf("[Round %d]", res.Rounds)

		damage := PhysicalDamage(c, m, e.jitter())
		m.HP -= damage
		logf("You hit the %s for %d physical damage. (monster HP: %d)", m.Name, damage, max(m.HP, 0))
		if m.HP <= 0 {
			res.Outcome = OutcomeWin
			e.reward(c, m, &res)
			break
		}

		taken := CounterDamage(m, c, e.jitter())
		c.HP -= taken
		logf("The %s strikes back for %d damage. (your HP: %d)", m.Name, taken, c.DisplayHP())
		if c.HP <= 0 {
			res.Outcome = OutcomeLoss
			logf("You have been defeated! The battle is over.")
		}
	}

	res.Monster = *m
	return res
}

// jitter is one d5 centred on zero.
func (e *Engine) jitter() int {
	r, _ := e.dice.Roll(1, 5)
	return r.Total - 3
}

func (e *Engine) reward(c *models.Character, m *models.Monster, res *BattleResult) {
	res.Log = append(res.Log, fmt.Sprintf("You defeated the %s!", m.Name))

	res.ExpGained = m.Level * e.cfg.ExpPerMonsterLevel
	res.LevelUps = character.GainExp(c, res.ExpGained, e.cfg.ExpGrowthFactor)
	res.Log = append(res.Log, fmt.Sprintf("You gain %d experience.", res.ExpGained))
	for _, up := range res.LevelUps {
		res.Log = append(res.Log, fmt.Sprintf("Level up! You are now level %d. (needed %d exp)", up.Level, up.RequiredExp))
	}

	if e.dice.Chance(e.cfg.WeaponDropChance) {
		res.Drop = e.gen.Weapon()
		c.Inventory = append(c.Inventory, res.Drop)
		res.Log = append(res.Log, fmt.Sprintf("Spoils of battle: %s (%s).", res.Drop.Name, res.Drop.Description))
	}
}

// PhysicalDamage is one player hit: attack + weapon + bonus - defense + jitter,
// never negative.
func PhysicalDamage(c *models.Character, m *models.Monster, jitter int) int {
	return max(0, c.Attack+c.WeaponDamage()+c.PhysicalBonus-m.PhysicalDefense+jitter)
}

// CounterDamage is one monster hit: attack - defense + jitter, never negative.
func CounterDamage(m *models.Monster, c *models.Character, jitter int) int {
	return max(0, m.PhysicalAttack-c.Defense+jitter)
}
