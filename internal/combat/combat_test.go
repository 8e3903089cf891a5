package combat

import (
	"errors"
	"testing"

	"github.com/tatianab/text-rpg/internal/character"
	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
)

func newEngine(cfg *config.Game, r *dice.Roller) *Engine {
	return New(cfg, gen.New(cfg, r))
}

func hero(cfg *config.Game) *models.Character {
	return character.Create(cfg, "Ada", models.Neutral)
}

func TestPhysicalDamageRange(t *testing.T) {
	cfg := config.DefaultGame()
	c := hero(cfg)
	c.Attack = 10
	c.Weapon.Damage = 5
	m := &models.Monster{PhysicalDefense: 3}

	for jitter := -2; jitter <= 2; jitter++ {
		d := PhysicalDamage(c, m, jitter)
		if d < 2 || d > 14 || d != 12+jitter {
			t.Errorf("jitter %d: damage %d", jitter, d)
		}
	}
	if d := PhysicalDamage(c, &models.Monster{PhysicalDefense: 50}, 2); d != 0 {
		t.Errorf("damage should floor at 0, got %d", d)
	}
}

func TestFightWinAwardsExpOnce(t *testing.T) {
	cfg := config.DefaultGame()
	// Jitter 0 on every roll; no weapon drop.
	e := newEngine(cfg, dice.Scripted([]int{2, 2, 2, 2}, []float64{0.9}))
	c := hero(cfg)
	c.Attack = 10
	c.Weapon.Damage = 5
	c.Defense = 20
	m := &models.Monster{Name: "Goblin", Level: 2, HP: 15, MaxHP: 15, PhysicalAttack: 5, PhysicalDefense: 3}

	res := e.fight(c, m)
	if res.Outcome != OutcomeWin {
		t.Fatalf("expected a win, got %s", res.Outcome)
	}
	if res.Rounds != 2 {
		t.Errorf("expected 2 rounds, got %d", res.Rounds)
	}
	if res.ExpGained != 30 || c.Exp != 30 {
		t.Errorf("expected exactly 30 exp, got gained %d, character %d", res.ExpGained, c.Exp)
	}
	if c.HP != c.MaxHP {
		t.Errorf("monster should not get through defense 20, HP %d", c.HP)
	}
	if res.Drop != nil || len(c.Inventory) != 0 {
		t.Errorf("no drop expected, got %+v", res.Drop)
	}
	if res.Monster.HP > 0 {
		t.Errorf("monster HP %d after a win", res.Monster.HP)
	}
}

func TestFightWinRandomised(t *testing.T) {
	cfg := config.DefaultGame()
	for seed := uint64(0); seed < 100; seed++ {
		e := newEngine(cfg, dice.NewSeeded(seed))
		c := hero(cfg)
		c.Attack = 10
		c.Weapon.Damage = 5
		c.Defense = 20
		m := &models.Monster{Name: "Goblin", Level: 1, HP: 15, PhysicalAttack: 7, PhysicalDefense: 3}

		res := e.fight(c, m)
		if res.Outcome != OutcomeWin || c.Exp != 15 {
			t.Fatalf("seed %d: outcome %s, exp %d", seed, res.Outcome, c.Exp)
		}
		if res.Rounds > 2 {
			t.Fatalf("seed %d: at least 10 damage a round should finish in 2 rounds, took %d", seed, res.Rounds)
		}
		if res.Drop != nil && c.Inventory[len(c.Inventory)-1] != res.Drop {
			t.Fatalf("seed %d: drop not appended to inventory", seed)
		}
	}
}

func TestFightLoss(t *testing.T) {
	cfg := config.DefaultGame()
	e := newEngine(cfg, dice.NewSeeded(1))
	c := hero(cfg)
	c.HP = 5
	m := &models.Monster{Name: "Troll", Level: 1, HP: 1000, PhysicalAttack: 50, PhysicalDefense: 0}

	res := e.fight(c, m)
	if res.Outcome != OutcomeLoss {
		t.Fatalf("expected a loss, got %s", res.Outcome)
	}
	if c.HP > 0 || c.DisplayHP() != 0 {
		t.Errorf("expected HP at or below 0, got %d", c.HP)
	}
	if c.Exp != 0 {
		t.Errorf("a loss should award nothing, exp %d", c.Exp)
	}
}

func TestBattleWhileDownIsALoss(t *testing.T) {
	cfg := config.DefaultGame()
	e := newEngine(cfg, dice.NewSeeded(1))
	c := hero(cfg)
	c.HP = 0

	res := e.Battle(c)
	if res.Outcome != OutcomeLoss || res.Rounds != 0 {
		t.Fatalf("expected an immediate loss, got %s after %d rounds", res.Outcome, res.Rounds)
	}
	if res.Outcome.String() != "loss" {
		t.Errorf("outcome prints as %q", res.Outcome)
	}
}

func TestFightStalemateTerminates(t *testing.T) {
	cfg := config.DefaultGame()
	cfg.MaxBattleRounds = 25
	e := newEngine(cfg, dice.NewSeeded(1))
	c := hero(cfg)
	c.Attack, c.Weapon.Damage, c.Defense = 0, 0, 100
	m := &models.Monster{Name: "Golem", Level: 1, HP: 10, PhysicalDefense: 100}

	res := e.fight(c, m)
	if res.Outcome != OutcomeStalemate || res.Rounds != 25 {
		t.Fatalf("expected a stalemate after 25 rounds, got %s after %d", res.Outcome, res.Rounds)
	}
}

func TestBattleLevelsUp(t *testing.T) {
	cfg := config.DefaultGame()
	e := newEngine(cfg, dice.NewSeeded(3))
	c := hero(cfg)
	c.Attack = 500
	c.Exp = 95

	res := e.Battle(c)
	if res.Outcome != OutcomeWin {
		t.Fatalf("expected a one-hit win, got %s", res.Outcome)
	}
	if len(res.LevelUps) != 1 || c.Level != 2 || c.Exp != 10 {
		t.Errorf("expected level 2 with 10 exp, got level %d exp %d", c.Level, c.Exp)
	}
}

func TestCastSpell(t *testing.T) {
	cfg := config.DefaultGame()
	tcs := []struct {
		name       string
		ints       []int
		difficulty int
		fumbled    bool
		bonus      int
		damage     int
		defeated   bool
	}{
		// Every monster roll after the check reads 0: level 1, 20 HP,
		// magic defense 1, no resistances.
		{name: "fumble", ints: []int{0}, difficulty: 1, fumbled: true},
		{name: "critical", ints: []int{19}, difficulty: 15, bonus: 60, damage: 67, defeated: true},
		{name: "failed check", ints: []int{9}, difficulty: 50, bonus: 0, damage: 7},
		{name: "success", ints: []int{9}, difficulty: 15, bonus: 20, damage: 27, defeated: true},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(cfg, dice.Scripted(tc.ints, nil))
			c := hero(cfg)
			c.Temperament = models.Calm

			res := e.CastSpell(c, models.Fire, tc.difficulty)
			if res.Check.Modifier != c.MagicAttack+2 {
				t.Errorf("calm modifier not applied: %+v", res.Check)
			}
			if res.Fumbled != tc.fumbled {
				t.Fatalf("fumbled = %v", res.Fumbled)
			}
			if tc.fumbled {
				if res.Monster != nil || res.Damage != 0 {
					t.Errorf("a fumble must not reach a monster: %+v", res)
				}
				return
			}
			if res.Bonus != tc.bonus || res.Damage != tc.damage || res.Defeated != tc.defeated {
				t.Errorf("bonus/damage/defeated = %d/%d/%v, want %d/%d/%v",
					res.Bonus, res.Damage, res.Defeated, tc.bonus, tc.damage, tc.defeated)
			}
		})
	}
}

func TestSpellDamageUsesResistance(t *testing.T) {
	c := &models.Character{MagicAttack: 10}
	m := &models.Monster{MagicDefense: 4, Resistances: map[models.Element]int{models.Ice: 5}}
	if d := SpellDamage(c, m, models.Ice, 3); d != 4 {
		t.Errorf("ice damage = %d, want 4", d)
	}
	if d := SpellDamage(c, m, models.Fire, 3); d != 9 {
		t.Errorf("fire damage = %d, want 9", d)
	}
	if d := SpellDamage(c, m, models.Ice, -20); d != 0 {
		t.Errorf("damage should floor at 0, got %d", d)
	}
}

func TestUseSkill(t *testing.T) {
	cfg := config.DefaultGame()
	target := func() *models.Monster {
		return &models.Monster{Name: "Dummy", HP: 100, PhysicalDefense: 5, MagicDefense: 2}
	}

	tcs := []struct {
		name       string
		skill      string
		roll       int
		difficulty int
		damage     int
	}{
		{name: "physical success", skill: "slash", roll: 9, difficulty: 15, damage: 27},        // 12 + 20 - 5
		{name: "physical failure halves", skill: "slash", roll: 9, difficulty: 40, damage: 21}, // 6 + 20 - 5
		{name: "fumble is ignored", skill: "slash", roll: 0, difficulty: 5, damage: 18},        // 12 + 11 - 5
		{name: "magic", skill: "fireball", roll: 9, difficulty: 15, damage: 28},                // 12 + 18 - 2
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(cfg, dice.Scripted([]int{tc.roll}, nil))
			c := hero(cfg)
			c.Skills = []string{"slash", "fireball"}

			res, err := e.UseSkill(c, tc.skill, target(), tc.difficulty)
			if err != nil {
				t.Fatalf("UseSkill: %v", err)
			}
			if res.Check == nil || res.Damage != tc.damage {
				t.Errorf("damage = %d, want %d (check %+v)", res.Damage, tc.damage, res.Check)
			}
		})
	}
}

func TestUseSkillBuffAndUnknown(t *testing.T) {
	cfg := config.DefaultGame()
	e := newEngine(cfg, dice.NewSeeded(1))
	c := hero(cfg)
	c.Skills = []string{"guard", "dance"}

	for _, skill := range c.Skills {
		res, err := e.UseSkill(c, skill, &models.Monster{HP: 10}, 15)
		if err != nil {
			t.Fatalf("UseSkill(%s): %v", skill, err)
		}
		if res.Check != nil || res.Damage != 0 || len(res.Log) != 1 {
			t.Errorf("%s should only describe itself: %+v", skill, res)
		}
	}

	if _, err := e.UseSkill(c, "fireball", &models.Monster{}, 15); !errors.Is(err, ErrSkillNotKnown) {
		t.Errorf("error = %v, want %v", err, ErrSkillNotKnown)
	}
}
