package gen

import (
	"fmt"

	"github.com/tatianab/text-rpg/internal/models"
)

// Loot rolls the drop table for a defeated monster of monsterLevel. It always
// yields between monsterLevel+1 and monsterLevel+3 entries. Levels below 1
// count as 1.
func (g *Generator) Loot(monsterLevel int) models.Inventory {
	monsterLevel = max(monsterLevel, 1)
	drops := monsterLevel + g.dice.Between(1, 3)
	loot := make(models.Inventory, 0, drops)
	for i := 0; i < drops; i++ {
		loot = append(loot, g.LootItem(g.dropKind(), monsterLevel))
	}
	return loot
}

// dropKind walks drop_rates cumulatively; a draw past the table's total is misc.
func (g *Generator) dropKind() models.ItemKind {
	roll := g.dice.Float64()
	cumulative := 0.0
	for _, d := range g.cfg.DropRates {
		cumulative += d.Rate
		if roll < cumulative {
			return models.ItemKind(d.Type)
		}
	}
	return models.KindMisc
}

// LootItem generates one drop of kind with values scaled by monsterLevel.
func (g *Generator) LootItem(kind models.ItemKind, monsterLevel int) models.Entry {
	switch kind {
	case models.KindGold:
		amount := g.dice.Between(g.cfg.GoldRange.Min, g.cfg.GoldRange.Max) * monsterLevel
		return &models.Gold{Name: fmt.Sprintf("%d gold", amount), Amount: amount}
	case models.KindPotion:
		return g.Item(models.KindPotion)
	case models.KindWeapon:
		w := g.weapon(g.cfg.LootWeaponDamage)
		w.Damage += monsterLevel
		w.Description = WeaponDescription(w.Damage)
		return w
	case models.KindRune:
		r := g.Rune("")
		r.Bonus += monsterLevel / 2
		r.Description = RuneDescription(r.Bonus, r.Type)
		return r
	case models.KindTreasure:
		value := g.dice.Between(1, 10) + monsterLevel
		return &models.Treasure{Name: fmt.Sprintf("Treasure chest (worth %d)", value), Value: value}
	case models.KindScroll:
		return g.Item(models.KindScroll)
	default:
		value := g.dice.Between(1, 3)
		return &models.Misc{Name: fmt.Sprintf("Mysterious object (+%d)", value), Value: value}
	}
}
