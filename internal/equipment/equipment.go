// Package equipment upgrades weapons and runes, applies runes and swaps the
// equipped weapon.
package equipment

import (
	"errors"
	"fmt"
	"math"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
)

// ErrNotWeapon is returned when equipping something that is not a weapon.
var ErrNotWeapon = errors.New("that item is not a weapon")

// ErrNotRune is returned when applying something that is not a rune.
var ErrNotRune = errors.New("that item is not a rune")

// ErrNoWeapon is returned when a rune has nothing to attach to.
var ErrNoWeapon = errors.New("no weapon equipped")

// UpgradeWeapon spends up to points upgrades on w, capped at
// max_upgrade_level, and returns how many were applied.
func UpgradeWeapon(cfg *config.Game, w *models.Weapon, points int) int {
	times := min(points, cfg.MaxUpgradeLevel-w.UpgradeLevel)
	if times <= 0 {
		return 0
	}

	w.Damage = int(float64(w.Damage) * math.Pow(cfg.UpgradeFactor, float64(times)))
	w.Description = gen.WeaponDescription(w.Damage)
	w.UpgradeLevel += times
	w.Level += times
	return times
}

// UpgradeRune spends up to points upgrades on r, capped at
// max_rune_upgrade_level, and returns how many were applied.
func UpgradeRune(cfg *config.Game, r *models.Rune, points int) int {
	times := min(points, cfg.MaxRuneUpgradeLevel-r.UpgradeLevel)
	if times <= 0 {
		return 0
	}

	r.Bonus = int(float64(r.Bonus) * math.Pow(cfg.RuneUpgradeFactor, float64(times)))
	r.Description = gen.RuneDescription(r.Bonus, r.Type)
	r.UpgradeLevel += times
	return times
}

// ApplyRune fuses r into w for good: the rune joins the weapon's effects and
// its bonus is added to the weapon's damage.
func ApplyRune(w *models.Weapon, r *models.Rune) {
	w.ExtraEffects = append(w.ExtraEffects, *r)
	w.Damage += r.Bonus
	w.Description = fmt.Sprintf("%s, with %s", gen.WeaponDescription(w.Damage), r.Name)
}

// Equip swaps the weapon at inventory index in for the equipped one, which
// moves to the end of the inventory. The inventory length is unchanged.
func Equip(c *models.Character, index int) (*models.Weapon, error) {
	entry, err := c.Inventory.At(index)
	if err != nil {
		return nil, err
	}
	w, ok := entry.(*models.Weapon)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotWeapon, entry.Label())
	}

	inv := c.Inventory.Remove(index)
	if c.Weapon != nil {
		inv = append(inv, c.Weapon)
	}
	c.Inventory = inv
	c.Weapon = w
	return w, nil
}

// ApplyRuneFromInventory applies the rune at inventory index to the equipped
// weapon and removes it from the inventory.
func ApplyRuneFromInventory(c *models.Character, index int) (*models.Rune, error) {
	entry, err := c.Inventory.At(index)
	if err != nil {
		return nil, err
	}
	r, ok := entry.(*models.Rune)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRune, entry.Label())
	}
	if c.Weapon == nil {
		return nil, ErrNoWeapon
	}

	ApplyRune(c.Weapon, r)
	c.Inventory = c.Inventory.Remove(index)
	return r, nil
}
