package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ItemKind tags each inventory entry variant on disk.
type ItemKind string

const (
	KindPotion   ItemKind = "potion"
	KindScroll   ItemKind = "scroll"
	KindTreasure ItemKind = "treasure"
	KindGold     ItemKind = "gold"
	KindMisc     ItemKind = "misc"
	KindWeapon   ItemKind = "weapon"
	KindRune     ItemKind = "rune"
)

// Kinds lists every known item kind.
var Kinds = []ItemKind{KindPotion, KindScroll, KindTreasure, KindGold, KindMisc, KindWeapon, KindRune}

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Entry is one inventory or room item: *Potion, *Scroll, *Treasure, *Gold,
// *Misc, *Weapon or *Rune.
type Entry interface {
	Kind() ItemKind
	Label() string
	entry()
}

// Potion restores hit points.
type Potion struct {
	Name string `yaml:"name"`
	Heal int    `yaml:"heal"`
}

// Scroll teaches a skill.
type Scroll struct {
	Name  string `yaml:"name"`
	Skill string `yaml:"skill"`
}

// Treasure is a chest worth opening.
type Treasure struct {
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

// Gold is money waiting to be pocketed.
type Gold struct {
	Name   string `yaml:"name"`
	Amount int    `yaml:"amount"`
}

// Misc is a curio with no effect.
type Misc struct {
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

// Weapon is an equippable weapon.
type Weapon struct {
	Name         string `yaml:"name"`
	Damage       int    `yaml:"damage"`
	Description  string `yaml:"description"`
	Level        int    `yaml:"level"`
	Exp          int    `yaml:"exp"`
	UpgradeLevel int    `yaml:"upgrade_level"`
	ExtraEffects []Rune `yaml:"extra_effects,omitempty"`
}

// Rune is an enchantment that can be applied to a weapon.
type Rune struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"rune_type"`
	Bonus        int    `yaml:"bonus"`
	Description  string `yaml:"description"`
	Level        int    `yaml:"level"`
	UpgradeLevel int    `yaml:"upgrade_level"`
}

func (*Potion) Kind() ItemKind   { return KindPotion }
func (*Scroll) Kind() ItemKind   { return KindScroll }
func (*Treasure) Kind() ItemKind { return KindTreasure }
func (*Gold) Kind() ItemKind     { return KindGold }
func (*Misc) Kind() ItemKind     { return KindMisc }
func (*Weapon) Kind() ItemKind   { return KindWeapon }
func (*Rune) Kind() ItemKind     { return KindRune }

func (p *Potion) Label() string   { return fmt.Sprintf("%s (heal %d)", p.Name, p.Heal) }
func (s *Scroll) Label() string   { return fmt.Sprintf("%s (teaches %s)", s.Name, s.Skill) }
func (t *Treasure) Label() string { return fmt.Sprintf("%s (worth %d)", t.Name, t.Value) }
func (g *Gold) Label() string     { return g.Name }
func (m *Misc) Label() string     { return m.Name }
func (w *Weapon) Label() string   { return fmt.Sprintf("%s (%s)", w.Name, w.Description) }
func (r *Rune) Label() string     { return fmt.Sprintf("%s (%s)", r.Name, r.Description) }

func (*Potion) entry()   {}
func (*Scroll) entry()   {}
func (*Treasure) entry() {}
func (*Gold) entry()     {}
func (*Misc) entry()     {}
func (*Weapon) entry()   {}
func (*Rune) entry()     {}

// Inventory is an ordered list of entries.
type Inventory []Entry

// At returns the entry at index i.
func (inv Inventory) At(i int) (Entry, error) {
	if i < 0 || i >= len(inv) {
		return nil, fmt.Errorf("no item at index %d (you carry %d)", i, len(inv))
	}
	return inv[i], nil
}

// Remove returns inv without the entry at index i. i must be in range.
func (inv Inventory) Remove(i int) Inventory {
	out := make(Inventory, 0, len(inv)-1)
	out = append(out, inv[:i]...)
	return append(out, inv[i+1:]...)
}

// Labels returns each entry's label in order.
func (inv Inventory) Labels() []string {
	labels := make([]string, len(inv))
	for i, e := range inv {
		labels[i] = e.Label()
	}
	return labels
}

type tagged[T any] struct {
	Type ItemKind `yaml:"type"`
	Body T        `yaml:",inline"`
}

// MarshalYAML writes each entry with a type tag next to its own fields.
func (inv Inventory) MarshalYAML() (interface{}, error) {
	out := make([]interface{}, 0, len(inv))
	for _, e := range inv {
		switch v := e.(type) {
		case *Potion:
			out = append(out, tagged[Potion]{KindPotion, *v})
		case *Scroll:
			out = append(out, tagged[Scroll]{KindScroll, *v})
		case *Treasure:
			out = append(out, tagged[Treasure]{KindTreasure, *v})
		case *Gold:
			out = append(out, tagged[Gold]{KindGold, *v})
		case *Misc:
			out = append(out, tagged[Misc]{KindMisc, *v})
		case *Weapon:
			out = append(out, tagged[Weapon]{KindWeapon, *v})
		case *Rune:
			out = append(out, tagged[Rune]{KindRune, *v})
		default:
			return nil, fmt.Errorf("unknown inventory entry %T", e)
		}
	}
	return out, nil
}

// UnmarshalYAML reads the tagged sequence written by MarshalYAML.
func (inv *Inventory) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("inventory must be a sequence, line %d", value.Line)
	}
	if len(value.Content) == 0 {
		*inv = nil
		return nil
	}

	out := make(Inventory, 0, len(value.Content))
	for _, node := range value.Content {
		e, err := decodeEntry(node)
		if err != nil {
			return err
		}
		out = append(out, e)
	}
	*inv = out
	return nil
}

func decodeEntry(node *yaml.Node) (Entry, error) {
	var head struct {
		Type ItemKind `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}

	switch head.Type {
	case KindPotion:
		return decodeBody[Potion](node)
	case KindScroll:
		return decodeBody[Scroll](node)
	case KindTreasure:
		return decodeBody[Treasure](node)
	case KindGold:
		return decodeBody[Gold](node)
	case KindMisc:
		return decodeBody[Misc](node)
	case KindWeapon:
		return decodeBody[Weapon](node)
	case KindRune:
		return decodeBody[Rune](node)
	}
	return nil, fmt.Errorf("unknown item type %q on line %d", head.Type, node.Line)
}

func decodeBody[T any, P interface {
	*T
	Entry
}](node *yaml.Node) (Entry, error) {
	var t tagged[T]
	if err := node.Decode(&t); err != nil {
		return nil, err
	}
	return P(&t.Body), nil
}
