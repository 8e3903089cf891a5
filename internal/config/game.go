package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// DropRate is one entry of the loot table. Order matters: the loot draw walks
// the table cumulatively.
type DropRate struct {
	Type string  `yaml:"type"`
	Rate float64 `yaml:"rate"`
}

// Skill describes one entry of the skill database.
type Skill struct {
	Type           string  `yaml:"type"` // physical, magic or buff
	BaseMultiplier float64 `yaml:"base_multiplier"`
	Cost           int     `yaml:"cost"`
	Description    string  `yaml:"description"`
}

// Game is the tuning table for generators, combat and progression.
type Game struct {
	// Character creation
	DefaultCharacterHP  int            `yaml:"default_character_hp"`
	DefaultAttack       int            `yaml:"default_character_attack"`
	DefaultDefense      int            `yaml:"default_character_defense"`
	DefaultMagicAttack  int            `yaml:"default_magic_attack"`
	DefaultMagicDefense int            `yaml:"default_magic_defense"`
	DefaultElements     map[string]int `yaml:"default_elements"`
	DefaultWeaponDamage int            `yaml:"default_weapon_damage"`
	StarterWeaponName   string         `yaml:"starter_weapon_name"`

	// Progression
	ExpGrowthFactor    float64 `yaml:"exp_growth_factor"`
	ExpPerMonsterLevel int     `yaml:"exp_per_monster_level"`

	// Rooms
	DoorProbability  float64  `yaml:"door_probability"`
	ItemProbability  float64  `yaml:"item_probability"`
	RoomDescriptions []string `yaml:"room_descriptions"`

	// Items
	ItemTypes   []string `yaml:"item_types"`
	PotionRange Range    `yaml:"potion_range"`
	GoldRange   Range    `yaml:"gold_range"`
	SkillList   []string `yaml:"skill_list"`

	// Weapons
	WeaponTypes      []string `yaml:"weapon_types"`
	WeaponAdjectives []string `yaml:"weapon_adjectives"`
	DamageRange      Range    `yaml:"damage_range"`
	UpgradeFactor    float64  `yaml:"upgrade_factor"`
	MaxUpgradeLevel  int      `yaml:"max_upgrade_level"`
	UpgradeCost      int      `yaml:"upgrade_cost"`

	// Runes
	RuneTypes           []string `yaml:"rune_types"`
	RuneAdjectives      []string `yaml:"rune_adjectives"`
	BonusRange          Range    `yaml:"bonus_range"`
	RuneUpgradeFactor   float64  `yaml:"rune_upgrade_factor"`
	MaxRuneUpgradeLevel int      `yaml:"max_rune_upgrade_level"`

	// Loot and combat
	DropRates        []DropRate       `yaml:"drop_rates"`
	LootWeaponDamage Range            `yaml:"loot_weapon_damage_range"`
	MonsterNames     []string         `yaml:"monster_names"`
	WeaponDropChance float64          `yaml:"weapon_drop_chance"`
	MaxBattleRounds  int              `yaml:"max_battle_rounds"`
	SpellDifficulty  int              `yaml:"spell_difficulty"`
	SkillDifficulty  int              `yaml:"skill_difficulty"`
	SkillDB          map[string]Skill `yaml:"default_skill_db"`

	// Narrative
	LLMSystemPrompt    string  `yaml:"llm_system_prompt"`
	LLMTemperature     float32 `yaml:"llm_temperature"`
	NarrativeLogWindow int     `yaml:"narrative_log_window"`
}

// DefaultGame returns the built-in tuning table.
func DefaultGame() *Game {
	return &Game{
		DefaultCharacterHP:  100,
		DefaultAttack:       10,
		DefaultDefense:      5,
		DefaultMagicAttack:  8,
		DefaultMagicDefense: 5,
		DefaultElements:     map[string]int{"poison": 0, "fire": 0, "ice": 0},
		DefaultWeaponDamage: 5,
		StarterWeaponName:   "Starter Sword",

		ExpGrowthFactor:    1.2,
		ExpPerMonsterLevel: 15,

		DoorProbability: 0.5,
		ItemProbability: 0.3,
		RoomDescriptions: []string{
			"A barren wasteland",
			"A lush green forest",
			"Mysterious ruins",
			"A gloomy cellar",
			"An open grassland",
			"A rugged mountain path",
			"A mist-shrouded swamp",
			"The remains of a ruined castle",
		},

		ItemTypes:   []string{"potion", "scroll", "treasure", "gold", "misc"},
		PotionRange: Range{Min: 10, Max: 50},
		GoldRange:   Range{Min: 5, Max: 20},
		SkillList:   []string{"slash", "fireball", "pierce"},

		WeaponTypes:      []string{"Sword", "Axe", "Hammer", "Bow", "Dagger"},
		WeaponAdjectives: []string{"Sharp", "Heavy", "Light", "Worn", "Mysterious"},
		DamageRange:      Range{Min: 2, Max: 8},
		UpgradeFactor:    1.1,
		MaxUpgradeLevel:  10,
		UpgradeCost:      10,

		RuneTypes:           []string{"fire", "ice", "poison", "generic"},
		RuneAdjectives:      []string{"Blazing", "Frozen", "Venomous", "Arcane"},
		BonusRange:          Range{Min: 1, Max: 5},
		RuneUpgradeFactor:   1.2,
		MaxRuneUpgradeLevel: 5,

		DropRates: []DropRate{
			{Type: "weapon", Rate: 0.2},
			{Type: "rune", Rate: 0.15},
			{Type: "gold", Rate: 0.4},
			{Type: "potion", Rate: 0.15},
			{Type: "treasure", Rate: 0.1},
		},
		LootWeaponDamage: Range{Min: 3, Max: 10},
		MonsterNames:     []string{"Goblin", "Skeleton", "Demon", "Troll", "Vampire"},
		WeaponDropChance: 0.5,
		MaxBattleRounds:  100,
		SpellDifficulty:  15,
		SkillDifficulty:  15,
		SkillDB: map[string]Skill{
			"slash": {
				Type:           "physical",
				BaseMultiplier: 1.2,
				Description:    "A sweeping sword strike, slightly stronger than a normal attack.",
			},
			"fireball": {
				Type:           "magic",
				BaseMultiplier: 1.5,
				Cost:           10,
				Description:    "Hurls a ball of fire that scorches the enemy.",
			},
			"pierce": {
				Type:           "physical",
				BaseMultiplier: 1.1,
				Description:    "A quick thrust: fast, but a little weaker.",
			},
			"guard": {
				Type:        "buff",
				Description: "Raises your guard to soften incoming blows.",
			},
		},

		LLMSystemPrompt:    "You are a skilled game narrator. Write vivid, engaging narration from the details you are given.",
		LLMTemperature:     0.7,
		NarrativeLogWindow: 10,
	}
}

// LoadGame reads the tuning table at path on top of the defaults. An empty
// path returns the defaults.
func LoadGame(path string) (*Game, error) {
	game := DefaultGame()
	if path == "" {
		return game, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	if err := yaml.Unmarshal(data, game); err != nil {
		return nil, fmt.Errorf("parse game config %s: %w", path, err)
	}
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config %s: %w", path, err)
	}
	return game, nil
}

// Validate checks ranges, probabilities and the pools the generators draw from.
func (g *Game) Validate() error {
	var errs []error

	ranges := map[string]Range{
		"potion_range": g.PotionRange,
		"gold_range":   g.GoldRange,
		"damage_range": g.DamageRange,
		"bonus_range":  g.BonusRange,

		"loot_weapon_damage_range": g.LootWeaponDamage,
	}
	for name, r := range ranges {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %d exceeds max %d", name, r.Min, r.Max))
		}
	}

	probabilities := map[string]float64{
		"door_probability":   g.DoorProbability,
		"item_probability":   g.ItemProbability,
		"weapon_drop_chance": g.WeaponDropChance,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, p))
		}
	}
	for _, d := range g.DropRates {
		if d.Rate < 0 {
			errs = append(errs, fmt.Errorf("drop rate for %s is negative", d.Type))
		}
	}

	pools := map[string][]string{
		"room_descriptions": g.RoomDescriptions,
		"item_types":        g.ItemTypes,
		"skill_list":        g.SkillList,
		"weapon_types":      g.WeaponTypes,
		"weapon_adjectives": g.WeaponAdjectives,
		"rune_types":        g.RuneTypes,
		"rune_adjectives":   g.RuneAdjectives,
		"monster_names":     g.MonsterNames,
	}
	for name, pool := range pools {
		if len(pool) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if g.ExpGrowthFactor <= 0 {
		errs = append(errs, errors.New("exp_growth_factor must be positive"))
	}
	if g.MaxBattleRounds <= 0 {
		errs = append(errs, errors.New("max_battle_rounds must be positive"))
	}

	return errors.Join(errs...)
}

// SkillInfo returns the database entry for name. Unknown names get an
// "unknown" entry with a neutral multiplier.
func (g *Game) SkillInfo(name string) Skill {
	if s, ok := g.SkillDB[name]; ok {
		return s
	}
	return Skill{
		Type:           "unknown",
		BaseMultiplier: 1.0,
		Description:    "an unknown skill",
	}
}
