package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tatianab/text-rpg/internal/character"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/equipment"
	"github.com/tatianab/text-rpg/internal/models"
	"github.com/tatianab/text-rpg/internal/world"
)

// turn is the input to one handler. character is nil unless the handler
// asked for one.
type turn struct {
	session   *models.Session
	playerID  string
	character *models.Character
	cmd       Command
}

type handler struct {
	// run returns the lines to show and whether the session changed.
	run            func(s *Service, ctx context.Context, t *turn) ([]string, bool, error)
	needsCharacter bool
}

var handlers = map[string]handler{
	CmdCreate:  {run: (*Service).create},
	CmdStatus:  {run: (*Service).status, needsCharacter: true},
	CmdLook:    {run: (*Service).look, needsCharacter: true},
	CmdMove:    {run: (*Service).move, needsCharacter: true},
	CmdBattle:  {run: (*Service).battle, needsCharacter: true},
	CmdCast:    {run: (*Service).cast, needsCharacter: true},
	CmdSkill:   {run: (*Service).skill, needsCharacter: true},
	CmdLearn:   {run: (*Service).learn, needsCharacter: true},
	CmdTake:    {run: (*Service).take, needsCharacter: true},
	CmdUse:     {run: (*Service).use, needsCharacter: true},
	CmdEquip:   {run: (*Service).equip, needsCharacter: true},
	CmdRune:    {run: (*Service).applyRune, needsCharacter: true},
	CmdUpgrade: {run: (*Service).upgrade, needsCharacter: true},
	CmdRest:    {run: (*Service).rest, needsCharacter: true},
	CmdNarrate: {run: (*Service).narrate, needsCharacter: true},
}

func (s *Service) create(_ context.Context, t *turn) ([]string, bool, error) {
	if _, ok := t.session.Characters[t.playerID]; ok {
		return nil, false, ErrCharacterExists
	}
	name := t.cmd.Text
	if name == "" {
		name = t.playerID
	}

	temperament := dice.Pick(s.gen.Dice(), models.Temperaments)
	c := character.Create(s.cfg, name, temperament)
	t.session.Characters[t.playerID] = c
	t.session.AddPlayer(t.playerID)
	t.session.Append(fmt.Sprintf("%s entered the world.", c.Name))

	lines := []string{"Character created!"}
	lines = append(lines, describeCharacter(c, s.nextLevel(c))...)
	if room, ok := t.session.World.Room(c.Position); ok {
		lines = append(lines, "", world.Describe(room))
	}
	return lines, true, nil
}

func (s *Service) status(_ context.Context, t *turn) ([]string, bool, error) {
	return describeCharacter(t.character, s.nextLevel(t.character)), false, nil
}

func (s *Service) look(_ context.Context, t *turn) ([]string, bool, error) {
	room, err := world.Look(t.session, t.playerID)
	if err != nil {
		return nil, false, err
	}
	return []string{world.Describe(room)}, false, nil
}

func (s *Service) move(_ context.Context, t *turn) ([]string, bool, error) {
	if len(t.cmd.Args) == 0 {
		return nil, false, usage("move <north|south|east|west>")
	}
	dir, err := models.ParseDirection(strings.ToLower(t.cmd.Args[0]))
	if err != nil {
		return nil, false, err
	}

	res, err := world.Move(t.session, s.gen, t.playerID, dir)
	if err != nil {
		return nil, false, err
	}
	lines := []string{fmt.Sprintf("You walk %s.", dir)}
	if res.Generated {
		lines = append(lines, "You step into unexplored territory.")
	}
	return append(lines, world.Describe(res.Room)), true, nil
}

func (s *Service) battle(_ context.Context, t *turn) ([]string, bool, error) {
	c := t.character
	if c.HP <= 0 {
		return nil, false, ErrDefeated
	}
	res := s.combat.Battle(c)
	t.session.Append(fmt.Sprintf("%s fought a level %d %s: %s after %d rounds.",
		c.Name, res.Monster.Level, res.Monster.Name, res.Outcome, res.Rounds))
	return res.Log, true, nil
}

func (s *Service) cast(_ context.Context, t *turn) ([]string, bool, error) {
	if len(t.cmd.Args) == 0 {
		return nil, false, usage("cast <fire|ice|poison> [difficulty]")
	}
	element, err := models.ParseElement(strings.ToLower(t.cmd.Args[0]))
	if err != nil {
		return nil, false, err
	}
	difficulty, err := optionalInt(t.cmd.Args, 1, s.cfg.SpellDifficulty, "difficulty")
	if err != nil {
		return nil, false, err
	}
	c := t.character
	if c.HP <= 0 {
		return nil, false, ErrDefeated
	}

	res := s.combat.CastSpell(c, element, difficulty)
	switch {
	case res.Fumbled:
		t.session.Append(fmt.Sprintf("%s's %s spell fizzled.", c.Name, element))
	case res.Defeated:
		t.session.Append(fmt.Sprintf("%s's %s spell defeated a %s.", c.Name, element, res.Monster.Name))
	default:
		t.session.Append(fmt.Sprintf("%s cast %s at a %s for %d damage.", c.Name, element, res.Monster.Name, res.Damage))
	}
	return res.Log, true, nil
}

func (s *Service) skill(_ context.Context, t *turn) ([]string, bool, error) {
	if len(t.cmd.Args) == 0 {
		return nil, false, usage("skill <name> [difficulty]")
	}
	// Skill names may contain spaces; a trailing number is the difficulty.
	name, difficulty := t.cmd.Args, s.cfg.SkillDifficulty
	if n, err := strconv.Atoi(name[len(name)-1]); err == nil && len(name) > 1 {
		name, difficulty = name[:len(name)-1], n
	}
	c := t.character
	if c.HP <= 0 {
		return nil, false, ErrDefeated
	}

	target := s.combat.Target(c)
	res, err := s.combat.UseSkill(c, strings.Join(name, " "), target, difficulty)
	if err != nil {
		return nil, false, err
	}
	lines := append([]string{fmt.Sprintf("A level %d %s (%d HP) appears.", target.Level, target.Name, target.HP)}, res.Log...)
	if res.Check != nil {
		t.session.Append(fmt.Sprintf("%s used %s on a %s for %d damage.", c.Name, res.Skill, target.Name, res.Damage))
	}
	return lines, res.Check != nil, nil
}

func (s *Service) learn(_ context.Context, t *turn) ([]string, bool, error) {
	if len(t.cmd.Args) == 0 {
		return nil, false, usage("learn <skill>")
	}
	name := strings.Join(t.cmd.Args, " ")
	if err := character.LearnSkill(t.character, name); err != nil {
		return nil, false, err
	}
	return []string{fmt.Sprintf("You learned %s!", name)}, true, nil
}

func (s *Service) take(_ context.Context, t *turn) ([]string, bool, error) {
	i, err := requiredInt(t.cmd.Args, 0, "take <n>")
	if err != nil {
		return nil, false, err
	}
	item, err := world.PickUp(t.session, t.playerID, i)
	if err != nil {
		return nil, false, err
	}
	return []string{fmt.Sprintf("You pick up %s.", item.Label())}, true, nil
}

func (s *Service) use(_ context.Context, t *turn) ([]string, bool, error) {
	i, err := requiredInt(t.cmd.Args, 0, "use <n>")
	if err != nil {
		return nil, false, err
	}
	msg, err := character.UseItem(t.character, i, s.gen)
	if err != nil {
		return nil, false, err
	}
	return []string{msg}, true, nil
}

func (s *Service) equip(_ context.Context, t *turn) ([]string, bool, error) {
	i, err := requiredInt(t.cmd.Args, 0, "equip <n>")
	if err != nil {
		return nil, false, err
	}
	old := t.character.Weapon
	w, err := equipment.Equip(t.character, i)
	if err != nil {
		return nil, false, err
	}
	lines := []string{fmt.Sprintf("You equip %s.", w.Label())}
	if old != nil {
		lines = append(lines, fmt.Sprintf("%s goes into your bag.", old.Name))
	}
	return lines, true, nil
}

func (s *Service) applyRune(_ context.Context, t *turn) ([]string, bool, error) {
	i, err := requiredInt(t.cmd.Args, 0, "rune <n>")
	if err != nil {
		return nil, false, err
	}
	r, err := equipment.ApplyRuneFromInventory(t.character, i)
	if err != nil {
		return nil, false, err
	}
	return []string{
		fmt.Sprintf("You fuse %s into %s.", r.Name, t.character.Weapon.Name),
		"Weapon: " + t.character.Weapon.Label(),
	}, true, nil
}

func (s *Service) upgrade(_ context.Context, t *turn) ([]string, bool, error) {
	const u = "upgrade weapon <points> | upgrade rune <n> <points>"
	if len(t.cmd.Args) == 0 {
		return nil, false, usage(u)
	}
	c := t.character

	switch strings.ToLower(t.cmd.Args[0]) {
	case "weapon":
		points, err := requiredInt(t.cmd.Args, 1, u)
		if err != nil || points < 1 {
			return nil, false, usage(u)
		}
		if c.Weapon == nil {
			return nil, false, equipment.ErrNoWeapon
		}
		times := min(points, s.cfg.MaxUpgradeLevel-c.Weapon.UpgradeLevel)
		if times <= 0 {
			return []string{fmt.Sprintf("%s cannot be upgraded any further.", c.Weapon.Name)}, false, nil
		}
		if err := s.charge(c, times); err != nil {
			return nil, false, err
		}
		equipment.UpgradeWeapon(s.cfg, c.Weapon, times)
		return []string{
			fmt.Sprintf("%s upgraded %d times for %d gold.", c.Weapon.Name, times, times*s.cfg.UpgradeCost),
			"Weapon: " + c.Weapon.Label(),
		}, true, nil

	case "rune":
		i, err := requiredInt(t.cmd.Args, 1, u)
		if err != nil {
			return nil, false, err
		}
		points, err := requiredInt(t.cmd.Args, 2, u)
		if err != nil || points < 1 {
			return nil, false, usage(u)
		}
		entry, err := c.Inventory.At(i)
		if err != nil {
			return nil, false, err
		}
		r, ok := entry.(*models.Rune)
		if !ok {
			return nil, false, fmt.Errorf("%w: %s", equipment.ErrNotRune, entry.Label())
		}
		times := min(points, s.cfg.MaxRuneUpgradeLevel-r.UpgradeLevel)
		if times <= 0 {
			return []string{fmt.Sprintf("%s cannot be upgraded any further.", r.Name)}, false, nil
		}
		if err := s.charge(c, times); err != nil {
			return nil, false, err
		}
		equipment.UpgradeRune(s.cfg, r, times)
		return []string{fmt.Sprintf("%s upgraded %d times for %d gold: %s.",
			r.Name, times, times*s.cfg.UpgradeCost, r.Description)}, true, nil
	}
	return nil, false, usage(u)
}

// charge takes the gold for times upgrades, or fails without touching it.
func (s *Service) charge(c *models.Character, times int) error {
	cost := times * s.cfg.UpgradeCost
	if c.Money < cost {
		return fmt.Errorf("%w: %d needed, you have %d", ErrInsufficientFunds, cost, c.Money)
	}
	c.Money -= cost
	return nil
}

// rest recovers up to half of max HP.
func (s *Service) rest(_ context.Context, t *turn) ([]string, bool, error) {
	c := t.character
	floor := c.MaxHP / 2
	if c.HP >= floor {
		return []string{"You rest a while, but you are not tired enough for it to help."}, false, nil
	}
	before := c.DisplayHP()
	c.HP = floor
	t.session.Append(fmt.Sprintf("%s rested.", c.Name))
	return []string{fmt.Sprintf("You rest and bind your wounds. HP %d -> %d.", before, c.HP)}, true, nil
}

func (s *Service) narrate(ctx context.Context, t *turn) ([]string, bool, error) {
	if t.cmd.Text == "" {
		return nil, false, usage("narrate <prompt>")
	}
	room, err := world.Look(t.session, t.playerID)
	if err != nil {
		return nil, false, err
	}

	c := t.character
	scene := engine.Scene{
		System:      s.cfg.LLMSystemPrompt,
		Coord:       room.Coord.String(),
		Description: room.Description,
		Character: fmt.Sprintf("%s, a %s level %d adventurer with %d/%d HP",
			c.Name, c.Temperament, c.Level, c.DisplayHP(), c.MaxHP),
		Log:    append([]string(nil), t.session.RecentLog(s.cfg.NarrativeLogWindow)...),
		Prompt: t.cmd.Text,
	}
	for _, d := range room.OpenDoors() {
		scene.Doors = append(scene.Doors, string(d))
	}
	if c.Weapon != nil {
		scene.Character += ", wielding " + c.Weapon.Name
	}

	text, err := s.narrator.Narrate(ctx, scene)
	if err != nil {
		s.log.Printf("narration failed for session %s: %v", t.session.ID, err)
		return []string{fmt.Sprintf("The narrator is silent: %v", err)}, false, nil
	}
	t.session.Append(text)
	return []string{text}, true, nil
}

func (s *Service) nextLevel(c *models.Character) int {
	return character.RequiredExp(c.Level, s.cfg.ExpGrowthFactor)
}

func requiredInt(args []string, i int, u string) (int, error) {
	if len(args) <= i {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, usage(u)
	}
	return n, nil
}

func optionalInt(args []string, i, def int, name string) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}
