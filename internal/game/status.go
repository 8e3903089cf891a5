package game

import (
	"fmt"
	"strings"

	"github.com/tatianab/text-rpg/internal/character"
	"github.com/tatianab/text-rpg/internal/models"
)

// Status is a copy of what the UI shows beside the log. It holds no pointers
// into the session, so it can be rendered while the next command runs.
type Status struct {
	SessionID    string
	Player       string
	HasCharacter bool

	Name         string
	Temperament  models.Temperament
	HP           int
	MaxHP        int
	Level        int
	Exp          int
	NextLevelExp int
	Attack       int
	Defense      int
	MagicAttack  int
	MagicDefense int
	Elements     map[models.Element]int
	Weapon       string
	Money        int
	Skills       []string
	Inventory    []string
	Position     string
	Exits        []string
	RoomItems    []string
}

func (s *Service) snapshot(sess *models.Session, playerID string) Status {
	st := Status{Player: playerID}
	if sess == nil {
		return st
	}
	st.SessionID = sess.ID

	c, ok := sess.Characters[playerID]
	if !ok {
		return st
	}
	st.HasCharacter = true
	st.Name = c.Name
	st.Temperament = c.Temperament
	st.HP = c.DisplayHP()
	st.MaxHP = c.MaxHP
	st.Level = c.Level
	st.Exp = c.Exp
	st.NextLevelExp = character.RequiredExp(c.Level, s.cfg.ExpGrowthFactor)
	st.Attack = c.Attack
	st.Defense = c.Defense
	st.MagicAttack = c.MagicAttack
	st.MagicDefense = c.MagicDefense
	st.Elements = make(map[models.Element]int, len(c.ExtraAttributes))
	for k, v := range c.ExtraAttributes {
		st.Elements[k] = v
	}
	if c.Weapon != nil {
		st.Weapon = c.Weapon.Label()
	}
	st.Money = c.Money
	st.Skills = append([]string(nil), c.Skills...)
	st.Inventory = c.Inventory.Labels()
	st.Position = c.Position.String()

	if room, ok := sess.World.Room(c.Position); ok {
		for _, d := range room.OpenDoors() {
			st.Exits = append(st.Exits, string(d))
		}
		st.RoomItems = room.Items.Labels()
	}
	return st
}

// describeCharacter renders the full character sheet.
func describeCharacter(c *models.Character, nextLevel int) []string {
	lines := []string{
		fmt.Sprintf("Name: %s (level %d, %s)", c.Name, c.Level, c.Temperament),
		fmt.Sprintf("HP: %d / %d", c.DisplayHP(), c.MaxHP),
		fmt.Sprintf("Exp: %d / %d", c.Exp, nextLevel),
		fmt.Sprintf("Attack: %d  Defense: %d", c.Attack, c.Defense),
		fmt.Sprintf("Magic attack: %d  Magic defense: %d", c.MagicAttack, c.MagicDefense),
	}

	elems := make([]string, len(models.Elements))
	for i, e := range models.Elements {
		elems[i] = fmt.Sprintf("%s %d", e, c.ExtraAttributes[e])
	}
	lines = append(lines,
		"Elements: "+strings.Join(elems, ", "),
		fmt.Sprintf("Attack type: %s", c.AttackType),
		"Skills: "+orNone(strings.Join(c.Skills, ", ")),
		fmt.Sprintf("Position: %s", c.Position),
		fmt.Sprintf("Gold: %d", c.Money),
	)
	if c.Weapon != nil {
		lines = append(lines, "Weapon: "+c.Weapon.Label())
	}

	if len(c.Inventory) == 0 {
		return append(lines, "Inventory: empty")
	}
	lines = append(lines, "Inventory:")
	for i, item := range c.Inventory {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i, item.Label()))
	}
	return lines
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
