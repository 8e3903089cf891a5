package game

import (
	"strings"
)

// Command names understood by Execute.
const (
	CmdHelp     = "help"
	CmdStart    = "start"
	CmdLoad     = "load"
	CmdSessions = "sessions"
	CmdCreate   = "create"
	CmdStatus   = "status"
	CmdLook     = "look"
	CmdMove     = "move"
	CmdBattle   = "battle"
	CmdCast     = "cast"
	CmdSkill    = "skill"
	CmdLearn    = "learn"
	CmdTake     = "take"
	CmdUse      = "use"
	CmdEquip    = "equip"
	CmdRune     = "rune"
	CmdUpgrade  = "upgrade"
	CmdRest     = "rest"
	CmdNarrate  = "narrate"
)

// Command is one parsed line of player input.
type Command struct {
	Name string
	Args []string
	// Text is everything after the command word, verbatim.
	Text string
}

var aliases = map[string]string{
	"?":         CmdHelp,
	"new":       CmdStart,
	"startgame": CmdStart,
	"list":      CmdSessions,
	"character": CmdStatus,
	"char":      CmdStatus,
	"inv":       CmdStatus,
	"i":         CmdStatus,
	"l":         CmdLook,
	"go":        CmdMove,
	"fight":     CmdBattle,
	"attack":    CmdBattle,
	"get":       CmdTake,
	"pickup":    CmdTake,
	"wield":     CmdEquip,
	"narrative": CmdNarrate,
	"say":       CmdNarrate,
}

var bareDirections = map[string]bool{
	"n": true, "s": true, "e": true, "w": true,
	"north": true, "south": true, "east": true, "west": true,
}

// Parse splits a line of input into a Command. A leading slash is ignored and
// a bare direction is read as a move.
func Parse(input string) Command {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	if input == "" {
		return Command{}
	}

	word, rest, _ := strings.Cut(input, " ")
	name := strings.ToLower(word)
	rest = strings.TrimSpace(rest)

	if bareDirections[name] {
		return Command{Name: CmdMove, Args: []string{name}, Text: name}
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	return Command{Name: name, Args: strings.Fields(rest), Text: rest}
}

const helpText = `Commands:
  start [name]             start a new game session
  load <name>              load a saved session
  sessions                 list saved sessions
  create [name]            create your character
  status                   show your character
  look                     describe the current room
  move <direction>         walk north, south, east or west (or just n/s/e/w)
  battle                   fight a monster of your level
  cast <element> [diff]    cast fire, ice or poison
  skill <name> [diff]      use a skill on a monster of your level
  learn <name>             learn a skill
  take <n>                 pick up item n from the room
  use <n>                  use inventory item n
  equip <n>                equip the weapon at inventory slot n
  rune <n>                 fuse the rune at inventory slot n into your weapon
  upgrade weapon <points>  upgrade your weapon
  upgrade rune <n> <points> upgrade the rune at inventory slot n
  rest                     recover your health
  narrate <prompt>         ask the narrator to describe the scene`
