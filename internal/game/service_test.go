package game

import (
	"bytes"
	"context"
	"errors"
	"log"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
	"github.com/tatianab/text-rpg/internal/store"
	"github.com/tatianab/text-rpg/internal/world"
)

type fakeNarrator struct {
	text   string
	err    error
	scenes []engine.Scene
}

func (f *fakeNarrator) Narrate(_ context.Context, scene engine.Scene) (string, error) {
	f.scenes = append(f.scenes, scene)
	return f.text, f.err
}

func (f *fakeNarrator) Close() error { return nil }

type failingStore struct {
	store.Store
}

func (failingStore) Save(*models.Session) error { return errors.New("disk full") }

func newService(t *testing.T, st store.Store, n engine.Narrator) (*Service, *bytes.Buffer) {
	t.Helper()
	if st == nil {
		st = store.NewFileStore(t.TempDir())
	}
	var buf bytes.Buffer
	cfg := config.DefaultGame()
	return NewService(cfg, gen.New(cfg, dice.NewSeeded(7)), st, n, log.New(&buf, "", 0)), &buf
}

func run(t *testing.T, s *Service, input string) Result {
	t.Helper()
	res, err := s.Execute(context.Background(), "game", "ada", Parse(input))
	if err != nil {
		t.Fatalf("%s: %v", input, err)
	}
	return res
}

func runErr(s *Service, input string) error {
	_, err := s.Execute(context.Background(), "game", "ada", Parse(input))
	return err
}

func sessionOf(t *testing.T, s *Service, id string) *models.Session {
	t.Helper()
	sl, ok := s.sessions[id]
	if !ok {
		t.Fatalf("session %s not registered", id)
	}
	return sl.session
}

func TestParse(t *testing.T) {
	tcs := []struct {
		in   string
		want Command
	}{
		{in: "", want: Command{}},
		{in: "  /LOOK ", want: Command{Name: CmdLook, Args: []string{}, Text: ""}},
		{in: "n", want: Command{Name: CmdMove, Args: []string{"n"}, Text: "n"}},
		{in: "go West", want: Command{Name: CmdMove, Args: []string{"West"}, Text: "West"}},
		{in: "cast fire 12", want: Command{Name: CmdCast, Args: []string{"fire", "12"}, Text: "fire 12"}},
		{in: "narrate I listen  closely", want: Command{Name: CmdNarrate, Args: []string{"I", "listen", "closely"}, Text: "I listen  closely"}},
		{in: "startgame", want: Command{Name: CmdStart, Args: []string{}, Text: ""}},
		{in: "upgrade rune 2 3", want: Command{Name: CmdUpgrade, Args: []string{"rune", "2", "3"}, Text: "rune 2 3"}},
	}
	for _, tc := range tcs {
		if got := Parse(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestStartGame(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	s, _ := newService(t, st, nil)

	res := run(t, s, "start")
	if res.SessionID != "game" {
		t.Errorf("SessionID = %q", res.SessionID)
	}
	sess := sessionOf(t, s, "game")
	if sess.World.Len() != 1 || len(sess.Log) != 1 || !reflect.DeepEqual(sess.Players, []string{"ada"}) {
		t.Errorf("unexpected new session: %+v", sess)
	}
	if err := runErr(s, "start"); !errors.Is(err, ErrSessionExists) {
		t.Errorf("second start: error = %v, want %v", err, ErrSessionExists)
	}

	// A fresh service over the same store still refuses to overwrite.
	s2, _ := newService(t, st, nil)
	if err := runErr(s2, "start"); !errors.Is(err, ErrSessionExists) {
		t.Errorf("start over saved session: error = %v, want %v", err, ErrSessionExists)
	}
}

func TestStartWithoutNameUsesRandomID(t *testing.T) {
	s, _ := newService(t, nil, nil)
	res, err := s.Execute(context.Background(), "", "ada", Parse("start"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(res.SessionID) != 36 {
		t.Errorf("expected a uuid session id, got %q", res.SessionID)
	}
}

func TestCommandsNeedSessionAndCharacter(t *testing.T) {
	s, _ := newService(t, nil, nil)
	if err := runErr(s, "look"); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want %v", err, ErrNoSession)
	}
	if err := runErr(s, "create Ada"); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want %v", err, ErrNoSession)
	}

	run(t, s, "start")
	for _, cmd := range []string{"status", "look", "n", "battle", "cast fire", "narrate hello"} {
		if err := runErr(s, cmd); !errors.Is(err, ErrNoCharacter) {
			t.Errorf("%s: error = %v, want %v", cmd, err, ErrNoCharacter)
		}
	}
	if err := runErr(s, "dance"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want %v", err, ErrUnknownCommand)
	}
}

func TestCreateCharacter(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")

	res := run(t, s, "create Ada Lovelace")
	if !res.Status.HasCharacter || res.Status.Name != "Ada Lovelace" || res.Status.HP != 100 || res.Status.Level != 1 {
		t.Errorf("unexpected status: %+v", res.Status)
	}
	c := sessionOf(t, s, "game").Characters["ada"]
	found := false
	for _, tm := range models.Temperaments {
		found = found || c.Temperament == tm
	}
	if !found {
		t.Errorf("temperament %q is not one of %v", c.Temperament, models.Temperaments)
	}
	if err := runErr(s, "create Again"); !errors.Is(err, ErrCharacterExists) {
		t.Errorf("error = %v, want %v", err, ErrCharacterExists)
	}

	res = run(t, s, "status")
	if !strings.Contains(strings.Join(res.Lines, "\n"), "HP: 100 / 100") {
		t.Errorf("status lines missing HP: %v", res.Lines)
	}
}

func TestMoveAndPersist(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	s, _ := newService(t, st, nil)
	run(t, s, "start")
	run(t, s, "create Ada")

	origin, _ := sessionOf(t, s, "game").World.Room(models.Origin)
	origin.Doors = map[models.Direction]bool{models.North: false, models.East: true}
	if err := runErr(s, "north"); !errors.Is(err, world.ErrNoDoor) {
		t.Errorf("error = %v, want no door", err)
	}
	if err := runErr(s, "move up"); err == nil {
		t.Error("expected an invalid direction error")
	}

	res := run(t, s, "e")
	if res.Status.Position != "1,0" {
		t.Errorf("Position = %q, want 1,0", res.Status.Position)
	}
	found := false
	for _, exit := range res.Status.Exits {
		found = found || exit == "west"
	}
	if !found {
		t.Errorf("back door missing from exits %v", res.Status.Exits)
	}

	// A second service reads what the first one saved.
	s2, _ := newService(t, st, nil)
	res, err := s2.Execute(context.Background(), "game", "ada", Parse("load game"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status.Position != "1,0" || sessionOf(t, s2, "game").World.Len() != 2 {
		t.Errorf("loaded session lost the move: %+v", res.Status)
	}
}

func TestPersistFailureIsLogged(t *testing.T) {
	st := failingStore{store.NewFileStore(t.TempDir())}
	s, logs := newService(t, st, nil)
	run(t, s, "start")
	res := run(t, s, "create Ada")
	if !res.Status.HasCharacter {
		t.Error("the command should succeed even though saving failed")
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected the save failure in the log, got %q", logs.String())
	}
}

func TestBattleAndRest(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")
	c := sessionOf(t, s, "game").Characters["ada"]
	c.Attack = 500

	res := run(t, s, "battle")
	if c.Exp == 0 && c.Level == 1 {
		t.Errorf("expected experience after a one-hit win: %v", res.Lines)
	}
	entries := sessionOf(t, s, "game").Log
	if !strings.Contains(entries[len(entries)-1], "win") {
		t.Errorf("expected a battle summary in the session log, got %q", entries[len(entries)-1])
	}

	c.HP = -3
	if err := runErr(s, "battle"); !errors.Is(err, ErrDefeated) {
		t.Errorf("error = %v, want %v", err, ErrDefeated)
	}
	res = run(t, s, "rest")
	if c.HP != c.MaxHP/2 || res.Status.HP != c.MaxHP/2 {
		t.Errorf("rest should restore half HP, got %d", c.HP)
	}
	run(t, s, "rest")
	if c.HP != c.MaxHP/2 {
		t.Errorf("a second rest should not heal, got %d", c.HP)
	}
}

func TestCastValidatesElement(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")

	if err := runErr(s, "cast lightning"); err == nil {
		t.Error("expected an invalid element error")
	}
	if err := runErr(s, "cast fire hard"); err == nil {
		t.Error("expected an invalid difficulty error")
	}
	res := run(t, s, "cast ICE 10")
	if len(res.Lines) == 0 || !strings.Contains(res.Lines[0], "difficulty 10") {
		t.Errorf("unexpected cast output: %v", res.Lines)
	}
}

func TestSkillAndLearn(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")

	if err := runErr(s, "skill fireball"); err == nil {
		t.Error("expected an unknown skill error")
	}
	run(t, s, "learn fireball")
	if err := runErr(s, "learn fireball"); err == nil {
		t.Error("expected an already known error")
	}
	res := run(t, s, "skill fireball")
	if len(res.Lines) < 2 {
		t.Errorf("unexpected skill output: %v", res.Lines)
	}
}

func TestSkillNamesWithSpaces(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")

	run(t, s, "learn shield  bash")
	for _, cmd := range []string{"skill shield bash", "skill shield bash 12"} {
		res := run(t, s, cmd)
		if !strings.Contains(strings.Join(res.Lines, "\n"), "You use shield bash") {
			t.Errorf("%s: unexpected output %v", cmd, res.Lines)
		}
	}

	run(t, s, "learn fireball")
	res := run(t, s, "skill fireball 12")
	if !strings.Contains(strings.Join(res.Lines, "\n"), "(difficulty 12)") {
		t.Errorf("trailing number not read as difficulty: %v", res.Lines)
	}
}

func TestSessionIDsStayInSaveDir(t *testing.T) {
	s, _ := newService(t, nil, nil)
	for _, id := range []string{"../escape", "a/b", `a\b`, ".hidden"} {
		if _, err := s.Execute(context.Background(), "", "ada", Command{Name: CmdStart, Args: []string{id}}); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("start %q: error = %v, want %v", id, err, ErrInvalidSessionID)
		}
		if _, err := s.Execute(context.Background(), "", "ada", Command{Name: CmdLoad, Args: []string{id}}); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("load %q: error = %v, want %v", id, err, ErrInvalidSessionID)
		}
	}
}

func TestItemsAndEquipment(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")
	sess := sessionOf(t, s, "game")
	c := sess.Characters["ada"]
	origin, _ := sess.World.Room(models.Origin)
	origin.Items = models.Inventory{
		&models.Weapon{Name: "Sharp Axe", Damage: 9, Description: "damage 9", Level: 1},
		&models.Rune{Name: "Fire Rune", Type: "fire", Bonus: 3, Description: "adds 3 fire"},
		&models.Gold{Name: "40 gold", Amount: 40},
	}

	run(t, s, "take 0")
	run(t, s, "take 0")
	run(t, s, "take 0")
	if len(origin.Items) != 0 || len(c.Inventory) != 3 {
		t.Fatalf("room %v, bag %v", origin.Items.Labels(), c.Inventory.Labels())
	}
	if err := runErr(s, "take 0"); err == nil {
		t.Error("expected an error picking up from an empty room")
	}

	run(t, s, "use 2")
	if c.Money != 40 || len(c.Inventory) != 2 {
		t.Errorf("gold not pocketed: money %d, bag %v", c.Money, c.Inventory.Labels())
	}

	run(t, s, "equip 0")
	if old, ok := c.Inventory[len(c.Inventory)-1].(*models.Weapon); c.Weapon.Name != "Sharp Axe" || !ok || old.Name != "Starter Sword" {
		t.Errorf("equip failed: %+v", c.Weapon)
	}
	if err := runErr(s, "equip 0"); err == nil {
		t.Error("equipping a rune should fail")
	}

	run(t, s, "rune 0")
	if c.Weapon.Damage != 12 || len(c.Weapon.ExtraEffects) != 1 {
		t.Errorf("rune not applied: %+v", c.Weapon)
	}
}

func TestUpgradeCostsGold(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	run(t, s, "create Ada")
	c := sessionOf(t, s, "game").Characters["ada"]
	c.Weapon.Damage = 10

	c.Money = 15
	if err := runErr(s, "upgrade weapon 2"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("error = %v, want %v", err, ErrInsufficientFunds)
	}
	if c.Money != 15 || c.Weapon.UpgradeLevel != 0 {
		t.Error("a failed upgrade must not change anything")
	}

	c.Money = 500
	run(t, s, "upgrade weapon 3")
	if c.Weapon.Damage != 13 || c.Money != 470 {
		t.Errorf("damage %d money %d, want 13 and 470", c.Weapon.Damage, c.Money)
	}

	// Only the remaining levels are charged.
	c.Weapon.UpgradeLevel = s.cfg.MaxUpgradeLevel - 1
	run(t, s, "upgrade weapon 5")
	if c.Money != 460 || c.Weapon.UpgradeLevel != s.cfg.MaxUpgradeLevel {
		t.Errorf("money %d level %d", c.Money, c.Weapon.UpgradeLevel)
	}
	res := run(t, s, "upgrade weapon 1")
	if c.Money != 460 || !strings.Contains(res.Lines[0], "any further") {
		t.Errorf("capped upgrade should be free: money %d, %v", c.Money, res.Lines)
	}

	c.Inventory = models.Inventory{&models.Rune{Name: "Ice Rune", Type: "ice", Bonus: 5}}
	run(t, s, "upgrade rune 0 2")
	if r := c.Inventory[0].(*models.Rune); r.Bonus != 7 || c.Money != 440 {
		t.Errorf("rune bonus %d money %d, want 7 and 440", r.Bonus, c.Money)
	}
	if err := runErr(s, "upgrade rune 5 1"); err == nil {
		t.Error("expected an out-of-range error")
	}
	if err := runErr(s, "upgrade shield 1"); err == nil {
		t.Error("expected a usage error")
	}
}

func TestNarrate(t *testing.T) {
	n := &fakeNarrator{text: "Torchlight flickers over damp stone."}
	s, _ := newService(t, nil, n)
	run(t, s, "start")
	run(t, s, "create Ada")
	sess := sessionOf(t, s, "game")
	before := len(sess.Log)

	res := run(t, s, "narrate I look around")
	if len(res.Lines) != 1 || res.Lines[0] != n.text {
		t.Errorf("unexpected narration: %v", res.Lines)
	}
	if len(sess.Log) != before+1 || sess.Log[len(sess.Log)-1] != n.text {
		t.Errorf("narration should be appended to the log: %v", sess.Log)
	}
	scene := n.scenes[0]
	if scene.Coord != "0,0" || scene.Prompt != "I look around" || scene.System != s.cfg.LLMSystemPrompt {
		t.Errorf("unexpected scene: %+v", scene)
	}
	if len(scene.Log) != before {
		t.Errorf("scene log has %d lines, want %d", len(scene.Log), before)
	}
}

func TestNarrateLogWindow(t *testing.T) {
	n := &fakeNarrator{text: "ok"}
	s, _ := newService(t, nil, n)
	run(t, s, "start")
	run(t, s, "create Ada")
	sess := sessionOf(t, s, "game")
	for i := 0; i < 25; i++ {
		sess.Append("event")
	}
	run(t, s, "narrate go on")
	if got := len(n.scenes[0].Log); got != s.cfg.NarrativeLogWindow {
		t.Errorf("scene log has %d lines, want %d", got, s.cfg.NarrativeLogWindow)
	}
}

func TestNarrateFailureLeavesLog(t *testing.T) {
	s, logs := newService(t, nil, engine.Unavailable{})
	run(t, s, "start")
	run(t, s, "create Ada")
	sess := sessionOf(t, s, "game")
	before := len(sess.Log)

	res := run(t, s, "narrate hello")
	if len(res.Lines) != 1 || !strings.Contains(res.Lines[0], "narrator is silent") {
		t.Errorf("expected a substitute message, got %v", res.Lines)
	}
	if len(sess.Log) != before {
		t.Errorf("log changed after a failed narration: %v", sess.Log)
	}
	if !strings.Contains(logs.String(), "narration failed") {
		t.Errorf("expected the failure to be logged, got %q", logs.String())
	}
}

func TestConcurrentCommands(t *testing.T) {
	s, _ := newService(t, nil, nil)
	run(t, s, "start")
	for _, p := range []string{"ada", "bob"} {
		if _, err := s.Execute(context.Background(), "game", p, Parse("create")); err != nil {
			t.Fatalf("create %s: %v", p, err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			player := []string{"ada", "bob"}[i%2]
			for _, cmd := range []string{"look", "status", "battle", "rest", "cast fire"} {
				s.Execute(context.Background(), "game", player, Parse(cmd))
			}
		}(i)
	}
	wg.Wait()

	if got := len(sessionOf(t, s, "game").Players); got != 2 {
		t.Errorf("expected 2 players, got %d", got)
	}
}

func TestListSessions(t *testing.T) {
	s, _ := newService(t, nil, nil)
	res := run(t, s, "sessions")
	if res.Lines[0] != "No saved sessions." {
		t.Errorf("unexpected output: %v", res.Lines)
	}
	run(t, s, "start")
	res = run(t, s, "sessions")
	if len(res.Lines) != 2 || !strings.Contains(res.Lines[1], "* game") {
		t.Errorf("unexpected output: %v", res.Lines)
	}
}
