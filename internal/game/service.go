// Package game runs player commands against sessions: it owns the session
// registry, serializes commands per session and persists every change.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tatianab/text-rpg/internal/combat"
	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/models"
	"github.com/tatianab/text-rpg/internal/store"
	"github.com/tatianab/text-rpg/internal/world"
)

var (
	ErrNoSession         = errors.New("no game session: use 'start' to begin or 'load' to resume")
	ErrSessionExists     = errors.New("a game session with that name already exists")
	ErrCharacterExists   = errors.New("you have already created a character")
	ErrNoCharacter       = world.ErrNoCharacter
	ErrInsufficientFunds = errors.New("not enough gold")
	ErrDefeated          = errors.New("you are too wounded to fight: rest or drink a potion first")
	ErrUnknownCommand    = errors.New("unknown command: type 'help' for a list")
	ErrInvalidSessionID  = errors.New("session names cannot contain path separators or start with a dot")
)

// UsageError reports a command given the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

func usage(u string) error {
	return &UsageError{Usage: u}
}

// Result is what a command produced.
type Result struct {
	SessionID string
	Lines     []string
	Status    Status
}

type slot struct {
	mu      sync.Mutex
	session *models.Session
}

// Service executes commands. It is safe for concurrent use; commands on the
// same session run one at a time.
type Service struct {
	cfg      *config.Game
	gen      *gen.Generator
	combat   *combat.Engine
	narrator engine.Narrator
	store    store.Store
	log      *log.Logger

	mu       sync.Mutex
	sessions map[string]*slot
}

func NewService(cfg *config.Game, g *gen.Generator, st store.Store, narrator engine.Narrator, logger *log.Logger) *Service {
	if narrator == nil {
		narrator = engine.Unavailable{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		cfg:      cfg,
		gen:      g,
		combat:   combat.New(cfg, g),
		narrator: narrator,
		store:    st,
		log:      logger,
		sessions: make(map[string]*slot),
	}
}

// Execute runs cmd for playerID in the session sessionID. start and load
// switch sessions; the returned Result names the session now in use.
func (s *Service) Execute(ctx context.Context, sessionID, playerID string, cmd Command) (Result, error) {
	switch cmd.Name {
	case "":
		return Result{SessionID: sessionID}, nil
	case CmdHelp:
		return Result{SessionID: sessionID, Lines: []string{helpText}}, nil
	case CmdSessions:
		return s.listSessions(sessionID)
	case CmdStart:
		id := sessionID
		if len(cmd.Args) > 0 {
			id = cmd.Args[0]
		}
		return s.Start(id, playerID)
	case CmdLoad:
		if len(cmd.Args) == 0 {
			return Result{SessionID: sessionID}, usage("load <name>")
		}
		return s.Load(cmd.Args[0], playerID)
	}

	h, ok := handlers[cmd.Name]
	if !ok {
		return Result{SessionID: sessionID}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}

	sl, err := s.slot(sessionID)
	if err != nil {
		return Result{SessionID: sessionID, Status: Status{Player: playerID}}, err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sess := sl.session

	var c *models.Character
	if h.needsCharacter {
		c, ok = sess.Characters[playerID]
		if !ok {
			return s.result(sess, playerID, nil), ErrNoCharacter
		}
	}

	lines, mutated, err := h.run(s, ctx, &turn{session: sess, playerID: playerID, character: c, cmd: cmd})
	if err != nil {
		return s.result(sess, playerID, nil), err
	}
	if mutated {
		s.persist(sess)
	}
	return s.result(sess, playerID, lines), nil
}

// Start begins a new session with only the origin room. An empty id gets a
// random one.
func (s *Service) Start(id, playerID string) (Result, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := checkSessionID(id); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return Result{SessionID: id}, fmt.Errorf("%w: %s (use 'status' to see it)", ErrSessionExists, id)
	}
	if _, err := s.store.Load(id); err == nil {
		return Result{SessionID: id}, fmt.Errorf("%w: %s (use 'load %s' to resume it)", ErrSessionExists, id, id)
	} else if !errors.Is(err, store.ErrNotFound) {
		return Result{SessionID: id}, err
	}

	sess := models.NewSession(id, world.New(s.gen))
	sess.AddPlayer(playerID)
	sess.Append("Game started!")
	s.sessions[id] = &slot{session: sess}
	s.persist(sess)
	s.log.Printf("started session %s", id)

	return s.result(sess, playerID, []string{
		fmt.Sprintf("New game session %q started! Welcome to an endless world.", id),
		"Use 'create <name>' to create your character.",
	}), nil
}

// Load brings a saved session into the registry.
func (s *Service) Load(id, playerID string) (Result, error) {
	sl, err := s.slot(id)
	if err != nil {
		return Result{SessionID: id}, err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	lines := []string{fmt.Sprintf("Session %q loaded.", id)}
	if c, ok := sl.session.Characters[playerID]; ok {
		lines = append(lines, fmt.Sprintf("Welcome back, %s.", c.Name))
		if room, ok := sl.session.World.Room(c.Position); ok {
			lines = append(lines, world.Describe(room))
		}
	} else {
		lines = append(lines, "Use 'create <name>' to create your character.")
	}
	return s.result(sl.session, playerID, lines), nil
}

// Status returns the UI snapshot for playerID without running a command.
func (s *Service) Status(sessionID, playerID string) Status {
	s.mu.Lock()
	sl, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return Status{Player: playerID}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return s.snapshot(sl.session, playerID)
}

// Close releases the narrator and the store.
func (s *Service) Close() error {
	return errors.Join(s.narrator.Close(), s.store.Close())
}

// slot returns the registered session, loading it from the store on first use.
func (s *Service) slot(id string) (*slot, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	if err := checkSessionID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.sessions[id]; ok {
		return sl, nil
	}

	sess, err := s.store.Load(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	sl := &slot{session: sess}
	s.sessions[id] = sl
	s.log.Printf("loaded session %s (%d rooms)", id, sess.World.Len())
	return sl, nil
}

// checkSessionID rejects ids that would escape the save directory of a
// file store.
func checkSessionID(id string) error {
	if strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

func (s *Service) listSessions(current string) (Result, error) {
	ids, err := s.store.List()
	if err != nil {
		return Result{SessionID: current}, err
	}
	if len(ids) == 0 {
		return Result{SessionID: current, Lines: []string{"No saved sessions."}}, nil
	}
	lines := []string{"Saved sessions:"}
	for _, id := range ids {
		marker := " "
		if id == current {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s %s", marker, id))
	}
	return Result{SessionID: current, Lines: lines}, nil
}

// persist saves sess. Failures are logged; the game carries on in memory.
func (s *Service) persist(sess *models.Session) {
	if err := s.store.Save(sess); err != nil {
		s.log.Printf("failed to save session %s: %v", sess.ID, err)
	}
}

func (s *Service) result(sess *models.Session, playerID string, lines []string) Result {
	return Result{SessionID: sess.ID, Lines: lines, Status: s.snapshot(sess, playerID)}
}
