package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tatianab/text-rpg/internal/models"
)

// SQL drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore keeps sessions in a single table of YAML documents. The same
// statements run on SQLite and PostgreSQL.
type SQLStore struct {
	db *sql.DB
}

// Open connects to the database and creates the sessions table if needed.
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time.
		db.SetMaxOpenConns(1)
	}

	store := &SQLStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		players TEXT NOT NULL,
		log TEXT NOT NULL,
		characters TEXT NOT NULL,
		world TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`)
	return err
}

func (s *SQLStore) Save(session *models.Session) error {
	parts, err := session.EncodeParts()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
	INSERT INTO sessions (id, players, log, characters, world, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET
		players = excluded.players,
		log = excluded.log,
		characters = excluded.characters,
		world = excluded.world,
		updated_at = excluded.updated_at`,
		session.ID,
		string(parts[models.PartPlayers]),
		string(parts[models.PartLog]),
		string(parts[models.PartCharacters]),
		string(parts[models.PartWorld]),
		time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SQLStore) Load(id string) (*models.Session, error) {
	var players, log, characters, world string
	err := s.db.QueryRow(
		`SELECT players, log, characters, world FROM sessions WHERE id = $1`, id,
	).Scan(&players, &log, &characters, &world)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	return models.DecodeParts(id, map[string][]byte{
		models.PartPlayers:    []byte(players),
		models.PartLog:        []byte(log),
		models.PartCharacters: []byte(characters),
		models.PartWorld:      []byte(world),
	})
}

func (s *SQLStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
