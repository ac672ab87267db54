// Package sqlite stores scenes in a SQLite database, one row per object,
// action, fcurve, keyframe and sample.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

// Store is a scene.Store backed by a SQLite file.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	lastLoad *time.Time
	lastSave *time.Time
}

var _ scene.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures its schema.
// A "sqlite://" prefix is accepted and stripped.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// Writes are serialized anyway and a single connection keeps pragmas in effect.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.IOError("open", path, err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS actions (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS objects (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL UNIQUE,
		animated INTEGER NOT NULL DEFAULT 0,
		action   TEXT REFERENCES actions(name) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS fcurves (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		action_id    INTEGER NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
		data_path    TEXT NOT NULL,
		array_index  INTEGER NOT NULL,
		group_name   TEXT NOT NULL DEFAULT '',
		sampled      INTEGER NOT NULL DEFAULT 0,
		sample_start INTEGER NOT NULL DEFAULT 0,
		CONSTRAINT uq_fcurve_key UNIQUE (action_id, data_path, array_index)
	);

	CREATE TABLE IF NOT EXISTS keyframes (
		fcurve_id         INTEGER NOT NULL REFERENCES fcurves(id) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		co_x              REAL NOT NULL,
		co_y              REAL NOT NULL,
		handle_left_x     REAL NOT NULL,
		handle_left_y     REAL NOT NULL,
		handle_left_type  TEXT NOT NULL,
		handle_right_x    REAL NOT NULL,
		handle_right_y    REAL NOT NULL,
		handle_right_type TEXT NOT NULL,
		interpolation     TEXT NOT NULL,
		easing            TEXT NOT NULL,
		amplitude         REAL NOT NULL,
		back              REAL NOT NULL,
		period            REAL NOT NULL,
		type              TEXT NOT NULL,
		PRIMARY KEY (fcurve_id, position)
	);

	CREATE TABLE IF NOT EXISTS samples (
		fcurve_id INTEGER NOT NULL REFERENCES fcurves(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		value     REAL NOT NULL,
		PRIMARY KEY (fcurve_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_fcurves_action ON fcurves (action_id);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Load implements scene.Store.
func (s *Store) Load(ctx context.Context) (*scene.Scene, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning read: %w", err)
	}
	defer tx.Rollback()

	var snap scene.Snapshot
	actions, err := loadActions(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		channels, err := loadChannels(ctx, tx, a.id)
		if err != nil {
			return nil, err
		}
		snap.Actions = append(snap.Actions, scene.ActionSnapshot{Name: a.name, Channels: channels})
	}
	if snap.Objects, err = loadObjects(ctx, tx); err != nil {
		return nil, err
	}

	sc, err := scene.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("invalid scene in %s: %w", s.path, err)
	}

	s.touch(&s.lastLoad)
	s.logger.Debug("scene loaded", "path", s.path, "objects", len(snap.Objects), "actions", len(snap.Actions))
	return sc, nil
}

type actionRow struct {
	id   int64
	name string
}

func loadActions(ctx context.Context, tx *sql.Tx) ([]actionRow, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM actions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var out []actionRow
	for rows.Next() {
		var a actionRow
		if err := rows.Scan(&a.id, &a.name); err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadChannels(ctx context.Context, tx *sql.Tx, actionID int64) ([]scene.ChannelSnapshot, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, data_path, array_index, group_name, sampled, sample_start
		FROM fcurves WHERE action_id = ? ORDER BY id`, actionID)
	if err != nil {
		return nil, fmt.Errorf("querying fcurves: %w", err)
	}

	var ids []int64
	var channels []scene.ChannelSnapshot
	for rows.Next() {
		var (
			id int64
			ch scene.ChannelSnapshot
		)
		if err := rows.Scan(&id, &ch.DataPath, &ch.ArrayIndex, &ch.Group, &ch.Sampled, &ch.SampleStart); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning fcurve: %w", err)
		}
		ids = append(ids, id)
		channels = append(channels, ch)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading fcurves: %w", err)
	}

	for i, id := range ids {
		if channels[i].Sampled {
			if channels[i].Samples, err = loadSamples(ctx, tx, id); err != nil {
				return nil, err
			}
			continue
		}
		if channels[i].Keyframes, err = loadKeyframes(ctx, tx, id); err != nil {
			return nil, err
		}
	}
	return channels, nil
}

func loadKeyframes(ctx context.Context, tx *sql.Tx, fcurveID int64) ([]core.ControlPoint, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT co_x, co_y, handle_left_x, handle_left_y, handle_left_type,
		       handle_right_x, handle_right_y, handle_right_type,
		       interpolation, easing, amplitude, back, period, type
		FROM keyframes WHERE fcurve_id = ? ORDER BY position`, fcurveID)
	if err != nil {
		return nil, fmt.Errorf("querying keyframes: %w", err)
	}
	defer rows.Close()

	var points []core.ControlPoint
	for rows.Next() {
		var p core.ControlPoint
		if err := rows.Scan(
			&p.Co[0], &p.Co[1],
			&p.HandleLeft[0], &p.HandleLeft[1], &p.HandleLeftType,
			&p.HandleRight[0], &p.HandleRight[1], &p.HandleRightType,
			&p.Interpolation, &p.Easing, &p.Amplitude, &p.Back, &p.Period, &p.Type,
		); err != nil {
			return nil, fmt.Errorf("scanning keyframe: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func loadSamples(ctx context.Context, tx *sql.Tx, fcurveID int64) ([]float64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT value FROM samples WHERE fcurve_id = ? ORDER BY position`, fcurveID)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func loadObjects(ctx context.Context, tx *sql.Tx) ([]scene.ObjectSnapshot, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name, animated, action FROM objects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var objects []scene.ObjectSnapshot
	for rows.Next() {
		var (
			o      scene.ObjectSnapshot
			action sql.NullString
		)
		if err := rows.Scan(&o.Name, &o.Animated, &action); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		o.Action = action.String
		objects = append(objects, o)
	}
	return objects, rows.Err()
}

// Save implements scene.Store. The stored scene is replaced in one transaction.
func (s *Store) Save(ctx context.Context, sc *scene.Scene) (err error) {
	snap := sc.Snapshot()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM objects`, `DELETE FROM actions`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing scene: %w", err)
		}
	}

	for _, a := range snap.Actions {
		if err = saveAction(ctx, tx, a); err != nil {
			return err
		}
	}
	for _, o := range snap.Objects {
		var action any
		if o.Action != "" {
			action = o.Action
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO objects (name, animated, action) VALUES (?, ?, ?)`,
			o.Name, o.Animated, action); err != nil {
			return fmt.Errorf("inserting object %q: %w", o.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing scene: %w", err)
	}

	s.touch(&s.lastSave)
	s.logger.Debug("scene saved", "path", s.path, "objects", len(snap.Objects), "actions", len(snap.Actions))
	return nil
}

func saveAction(ctx context.Context, tx *sql.Tx, a scene.ActionSnapshot) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO actions (name) VALUES (?)`, a.Name)
	if err != nil {
		return fmt.Errorf("inserting action %q: %w", a.Name, err)
	}
	actionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading action id: %w", err)
	}

	for _, ch := range a.Channels {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO fcurves (action_id, data_path, array_index, group_name, sampled, sample_start)
			VALUES (?, ?, ?, ?, ?, ?)`,
			actionID, ch.DataPath, ch.ArrayIndex, ch.Group, ch.Sampled, ch.SampleStart)
		if err != nil {
			return fmt.Errorf("inserting fcurve %s[%d]: %w", ch.DataPath, ch.ArrayIndex, err)
		}
		fcurveID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading fcurve id: %w", err)
		}

		for i, v := range ch.Samples {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO samples (fcurve_id, position, value) VALUES (?, ?, ?)`,
				fcurveID, i, v); err != nil {
				return fmt.Errorf("inserting sample: %w", err)
			}
		}
		for i, p := range ch.Keyframes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO keyframes (
					fcurve_id, position, co_x, co_y,
					handle_left_x, handle_left_y, handle_left_type,
					handle_right_x, handle_right_y, handle_right_type,
					interpolation, easing, amplitude, back, period, type
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				fcurveID, i, p.Co[0], p.Co[1],
				p.HandleLeft[0], p.HandleLeft[1], string(p.HandleLeftType),
				p.HandleRight[0], p.HandleRight[1], string(p.HandleRightType),
				string(p.Interpolation), string(p.Easing), p.Amplitude, p.Back, p.Period, string(p.Type),
			); err != nil {
				return fmt.Errorf("inserting keyframe: %w", err)
			}
		}
	}
	return nil
}

func (s *Store) touch(field **time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	*field = &now
}

// StoreState exposes the database path and its last activity.
type StoreState struct {
	Path     string     `json:"path"`
	LastLoad *time.Time `json:"last_load,omitempty"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Path: s.path, LastLoad: s.lastLoad, LastSave: s.lastSave}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite_store"
}

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
