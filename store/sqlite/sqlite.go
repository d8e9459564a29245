/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements schedule.Store and schedule.ClientWriter using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

INTERFACES IMPLEMENTED:
  schedule.Store:        scheduled-date persistence
  schedule.ClientWriter: client directory with rule configs

REPLACE-YEAR ATOMICITY:
  ReplaceYear runs DELETE + INSERTs inside one SQL transaction, so a
  concurrent reader sees either the old complete year or the new complete
  year, never a partial interleaving. Other years' rows are never touched.

KEY TABLES:
  clients:          directory records
  client_rules:     one JSON rule config per (client, activity)
  scheduled_dates:  positioned dates, UNIQUE(client, activity, year, position)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/schedules.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - schedule/store.go: interface definitions
  - schedule/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
)

// Store implements schedule.Store and schedule.ClientWriter using SQLite.
type Store struct {
	db      *sql.DB
	factory *factory.Factory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.New()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Client directory
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		client_type TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name);

	-- One rule config per (client, activity), stored as JSON
	CREATE TABLE IF NOT EXISTS client_rules (
		client_id TEXT NOT NULL,
		activity TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (client_id, activity),
		FOREIGN KEY (client_id) REFERENCES clients(id)
	);

	-- Scheduled dates: positions are dense per (client, activity, year)
	CREATE TABLE IF NOT EXISTS scheduled_dates (
		client_id TEXT NOT NULL,
		activity TEXT NOT NULL,
		year INTEGER NOT NULL,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		is_custom BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (client_id, activity, year, position),
		FOREIGN KEY (client_id) REFERENCES clients(id)
	);

	-- Hot path: monthly anomaly scans read by client+activity+date
	CREATE INDEX IF NOT EXISTS idx_dates_client_activity_date
		ON scheduled_dates(client_id, activity, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// GetDates returns a client's dates ascending. Empty activity matches all.
func (s *Store) GetDates(ctx context.Context, clientID schedule.ClientID, activity schedule.Activity) ([]schedule.ScheduledDate, error) {
	query := `SELECT client_id, activity, position, date, is_custom
	          FROM scheduled_dates WHERE client_id = ?`
	args := []any{string(clientID)}
	if activity != "" {
		query += ` AND activity = ?`
		args = append(args, string(activity))
	}
	query += ` ORDER BY date ASC, position ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var dates []schedule.ScheduledDate
	for rows.Next() {
		var (
			d       schedule.ScheduledDate
			rawDate string
		)
		if err := rows.Scan(&d.ClientID, &d.Activity, &d.Position, &rawDate, &d.IsCustom); err != nil {
			return nil, err
		}
		parsed, err := calendar.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt date for client %s: %w", clientID, err)
		}
		d.Date = parsed
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ReplaceYear swaps one year's rows inside a single transaction.
func (s *Store) ReplaceYear(ctx context.Context, clientID schedule.ClientID, activity schedule.Activity, year int, inputs []schedule.ScheduledDateInput) (int, error) {
	sorted := make([]schedule.ScheduledDateInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM scheduled_dates WHERE client_id = ? AND activity = ? AND year = ?`,
		string(clientID), string(activity), year)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, in := range sorted {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scheduled_dates (client_id, activity, year, position, date, is_custom, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(clientID), string(activity), year, i+1, in.Date.String(), in.IsCustom, now)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(sorted), nil
}

// =============================================================================
// CLIENT DIRECTORY
// =============================================================================

// CreateClient inserts a client and its rule configs. Missing IDs are minted.
func (s *Store) CreateClient(ctx context.Context, client schedule.Client) (*schedule.Client, error) {
	if client.ID == "" {
		client.ID = schedule.ClientID(uuid.NewString())
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO clients (id, name, country, client_type, region, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(client.ID), client.Name, client.Country, client.Type, client.Region, now)
	if err != nil {
		return nil, err
	}

	for activity, rule := range client.Rules {
		config, err := factory.EncodeRule(rule)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO client_rules (client_id, activity, config_json, created_at)
			 VALUES (?, ?, ?, ?)`,
			string(client.ID), string(activity), config, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClient returns one client with its rules, or a NotFoundError.
func (s *Store) GetClient(ctx context.Context, id schedule.ClientID) (*schedule.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country, client_type, region FROM clients WHERE id = ?`, string(id))

	var c schedule.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Country, &c.Type, &c.Region); err != nil {
		if err == sql.ErrNoRows {
			return nil, &schedule.NotFoundError{ClientID: id}
		}
		return nil, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}

	rules, err := s.loadRules(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Rules = rules
	return &c, nil
}

// ListClients returns clients matching the filter, ordered by name.
func (s *Store) ListClients(ctx context.Context, filter schedule.ClientFilter) ([]schedule.Client, error) {
	query := `SELECT id, name, country, client_type, region FROM clients WHERE 1=1`
	var args []any
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.Region != "" {
		query += ` AND region = ?`
		args = append(args, filter.Region)
	}
	if filter.Type != "" {
		query += ` AND client_type = ?`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var clients []schedule.Client
	for rows.Next() {
		var c schedule.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Type, &c.Region); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range clients {
		rules, err := s.loadRules(ctx, clients[i].ID)
		if err != nil {
			return nil, err
		}
		clients[i].Rules = rules
	}
	return clients, nil
}

func (s *Store) loadRules(ctx context.Context, id schedule.ClientID) (map[schedule.Activity]recurrence.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, config_json FROM client_rules WHERE client_id = ?`, string(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	rules := make(map[schedule.Activity]recurrence.Rule)
	for rows.Next() {
		var (
			activity string
			config   string
		)
		if err := rows.Scan(&activity, &config); err != nil {
			return nil, err
		}
		rule, err := s.factory.ParseRule(config)
		if err != nil {
			return nil, fmt.Errorf("client %s activity %s: %w", id, activity, err)
		}
		rules[schedule.Activity(activity)] = rule
	}
	return rules, rows.Err()
}
