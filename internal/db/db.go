package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/graph"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// InstalledRecord is one row of the installed table
type InstalledRecord struct {
	Name        core.Package
	Position    int
	InstalledAt time.Time
	Backend     string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: open write connection: %w", core.ErrDatabase, err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("%w: open read connection: %w", core.ErrDatabase, err)
	}
	read.SetMaxOpenConns(10)
	read.SetMaxIdleConns(5)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %w", core.ErrDatabase, err)
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS dependencies (
    package TEXT NOT NULL,
    dependency TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (package, dependency)
);

CREATE INDEX IF NOT EXISTS idx_dependencies_position ON dependencies(position);
CREATE INDEX IF NOT EXISTS idx_dependencies_dependency ON dependencies(dependency);

CREATE TABLE IF NOT EXISTS installed (
    name TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    installed_at DATETIME NOT NULL,
    backend TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	_, err := db.write.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_migrations (version, description) VALUES (?, ?)",
		schemaVersion, "dependency graph snapshot tables")
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return nil
}

// SchemaVersion returns the highest applied migration
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := db.read.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("%w: query schema version: %w", core.ErrDatabase, err)
	}
	return int(version.Int64), nil
}

// SaveSnapshot replaces the stored graph with snap in a single transaction.
// Packages that stay installed keep their original installed_at and backend.
func (db *DB) SaveSnapshot(ctx context.Context, snap graph.Snapshot, backend string) error {
	if err := db.saveSnapshot(ctx, snap, backend); err != nil {
		return fmt.Errorf("%w: save snapshot: %w", core.ErrDatabase, err)
	}
	return nil
}

func (db *DB) saveSnapshot(ctx context.Context, snap graph.Snapshot, backend string) error {
	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	previous, err := installedRows(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM dependencies"); err != nil {
		return fmt.Errorf("clear dependencies: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM installed"); err != nil {
		return fmt.Errorf("clear installed: %w", err)
	}

	edgeStmt, err := tx.PrepareContext(ctx, "INSERT INTO dependencies (package, dependency, position) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, edge := range snap.Edges {
		if _, err := edgeStmt.ExecContext(ctx, string(edge.Package), string(edge.Dependency), i); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", edge.Package, edge.Dependency, err)
		}
	}

	installStmt, err := tx.PrepareContext(ctx, "INSERT INTO installed (name, position, installed_at, backend) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare installed insert: %w", err)
	}
	defer installStmt.Close()

	now := time.Now().UTC()
	for i, p := range snap.Installed {
		at, by := now, backend
		if rec, ok := previous[p]; ok {
			at, by = rec.InstalledAt, rec.Backend
		}
		if _, err := installStmt.ExecContext(ctx, string(p), i, at, by); err != nil {
			return fmt.Errorf("insert installed %s: %w", p, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func installedRows(ctx context.Context, tx *sql.Tx) (map[core.Package]InstalledRecord, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name, position, installed_at, backend FROM installed")
	if err != nil {
		return nil, fmt.Errorf("query installed: %w", err)
	}
	defer rows.Close()

	out := make(map[core.Package]InstalledRecord)
	for rows.Next() {
		rec, err := scanInstalled(rows)
		if err != nil {
			return nil, err
		}
		out[rec.Name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// LoadSnapshot reads the stored graph in stored order
func (db *DB) LoadSnapshot(ctx context.Context) (graph.Snapshot, error) {
	snap := graph.Snapshot{
		Edges:     make([]graph.Edge, 0),
		Installed: make([]core.Package, 0),
	}

	rows, err := db.read.QueryContext(ctx, "SELECT package, dependency FROM dependencies ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("%w: query dependencies: %w", core.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pkg, dep string
		if err := rows.Scan(&pkg, &dep); err != nil {
			return snap, fmt.Errorf("%w: scan dependency: %w", core.ErrDatabase, err)
		}
		snap.Edges = append(snap.Edges, graph.Edge{Package: core.Package(pkg), Dependency: core.Package(dep)})
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("%w: rows error: %w", core.ErrDatabase, err)
	}

	records, err := db.InstalledRecords(ctx)
	if err != nil {
		return snap, err
	}
	for _, rec := range records {
		snap.Installed = append(snap.Installed, rec.Name)
	}

	return snap, nil
}

// InstalledRecords returns the installed table in installation order
func (db *DB) InstalledRecords(ctx context.Context) ([]InstalledRecord, error) {
	rows, err := db.read.QueryContext(ctx, "SELECT name, position, installed_at, backend FROM installed ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%w: query installed: %w", core.ErrDatabase, err)
	}
	defer rows.Close()

	records := make([]InstalledRecord, 0)
	for rows.Next() {
		rec, err := scanInstalled(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrDatabase, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", core.ErrDatabase, err)
	}

	return records, nil
}

func scanInstalled(rows *sql.Rows) (InstalledRecord, error) {
	var rec InstalledRecord
	var name string
	if err := rows.Scan(&name, &rec.Position, &rec.InstalledAt, &rec.Backend); err != nil {
		return rec, fmt.Errorf("scan installed: %w", err)
	}
	rec.Name = core.Package(name)
	return rec, nil
}
