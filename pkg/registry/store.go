package registry

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// Store provides SQLite persistence for spec snapshots. Each snapshot
// is stored twice: as relational rows for querying, and as a
// deterministic CBOR blob for exact round-tripping. The blob is the
// source of truth on read.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new store with the given database path.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS spec_version (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		variant TEXT NOT NULL,
		commit_ref TEXT,
		created_at DATETIME,
		snapshot_cbor BLOB NOT NULL,
		UNIQUE(version, variant)
	);

	CREATE TABLE IF NOT EXISTS ip_block (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		spec_id TEXT NOT NULL REFERENCES spec_version(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		base_addr INTEGER NOT NULL,
		ord INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reg (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		block_id INTEGER NOT NULL REFERENCES ip_block(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		byte_offset INTEGER NOT NULL,
		width INTEGER NOT NULL,
		ord INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS field (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reg_id INTEGER NOT NULL REFERENCES reg(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		lsb INTEGER NOT NULL,
		msb INTEGER NOT NULL,
		access TEXT NOT NULL,
		reset INTEGER NOT NULL,
		ord INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enum_value (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		field_id INTEGER NOT NULL REFERENCES field(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		value INTEGER NOT NULL,
		ord INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS constraint_def (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		spec_id TEXT NOT NULL REFERENCES spec_version(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		scope TEXT NOT NULL,
		match_kind INTEGER NOT NULL,
		match_pattern TEXT,
		match_attr TEXT,
		match_value TEXT,
		rule TEXT NOT NULL,
		severity TEXT NOT NULL,
		ord INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_spec_version_key ON spec_version(version, variant);
	CREATE INDEX IF NOT EXISTS idx_ip_block_spec_id ON ip_block(spec_id);
	CREATE INDEX IF NOT EXISTS idx_reg_block_id ON reg(block_id);
	CREATE INDEX IF NOT EXISTS idx_field_reg_id ON field(reg_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a snapshot, replacing any existing row set for the same
// (version, variant) in one transaction. It returns the ingest id of
// the new spec_version row.
func (s *Store) Put(snap *model.SpecSnapshot) (string, error) {
	blob, err := EncodeSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	key := snap.Key()
	ingestID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// Replace semantics: cascading delete removes the old row set.
	if _, err := tx.Exec(`DELETE FROM spec_version WHERE version = ? AND variant = ?`,
		key.Version, key.Variant); err != nil {
		return "", err
	}

	if _, err := tx.Exec(`
		INSERT INTO spec_version (id, version, variant, commit_ref, created_at, snapshot_cbor)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ingestID, key.Version, key.Variant, snap.Commit, snap.CreatedAt, blob); err != nil {
		return "", err
	}

	if err := insertBlocks(tx, ingestID, snap.Blocks); err != nil {
		return "", err
	}
	if err := insertConstraints(tx, ingestID, snap.Constraints); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return ingestID, nil
}

func insertBlocks(tx *sql.Tx, specID string, blocks []model.IpBlock) error {
	for bi, blk := range blocks {
		res, err := tx.Exec(`
			INSERT INTO ip_block (spec_id, name, base_addr, ord)
			VALUES (?, ?, ?, ?)
		`, specID, blk.Name, int64(blk.BaseAddr), bi)
		if err != nil {
			return err
		}
		blockID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for ri, reg := range blk.Registers {
			res, err := tx.Exec(`
				INSERT INTO reg (block_id, name, byte_offset, width, ord)
				VALUES (?, ?, ?, ?, ?)
			`, blockID, reg.Name, int64(reg.Offset), reg.Width, ri)
			if err != nil {
				return err
			}
			regID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for fi, f := range reg.Fields {
				res, err := tx.Exec(`
					INSERT INTO field (reg_id, name, lsb, msb, access, reset, ord)
					VALUES (?, ?, ?, ?, ?, ?, ?)
				`, regID, f.Name, f.Lsb, f.Msb, string(f.Access), int64(f.Reset), fi)
				if err != nil {
					return err
				}
				fieldID, err := res.LastInsertId()
				if err != nil {
					return err
				}

				for ei, ev := range f.Enum {
					if _, err := tx.Exec(`
						INSERT INTO enum_value (field_id, name, value, ord)
						VALUES (?, ?, ?, ?)
					`, fieldID, ev.Name, int64(ev.Value), ei); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func insertConstraints(tx *sql.Tx, specID string, constraints []model.Constraint) error {
	for ci, c := range constraints {
		if _, err := tx.Exec(`
			INSERT INTO constraint_def (spec_id, name, scope, match_kind,
				match_pattern, match_attr, match_value, rule, severity, ord)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, specID, c.Name, string(c.Scope), int(c.Match.Kind),
			c.Match.Pattern, c.Match.Attr, c.Match.Value,
			c.Rule, string(c.Severity), ci); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the snapshot for (version, variant), decoded from
// its stored blob. An empty variant means the base variant.
func (s *Store) Snapshot(specVersion, variant string) (*model.SpecSnapshot, error) {
	if variant == "" {
		variant = model.DefaultVariant
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	err := s.db.QueryRow(`
		SELECT snapshot_cbor FROM spec_version WHERE version = ? AND variant = ?
	`, specVersion, variant).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(blob)
}

// Keys returns all stored keys ordered by semantic version, then
// variant name.
func (s *Store) Keys() ([]model.SnapshotKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT version, variant FROM spec_version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.SnapshotKey
	for rows.Next() {
		var k model.SnapshotKey
		if err := rows.Scan(&k.Version, &k.Variant); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortKeys(keys)
	return keys, nil
}

// IngestID returns the ingest id of the stored (version, variant) row.
func (s *Store) IngestID(specVersion, variant string) (string, error) {
	if variant == "" {
		variant = model.DefaultVariant
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRow(`
		SELECT id FROM spec_version WHERE version = ? AND variant = ?
	`, specVersion, variant).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
