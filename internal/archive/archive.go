package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/hashdrift/internal/results"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - result_sets table
const currentSchemaVersion = 1

// ErrNotFound is returned by Load for an unknown entry ID.
var ErrNotFound = errors.New("archive: entry not found")

// Entry describes one stored ResultSet.
type Entry struct {
	ID          string
	Fingerprint string
	Identity    results.SystemIdentity
	Results     int
	Seq         int64
}

// Archive is a SQLite-backed history of ResultSets.
type Archive struct {
	db    *sql.DB
	ids   IDGenerator
	clock *Clock
	codec *payloadCodec
}

// Option configures an Archive.
type Option func(*Archive)

// WithIDGenerator overrides the UUIDv7 entry ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Archive) {
		a.ids = g
	}
}

// Open creates or opens an archive database at path.
// Pragmas and schema migrations are applied on every open.
func Open(ctx context.Context, path string, opts ...Option) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	var last int64
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM result_sets").Scan(&last); err != nil {
		db.Close()
		return nil, fmt.Errorf("read last seq: %w", err)
	}

	codec, err := newPayloadCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &Archive{db: db, ids: UUIDv7Generator{}, clock: NewClockAt(last), codec: codec}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// OpenExisting is like Open but fails instead of creating a database when
// path does not exist. Commands that only read the archive use it.
func OpenExisting(ctx context.Context, path string, opts ...Option) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return Open(ctx, path, opts...)
}

// Close releases the database and compressors. Closing twice is a no-op.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	a.codec.close()
	err := a.db.Close()
	a.db = nil
	return err
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("archive schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Save stores rs. A ResultSet whose fingerprint is already archived is not
// stored again; the existing entry is returned with stored == false.
func (a *Archive) Save(ctx context.Context, rs *results.ResultSet) (entry Entry, stored bool, err error) {
	fp, err := results.Fingerprint(rs)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save result set: %w", err)
	}
	doc, err := results.Marshal(rs)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save result set: %w", err)
	}

	entry = Entry{
		ID:          a.ids.Generate(),
		Fingerprint: fp.String(),
		Identity:    rs.Identity(),
		Results:     rs.Len(),
		Seq:         a.clock.Next(),
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO result_sets
		(id, fingerprint, os, runtime_version, result_count, payload, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		entry.ID,
		entry.Fingerprint,
		entry.Identity.Platform,
		entry.Identity.RuntimeVersion,
		entry.Results,
		a.codec.compress(doc),
		entry.Seq,
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("save result set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Entry{}, false, fmt.Errorf("save result set: %w", err)
	}
	if n == 1 {
		return entry, true, nil
	}

	existing, err := a.scanEntry(a.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, os, runtime_version, result_count, seq
		FROM result_sets WHERE fingerprint = ?
	`, entry.Fingerprint))
	if err != nil {
		return Entry{}, false, fmt.Errorf("save result set: %w", err)
	}
	return existing, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (a *Archive) scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Fingerprint, &e.Identity.Platform, &e.Identity.RuntimeVersion, &e.Results, &e.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns every entry ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) for an empty archive.
func (a *Archive) List(ctx context.Context) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, fingerprint, os, runtime_version, result_count, seq
		FROM result_sets
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := a.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Load returns the ResultSet stored under id.
func (a *Archive) Load(ctx context.Context, id string) (*results.ResultSet, error) {
	var payload []byte
	err := a.db.QueryRowContext(ctx, "SELECT payload FROM result_sets WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return a.decode(id, payload)
}

// LoadAll returns every stored ResultSet in List order.
func (a *Archive) LoadAll(ctx context.Context) ([]*results.ResultSet, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, payload FROM result_sets
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	var sets []*results.ResultSet
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan payload: %w", err)
		}
		rs, err := a.decode(id, payload)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payloads: %w", err)
	}
	return sets, nil
}

func (a *Archive) decode(id string, payload []byte) (*results.ResultSet, error) {
	doc, err := a.codec.decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	rs, err := results.Unmarshal(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return rs, nil
}
