package source

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Postgres serves descriptors from the templates table. Only active rows are
// visible; the slug column is the template id.
type Postgres struct {
	DB *sql.DB
	// NewID generates row ids for Put. Defaults to uuid.New.
	NewID func() uuid.UUID
}

var (
	_ descriptor.Source = (*Postgres)(nil)
	_ descriptor.Lister = (*Postgres)(nil)
)

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db, NewID: uuid.New}
}

// OpenPostgres opens a pgx-backed *sql.DB and verifies connectivity.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("source: database url is empty")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("source: open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("source: ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations. A nil db is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("source: goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("source: migrate: %w", err)
	}
	return nil
}

// Fetch implements descriptor.Source.
func (p *Postgres) Fetch(ctx context.Context, id string) ([]byte, error) {
	const query = `SELECT schema FROM templates WHERE slug = $1 AND is_active = TRUE`

	var raw []byte
	err := p.DB.QueryRowContext(ctx, query, strings.TrimSpace(id)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source: postgres %q: %w", id, descriptor.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("source: postgres %q: %w", id, err)
	}
	return raw, nil
}

// List implements descriptor.Lister.
func (p *Postgres) List(ctx context.Context) ([]descriptor.Metadata, error) {
	const query = `SELECT slug, name, description, category FROM templates WHERE is_active = TRUE ORDER BY name, slug`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("source: postgres list: %w", err)
	}
	defer rows.Close()

	var out []descriptor.Metadata
	for rows.Next() {
		var meta descriptor.Metadata
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.Description, &meta.Category); err != nil {
			return nil, fmt.Errorf("source: postgres list: %w", err)
		}
		out = append(out, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source: postgres list: %w", err)
	}
	return out, nil
}

// Put validates raw and upserts it keyed by its metadata id. The row is
// (re)activated.
func (p *Postgres) Put(ctx context.Context, raw []byte) (string, error) {
	tpl, err := descriptor.Load(raw)
	if err != nil {
		return "", err
	}
	// Fetch and Deactivate look slugs up trimmed.
	tpl.Metadata.ID = strings.TrimSpace(tpl.Metadata.ID)
	// Stored as JSON regardless of the input encoding.
	payload, err := descriptor.MarshalJSON(tpl)
	if err != nil {
		return "", err
	}

	newID := p.NewID
	if newID == nil {
		newID = uuid.New
	}

	const query = `
INSERT INTO templates (id, slug, name, description, category, schema, is_active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (slug) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	category = EXCLUDED.category,
	schema = EXCLUDED.schema,
	is_active = TRUE,
	updated_at = NOW()`

	meta := tpl.Metadata
	if _, err := p.DB.ExecContext(ctx, query,
		newID().String(),
		meta.ID,
		meta.Name,
		meta.Description,
		meta.Category,
		payload,
	); err != nil {
		return "", fmt.Errorf("source: postgres put %q: %w", meta.ID, err)
	}
	return meta.ID, nil
}

// Deactivate hides a template without deleting its row.
func (p *Postgres) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE templates SET is_active = FALSE, updated_at = NOW() WHERE slug = $1`

	res, err := p.DB.ExecContext(ctx, query, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("source: postgres deactivate %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("source: postgres %q: %w", id, descriptor.ErrNotFound)
	}
	return nil
}
