package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"shade-match/internal/finish"
	"shade-match/internal/region"
	"shade-match/pkg/colorutil"
)

// Store reads the product catalog from PostgreSQL.
type Store struct {
	conn *pgx.Conn
}

// NewStore connects to the database and ensures the products table exists.
func NewStore(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			brand TEXT NOT NULL,
			name TEXT NOT NULL,
			shade_name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			finish TEXT NOT NULL DEFAULT '',
			color_lab DOUBLE PRECISION[] NOT NULL,
			color_hex TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// LoadAll reads every product in insertion order. color_lab holds standard
// Lab as a three element array.
func (s *Store) LoadAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, brand, name, shade_name, category, finish, color_lab, color_hex, price, image_url
		FROM products
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			category, texture string
			lab               []float64
		)
		if err := rows.Scan(&e.ID, &e.Brand, &e.Product, &e.Shade, &category, &texture,
			&lab, &e.Hex, &e.Price, &e.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if e.Category, err = region.Parse(category); err != nil {
			return nil, fmt.Errorf("product %s: %w", e.ID, err)
		}
		if e.Finish, err = finish.Parse(texture); err != nil {
			return nil, fmt.Errorf("product %s: %w", e.ID, err)
		}
		if len(lab) != 3 {
			return nil, fmt.Errorf("product %s: color_lab has %d values, want 3", e.ID, len(lab))
		}
		e.Color = colorutil.Lab{L: lab[0], A: lab[1], B: lab[2]}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import upserts entries in one transaction and returns how many were
// written. Entries without an ID are keyed by brand, product and shade.
func (s *Store) Import(ctx context.Context, entries []Entry) (int, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
		id := e.ID
		if id == "" {
			id = strings.ToLower(strings.Join([]string{e.Brand, e.Product, e.Shade}, "/"))
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, brand, name, shade_name, category, finish, color_lab, color_hex, price, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				brand = EXCLUDED.brand, name = EXCLUDED.name, shade_name = EXCLUDED.shade_name,
				category = EXCLUDED.category, finish = EXCLUDED.finish, color_lab = EXCLUDED.color_lab,
				color_hex = EXCLUDED.color_hex, price = EXCLUDED.price, image_url = EXCLUDED.image_url
		`, id, e.Brand, e.Product, e.Shade, e.Category.String(), e.Finish.String(),
			[]float64{e.Color.L, e.Color.A, e.Color.B}, e.Hex, e.Price, e.ImageURL)
		if err != nil {
			return 0, fmt.Errorf("failed to import %s: %w", id, err)
		}
	}
	return len(entries), tx.Commit(ctx)
}
