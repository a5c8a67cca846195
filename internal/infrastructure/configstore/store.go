package configstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petfit/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS harmful_ingredients (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL UNIQUE,
	is_active  INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS allergen_keywords (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	allergen_code TEXT    NOT NULL,
	keyword       TEXT    NOT NULL,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (allergen_code, keyword)
);
`

// Store reads the admin-managed scoring lists from a SQLite database
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite file at path and checks it is reachable
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the config tables when they do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate config tables: %w", err)
	}
	return nil
}

// HarmfulIngredients returns the active harmful ingredient names in insertion order
func (s *Store) HarmfulIngredients(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM harmful_ingredients WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}
	return names, nil
}

// AllergenKeywords returns active keywords grouped by allergen code
func (s *Store) AllergenKeywords(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT allergen_code, keyword FROM allergen_keywords
		 WHERE is_active = 1 ORDER BY allergen_code, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}
	defer rows.Close()

	keywords := make(map[string][]string)
	for rows.Next() {
		var code, keyword string
		if err := rows.Scan(&code, &keyword); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
		}
		keywords[code] = append(keywords[code], keyword)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}
	return keywords, nil
}

// AddHarmfulIngredient inserts or reactivates a harmful ingredient
func (s *Store) AddHarmfulIngredient(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO harmful_ingredients (name, is_active) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET is_active = 1`, name)
	return err
}

// AddAllergenKeyword inserts or reactivates a keyword for an allergen code
func (s *Store) AddAllergenKeyword(ctx context.Context, code, keyword string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allergen_keywords (allergen_code, keyword, is_active) VALUES (?, ?, 1)
		ON CONFLICT(allergen_code, keyword) DO UPDATE SET is_active = 1`, code, keyword)
	return err
}

// DeactivateHarmfulIngredient hides a harmful ingredient without deleting its row
func (s *Store) DeactivateHarmfulIngredient(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE harmful_ingredients SET is_active = 0 WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

// Seed loads the given lists inside one transaction. Existing rows are reactivated.
func (s *Store) Seed(ctx context.Context, harmful []string, keywords map[string][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range harmful {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO harmful_ingredients (name, is_active) VALUES (?, 1)
			ON CONFLICT(name) DO UPDATE SET is_active = 1`, name); err != nil {
			return fmt.Errorf("seed harmful ingredient %q: %w", name, err)
		}
	}
	for code, list := range keywords {
		for _, kw := range list {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO allergen_keywords (allergen_code, keyword, is_active) VALUES (?, ?, 1)
				ON CONFLICT(allergen_code, keyword) DO UPDATE SET is_active = 1`, code, kw); err != nil {
				return fmt.Errorf("seed allergen keyword %s/%q: %w", code, kw, err)
			}
		}
	}
	return tx.Commit()
}

// SeedIfEmpty loads the given lists into tables that have never held a row and reports
// whether anything was written. Tables with rows, active or not, are left alone.
func (s *Store) SeedIfEmpty(ctx context.Context, harmful []string, keywords map[string][]string) (bool, error) {
	harmfulRows, err := s.countRows(ctx, "harmful_ingredients")
	if err != nil {
		return false, err
	}
	keywordRows, err := s.countRows(ctx, "allergen_keywords")
	if err != nil {
		return false, err
	}

	if harmfulRows > 0 {
		harmful = nil
	}
	if keywordRows > 0 {
		keywords = nil
	}
	if len(harmful) == 0 && len(keywords) == 0 {
		return false, nil
	}
	if err := s.Seed(ctx, harmful, keywords); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) countRows(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count %s: %v", domain.ErrConfigSourceFailure, table, err)
	}
	return n, nil
}
