package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("plan not found")

// Plan is a stored conversion. Model holds the emitted JSON document.
type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Walls       int             `json:"walls"`
	Diagnostics int             `json:"diagnostics"`
	CreatedAt   string          `json:"created_at"`
	Model       json.RawMessage `json:"model,omitempty"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the migration file.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create stores p, assigning a new ID when p.ID is empty.
func (r *Repository) Create(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Model) == 0 {
		return fmt.Errorf("create plan %s: empty model", p.ID)
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, walls, diagnostics, model)
        VALUES (?, ?, ?, ?, ?)
    `, p.ID, p.Name, p.Walls, p.Diagnostics, string(p.Model))
	if err != nil {
		return fmt.Errorf("create plan %s: %w", p.ID, err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT created_at FROM plans WHERE id = ?`, p.ID)
	if err := row.Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("read plan %s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Plan, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, walls, diagnostics, created_at, model
        FROM plans
        WHERE id = ?
    `, id)

	var p Plan
	var model string
	if err := row.Scan(&p.ID, &p.Name, &p.Walls, &p.Diagnostics, &p.CreatedAt, &model); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Model = json.RawMessage(model)
	return &p, nil
}

// List returns plan summaries, newest first, without their models.
func (r *Repository) List(ctx context.Context, limit int) ([]Plan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, walls, diagnostics, created_at
        FROM plans
        ORDER BY created_at DESC, id
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Walls, &p.Diagnostics, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
