// Package storage implements the persistent ledger, budget and user
// stores on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bookkeeper/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when registering an already-taken username.
	ErrUserExists = errors.New("username already registered")
)

// User is a stored account row.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser registers a new account. The password must already be hashed.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&existing)
	if err == nil {
		return 0, ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check username: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", id, "username", username)
	return id, nil
}

// GetUserByUsername fetches an account row, ErrNotFound if absent.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

// InsertTransaction appends a ledger entry and returns its identity.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (owner, category, amount_cents, note, date, tags)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Category, t.Amount.Cents, t.Note, t.Date.String(), t.Tags)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"owner", t.Owner,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())
	return id, nil
}

// GetTransaction fetches a single ledger entry by identity.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, category, amount_cents, note, date, tags
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// UpdateTransaction replaces category, amount, note, date and tags of an
// existing entry. Updating a missing identity is a no-op.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET category = ?, amount_cents = ?, note = ?, date = ?, tags = ?
		 WHERE id = ?`,
		t.Category, t.Amount.Cents, t.Note, t.Date.String(), t.Tags, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", t.ID, "category", t.Category, "amount_cents", t.Amount.Cents)
	return nil
}

// DeleteTransaction removes an entry permanently. Deleting a missing
// identity is a no-op, not an error.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "existed", affected > 0)
	return nil
}

// ListTransactions returns the full ledger of one owner, date ascending.
// Entries on the same date keep insertion order.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, amount_cents, note, date, tags
		 FROM transactions WHERE owner = ? ORDER BY date ASC, id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// GetBudgets returns the category limits of one owner.
func (r *SQLiteRepository) GetBudgets(ctx context.Context, owner string) (map[string]core.Money, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, limit_cents FROM budgets WHERE owner = ?`, owner)
	if err != nil {
		return nil, fmt.Errorf("get budgets: %w", err)
	}
	defer rows.Close()

	budgets := make(map[string]core.Money)
	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets[category] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpsertBudget sets the limit for an (owner, category) pair. The unique
// constraint plus ON CONFLICT makes the read-check-write atomic, so
// concurrent budget writes cannot produce duplicate rows.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (owner, category, limit_cents) VALUES (?, ?, ?)
		 ON CONFLICT(owner, category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.Owner, b.Category, b.Limit.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget %s/%s: %w", b.Owner, b.Category, err)
	}

	slog.InfoContext(ctx, "Budget set", "owner", b.Owner, "category", b.Category, "limit_cents", b.Limit.Cents)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date string
	if err := row.Scan(&t.ID, &t.Owner, &t.Category, &t.Amount.Cents, &t.Note, &date, &t.Tags); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d
	return t, nil
}
