package mockd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lanfinitas-studio/internal/apitypes"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("mockd: not found")

const schema = `
CREATE TABLE IF NOT EXISTS identities (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL UNIQUE,
	password     TEXT NOT NULL,
	display_name TEXT NOT NULL,
	role         TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS delegations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	assignee_id TEXT NOT NULL REFERENCES identities(id),
	status      TEXT NOT NULL,
	reward      REAL NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	identity_id TEXT NOT NULL REFERENCES identities(id),
	kind        TEXT NOT NULL,
	amount      REAL NOT NULL,
	memo        TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	preview_url TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
`

// Store wraps the SQLite database behind the mock backend.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path, applies the usual
// pragmas, and ensures the schema exists. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mockd: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("mockd: open db: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("mockd: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("mockd: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateIdentity inserts a new account and returns it.
func (s *Store) CreateIdentity(email, password, displayName, role string) (apitypes.Identity, error) {
	id := apitypes.Identity{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO identities (id, email, password, display_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.ID, id.Email, password, id.DisplayName, id.Role, id.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return apitypes.Identity{}, fmt.Errorf("mockd: create identity: %w", err)
	}
	return id, nil
}

// Authenticate checks email/password and returns the matching identity.
func (s *Store) Authenticate(email, password string) (apitypes.Identity, error) {
	row := s.db.QueryRow(
		`SELECT id, email, display_name, role, created_at
		 FROM identities WHERE email = ? AND password = ?`, email, password)
	return scanIdentity(row)
}

// Identity looks an account up by ID.
func (s *Store) Identity(id string) (apitypes.Identity, error) {
	row := s.db.QueryRow(
		`SELECT id, email, display_name, role, created_at
		 FROM identities WHERE id = ?`, id)
	return scanIdentity(row)
}

func scanIdentity(row *sql.Row) (apitypes.Identity, error) {
	var id apitypes.Identity
	var created string
	err := row.Scan(&id.ID, &id.Email, &id.DisplayName, &id.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return apitypes.Identity{}, ErrNotFound
	}
	if err != nil {
		return apitypes.Identity{}, fmt.Errorf("mockd: scan identity: %w", err)
	}
	id.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return id, nil
}

// CreateDelegation inserts a new pending delegation.
func (s *Store) CreateDelegation(title, description, assigneeID string, reward float64) (apitypes.Delegation, error) {
	now := time.Now().UTC()
	d := apitypes.Delegation{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		Status:      apitypes.DelegationPending,
		Reward:      reward,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.Exec(
		`INSERT INTO delegations (id, title, description, assignee_id, status, reward, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Description, d.AssigneeID, d.Status, d.Reward,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return apitypes.Delegation{}, fmt.Errorf("mockd: create delegation: %w", err)
	}
	return d, nil
}

// Delegations lists delegations assigned to one identity, newest first.
func (s *Store) Delegations(assigneeID string) ([]apitypes.Delegation, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, assignee_id, status, reward, created_at, updated_at
		 FROM delegations WHERE assignee_id = ? ORDER BY created_at DESC`, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("mockd: list delegations: %w", err)
	}
	defer rows.Close()

	out := []apitypes.Delegation{}
	for rows.Next() {
		var d apitypes.Delegation
		var created, updated string
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.AssigneeID,
			&d.Status, &d.Reward, &created, &updated); err != nil {
			return nil, fmt.Errorf("mockd: scan delegation: %w", err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDelegationStatus moves a delegation to a new status. Completing a
// delegation credits its reward to the assignee's wallet.
func (s *Store) UpdateDelegationStatus(id, status string) (apitypes.Delegation, error) {
	switch status {
	case apitypes.DelegationPending, apitypes.DelegationAccepted,
		apitypes.DelegationCompleted, apitypes.DelegationRevoked:
	default:
		return apitypes.Delegation{}, fmt.Errorf("mockd: unknown status %q", status)
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		`UPDATE delegations SET status = ?, updated_at = ? WHERE id = ?`,
		status, now.Format(time.RFC3339Nano), id)
	if err != nil {
		return apitypes.Delegation{}, fmt.Errorf("mockd: update delegation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apitypes.Delegation{}, ErrNotFound
	}

	row := s.db.QueryRow(
		`SELECT id, title, description, assignee_id, status, reward, created_at, updated_at
		 FROM delegations WHERE id = ?`, id)
	var d apitypes.Delegation
	var created, updated string
	if err := row.Scan(&d.ID, &d.Title, &d.Description, &d.AssigneeID,
		&d.Status, &d.Reward, &created, &updated); err != nil {
		return apitypes.Delegation{}, fmt.Errorf("mockd: reload delegation: %w", err)
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)

	if status == apitypes.DelegationCompleted && d.Reward > 0 {
		if _, err := s.AddTransaction(d.AssigneeID, apitypes.TransactionCredit, d.Reward,
			"delegation "+d.ID+" completed"); err != nil {
			return apitypes.Delegation{}, err
		}
	}
	return d, nil
}

// AddTransaction appends a wallet ledger entry.
func (s *Store) AddTransaction(identityID, kind string, amount float64, memo string) (apitypes.Transaction, error) {
	if kind != apitypes.TransactionCredit && kind != apitypes.TransactionDebit {
		return apitypes.Transaction{}, fmt.Errorf("mockd: unknown transaction kind %q", kind)
	}
	if amount <= 0 {
		return apitypes.Transaction{}, fmt.Errorf("mockd: non-positive amount %v", amount)
	}

	tx := apitypes.Transaction{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Kind:       kind,
		Amount:     amount,
		Memo:       memo,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO transactions (id, identity_id, kind, amount, memo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.IdentityID, tx.Kind, tx.Amount, tx.Memo, tx.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return apitypes.Transaction{}, fmt.Errorf("mockd: add transaction: %w", err)
	}
	return tx, nil
}

// Balance sums credits minus debits for one identity.
func (s *Store) Balance(identityID string) (apitypes.WalletBalance, error) {
	row := s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE kind WHEN 'credit' THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE identity_id = ?`, identityID)

	b := apitypes.WalletBalance{IdentityID: identityID, Currency: "USD"}
	if err := row.Scan(&b.Balance); err != nil {
		return apitypes.WalletBalance{}, fmt.Errorf("mockd: balance: %w", err)
	}
	return b, nil
}

// Transactions lists the ledger for one identity, newest first.
func (s *Store) Transactions(identityID string) ([]apitypes.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, identity_id, kind, amount, memo, created_at
		 FROM transactions WHERE identity_id = ? ORDER BY created_at DESC`, identityID)
	if err != nil {
		return nil, fmt.Errorf("mockd: list transactions: %w", err)
	}
	defer rows.Close()

	out := []apitypes.Transaction{}
	for rows.Next() {
		var tx apitypes.Transaction
		var created string
		if err := rows.Scan(&tx.ID, &tx.IdentityID, &tx.Kind, &tx.Amount, &tx.Memo, &created); err != nil {
			return nil, fmt.Errorf("mockd: scan transaction: %w", err)
		}
		tx.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// UpsertTemplate inserts or replaces a template row.
func (s *Store) UpsertTemplate(t apitypes.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO templates (id, name, category, description, preview_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category = excluded.category,
		   description = excluded.description,
		   preview_url = excluded.preview_url`,
		t.ID, t.Name, t.Category, t.Description, t.PreviewURL, t.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("mockd: upsert template: %w", err)
	}
	return nil
}

// Templates lists all templates ordered by name.
func (s *Store) Templates() ([]apitypes.Template, error) {
	rows, err := s.db.Query(
		`SELECT id, name, category, description, preview_url, created_at
		 FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("mockd: list templates: %w", err)
	}
	defer rows.Close()

	out := []apitypes.Template{}
	for rows.Next() {
		var t apitypes.Template
		var created string
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.PreviewURL, &created); err != nil {
			return nil, fmt.Errorf("mockd: scan template: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Template looks a template up by ID.
func (s *Store) Template(id string) (apitypes.Template, error) {
	row := s.db.QueryRow(
		`SELECT id, name, category, description, preview_url, created_at
		 FROM templates WHERE id = ?`, id)

	var t apitypes.Template
	var created string
	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.PreviewURL, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return apitypes.Template{}, ErrNotFound
	}
	if err != nil {
		return apitypes.Template{}, fmt.Errorf("mockd: scan template: %w", err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return t, nil
}
