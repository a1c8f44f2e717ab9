// Package sqlite implements the ledger store on SQLite.
// Persistence for profiles, contracts, jobs, and the balance audit ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gighall/gighall/internal/domain"
)

// DB wraps the SQLite connection and exposes typed ledger operations.
type DB struct {
	db *sql.DB
}

// Open creates (or opens) the database under dir and runs migrations.
// SQLite serializes writers; busy_timeout makes concurrent transactions
// wait for the lock instead of failing immediately.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "gighall.db")
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer connection keeps database/sql transactions from
	// deadlocking against our own pool.
	db.SetMaxOpenConns(1)

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			profession    TEXT NOT NULL DEFAULT '',
			type          TEXT NOT NULL CHECK (type IN ('client','contractor')),
			balance_cents INTEGER NOT NULL DEFAULT 0 CHECK (balance_cents >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS contracts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			terms         TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','in_progress','terminated')),
			client_id     INTEGER NOT NULL REFERENCES profiles(id),
			contractor_id INTEGER NOT NULL REFERENCES profiles(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_client ON contracts(client_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_contractor ON contracts(contractor_id, status)`,

		`CREATE TABLE IF NOT EXISTS jobs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			description  TEXT NOT NULL DEFAULT '',
			price_cents  INTEGER NOT NULL CHECK (price_cents > 0),
			paid         INTEGER NOT NULL DEFAULT 0,
			payment_date TEXT,
			contract_id  INTEGER NOT NULL REFERENCES contracts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_contract ON jobs(contract_id, paid)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_paid_date ON jobs(paid, payment_date)`,

		// Balance audit trail. A payment writes two rows (DEBIT client,
		// CREDIT contractor) sharing one transfer_id; a deposit one row.
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			transfer_id         TEXT NOT NULL,
			ts                  TEXT NOT NULL,
			type                TEXT NOT NULL CHECK (type IN ('JOB_PAYMENT','DEPOSIT')),
			entry               TEXT NOT NULL CHECK (entry IN ('DEBIT','CREDIT')),
			profile_id          INTEGER NOT NULL REFERENCES profiles(id),
			amount_cents        INTEGER NOT NULL CHECK (amount_cents > 0),
			job_id              INTEGER REFERENCES jobs(id),
			balance_after_cents INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_profile ON ledger_entries(profile_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_transfer ON ledger_entries(transfer_id)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Profile Operations ─────────────────────────────────────────────────────

// InsertProfile creates a profile and returns its ID.
func (db *DB) InsertProfile(ctx context.Context, p domain.Profile) (int64, error) {
	res, err := db.db.ExecContext(ctx, `
		INSERT INTO profiles (first_name, last_name, profession, type, balance_cents)
		VALUES (?, ?, ?, ?, ?)
	`, p.FirstName, p.LastName, p.Profession, string(p.Type), int64(p.Balance))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetProfile returns a profile by ID.
func (db *DB) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	return scanProfile(db.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, profession, type, balance_cents
		FROM profiles WHERE id = ?
	`, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var typ string
	var balance int64
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Profession, &typ, &balance)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Type = domain.ProfileType(typ)
	p.Balance = domain.Cents(balance)
	return &p, nil
}

// ─── Contract Operations ────────────────────────────────────────────────────

// InsertContract creates a contract and returns its ID.
func (db *DB) InsertContract(ctx context.Context, c domain.Contract) (int64, error) {
	res, err := db.db.ExecContext(ctx, `
		INSERT INTO contracts (terms, status, client_id, contractor_id)
		VALUES (?, ?, ?, ?)
	`, c.Terms, string(c.Status), c.ClientID, c.ContractorID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetContract returns a contract by ID.
func (db *DB) GetContract(ctx context.Context, id int64) (*domain.Contract, error) {
	var c domain.Contract
	var status string
	err := db.db.QueryRowContext(ctx, `
		SELECT id, terms, status, client_id, contractor_id
		FROM contracts WHERE id = ?
	`, id).Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Status = domain.ContractStatus(status)
	return &c, nil
}

// ListContractsForProfile returns the non-terminated contracts on which
// the profile appears as client or contractor, ordered by ID.
func (db *DB) ListContractsForProfile(ctx context.Context, profileID int64) ([]domain.Contract, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, terms, status, client_id, contractor_id
		FROM contracts
		WHERE (client_id = ? OR contractor_id = ?) AND status != 'terminated'
		ORDER BY id
	`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var c domain.Contract
		var status string
		if err := rows.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID); err != nil {
			return nil, err
		}
		c.Status = domain.ContractStatus(status)
		result = append(result, c)
	}
	return result, rows.Err()
}

// ─── Job Operations ─────────────────────────────────────────────────────────

// InsertJob creates a job and returns its ID.
func (db *DB) InsertJob(ctx context.Context, j domain.Job) (int64, error) {
	var paid int
	if j.Paid {
		paid = 1
	}
	var paymentDate *string
	if j.PaymentDate != nil {
		s := j.PaymentDate.UTC().Format(time.RFC3339Nano)
		paymentDate = &s
	}
	res, err := db.db.ExecContext(ctx, `
		INSERT INTO jobs (description, price_cents, paid, payment_date, contract_id)
		VALUES (?, ?, ?, ?, ?)
	`, j.Description, int64(j.Price), paid, paymentDate, j.ContractID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetJob returns a job by ID.
func (db *DB) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	return scanJob(db.db.QueryRowContext(ctx, `
		SELECT id, description, price_cents, paid, payment_date, contract_id
		FROM jobs WHERE id = ?
	`, id))
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var price int64
	var paid int
	var paymentDate sql.NullString
	err := row.Scan(&j.ID, &j.Description, &price, &paid, &paymentDate, &j.ContractID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	j.Price = domain.Cents(price)
	j.Paid = paid == 1
	if paymentDate.Valid {
		t, err := time.Parse(time.RFC3339Nano, paymentDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse payment_date: %w", err)
		}
		j.PaymentDate = &t
	}
	return &j, nil
}

// ListUnpaidJobsForProfile returns unpaid jobs on the profile's
// in_progress contracts, either role, ordered by job ID.
func (db *DB) ListUnpaidJobsForProfile(ctx context.Context, profileID int64) ([]domain.Job, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT j.id, j.description, j.price_cents, j.paid, j.payment_date, j.contract_id
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = 0
		  AND c.status = 'in_progress'
		  AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.id
	`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *j)
	}
	return result, rows.Err()
}

// ─── Ledger Entry Reads ─────────────────────────────────────────────────────

// ListLedgerEntries returns the profile's audit entries, newest first.
func (db *DB) ListLedgerEntries(ctx context.Context, profileID int64) ([]domain.LedgerEntry, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, transfer_id, ts, type, entry, profile_id, amount_cents, job_id, balance_after_cents
		FROM ledger_entries WHERE profile_id = ? ORDER BY id DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts, typ, entry string
		var amount, balanceAfter int64
		var jobID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.TransferID, &ts, &typ, &entry, &e.ProfileID, &amount, &jobID, &balanceAfter); err != nil {
			return nil, err
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse ledger ts: %w", err)
		}
		e.Type = domain.TransactionType(typ)
		e.EntryType = domain.EntryType(entry)
		e.Amount = domain.Cents(amount)
		e.BalanceAfter = domain.Cents(balanceAfter)
		if jobID.Valid {
			id := jobID.Int64
			e.JobID = &id
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
