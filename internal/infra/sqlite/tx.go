package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gighall/gighall/internal/domain"
)

// ─── Transactions ───────────────────────────────────────────────────────────
// One atomic unit of work per payment or deposit. SQLite gives a single
// writer at a time, so reads inside the transaction see the state the
// writes will apply to — the balance re-check before a debit is sound.

// Begin opens a transaction. The caller must Commit or Rollback.
func (db *DB) Begin(ctx context.Context) (domain.LedgerTx, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrTxFailure, err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is a single transaction against the ledger store.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction. On failure the transaction is rolled
// back by the driver; the error is surfaced, never retried here.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTxFailure, err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after a failed Commit.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("%w: rollback: %v", domain.ErrTxFailure, err)
	}
	return nil
}

// GetJobWithContractAndParties loads the job, its contract, and both
// parties in one consistent read inside the transaction.
func (t *Tx) GetJobWithContractAndParties(ctx context.Context, jobID int64) (*domain.Job, *domain.Contract, *domain.Profile, *domain.Profile, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT
			j.id, j.description, j.price_cents, j.paid, j.payment_date, j.contract_id,
			c.id, c.terms, c.status, c.client_id, c.contractor_id,
			cl.id, cl.first_name, cl.last_name, cl.profession, cl.type, cl.balance_cents,
			co.id, co.first_name, co.last_name, co.profession, co.type, co.balance_cents
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles cl ON cl.id = c.client_id
		JOIN profiles co ON co.id = c.contractor_id
		WHERE j.id = ?
	`, jobID)

	var (
		j            domain.Job
		price        int64
		paid         int
		paymentDate  sql.NullString
		c            domain.Contract
		status       string
		client       domain.Profile
		clType       string
		clBalance    int64
		contractor   domain.Profile
		coType       string
		coBalance    int64
	)
	err := row.Scan(
		&j.ID, &j.Description, &price, &paid, &paymentDate, &j.ContractID,
		&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID,
		&client.ID, &client.FirstName, &client.LastName, &client.Profession, &clType, &clBalance,
		&contractor.ID, &contractor.FirstName, &contractor.LastName, &contractor.Profession, &coType, &coBalance,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	j.Price = domain.Cents(price)
	j.Paid = paid == 1
	if paymentDate.Valid {
		pt, err := time.Parse(time.RFC3339Nano, paymentDate.String)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("parse payment_date: %w", err)
		}
		j.PaymentDate = &pt
	}
	c.Status = domain.ContractStatus(status)
	client.Type = domain.ProfileType(clType)
	client.Balance = domain.Cents(clBalance)
	contractor.Type = domain.ProfileType(coType)
	contractor.Balance = domain.Cents(coBalance)
	return &j, &c, &client, &contractor, nil
}

// GetProfile re-reads a profile inside the transaction.
func (t *Tx) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	return scanProfile(t.tx.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, profession, type, balance_cents
		FROM profiles WHERE id = ?
	`, id))
}

// SumUnpaidObligations sums price over unpaid jobs across ALL of the
// client's in_progress contracts.
func (t *Tx) SumUnpaidObligations(ctx context.Context, clientID int64) (domain.Cents, error) {
	var total int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(j.price_cents), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = 0 AND c.status = 'in_progress' AND c.client_id = ?
	`, clientID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return domain.Cents(total), nil
}

// UpdateProfileBalance sets a profile's balance. The schema's CHECK
// constraint rejects a negative result even if a caller skipped the
// sufficiency check.
func (t *Tx) UpdateProfileBalance(ctx context.Context, profileID int64, newBalance domain.Cents) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE profiles SET balance_cents = ? WHERE id = ?
	`, int64(newBalance), profileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkJobPaid flips the job to paid. Refuses to re-pay: the WHERE
// clause only matches an unpaid row.
func (t *Tx) MarkJobPaid(ctx context.Context, jobID int64, paidAt time.Time) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE jobs SET paid = 1, payment_date = ? WHERE id = ? AND paid = 0
	`, paidAt.UTC().Format(time.RFC3339Nano), jobID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertLedgerEntry appends an audit row.
func (t *Tx) InsertLedgerEntry(ctx context.Context, e domain.LedgerEntry) error {
	var jobID *int64
	if e.JobID != nil {
		jobID = e.JobID
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (transfer_id, ts, type, entry, profile_id, amount_cents, job_id, balance_after_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.TransferID, e.Timestamp.UTC().Format(time.RFC3339Nano), string(e.Type), string(e.EntryType),
		e.ProfileID, int64(e.Amount), jobID, int64(e.BalanceAfter))
	return err
}
