package domain

import (
	"context"
	"time"
)

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define the boundary between the business services and
// the ledger store. Infrastructure implements them; the application
// layer depends on them.

// LedgerStore is the durable, transactional record-keeper for profiles,
// contracts, and jobs. Reads outside a transaction see committed state
// only; all writes go through a LedgerTx.
type LedgerStore interface {
	// GetProfile returns a profile by ID, or ErrNotFound.
	GetProfile(ctx context.Context, id int64) (*Profile, error)

	// GetContract returns a contract by ID, or ErrNotFound.
	GetContract(ctx context.Context, id int64) (*Contract, error)

	// ListContractsForProfile returns the non-terminated contracts on
	// which the profile is the client or the contractor.
	ListContractsForProfile(ctx context.Context, profileID int64) ([]Contract, error)

	// ListUnpaidJobsForProfile returns unpaid jobs on the profile's
	// in_progress contracts, either role.
	ListUnpaidJobsForProfile(ctx context.Context, profileID int64) ([]Job, error)

	// ListLedgerEntries returns the profile's audit entries, newest first.
	ListLedgerEntries(ctx context.Context, profileID int64) ([]LedgerEntry, error)

	// Begin opens one atomic unit of work. The caller must end it with
	// exactly one Commit or Rollback.
	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is a single atomic unit of work against the store. All reads
// inside the transaction are isolated from concurrent writers, so a
// balance read here is the balance the debit will apply to.
type LedgerTx interface {
	// GetJobWithContractAndParties loads a job together with its
	// contract and both parties in one consistent read. ErrNotFound if
	// no such job exists.
	GetJobWithContractAndParties(ctx context.Context, jobID int64) (*Job, *Contract, *Profile, *Profile, error)

	// GetProfile re-reads a profile inside the transaction.
	GetProfile(ctx context.Context, id int64) (*Profile, error)

	// SumUnpaidObligations sums price over unpaid jobs on the client's
	// in_progress contracts — all of them, not just one contract.
	SumUnpaidObligations(ctx context.Context, clientID int64) (Cents, error)

	// UpdateProfileBalance sets a profile's balance to newBalance.
	UpdateProfileBalance(ctx context.Context, profileID int64, newBalance Cents) error

	// MarkJobPaid flips the job to paid with the given payment time.
	MarkJobPaid(ctx context.Context, jobID int64, paidAt time.Time) error

	// InsertLedgerEntry appends an audit row.
	InsertLedgerEntry(ctx context.Context, e LedgerEntry) error

	Commit() error
	Rollback() error
}

// ReportStore provides the read-only projections over paid jobs.
// No consistency hazard: plain committed reads.
type ReportStore interface {
	// BestProfession returns the profession earning the most over paid
	// jobs in [start, end], or ErrNotFound when the range is empty.
	BestProfession(ctx context.Context, start, end time.Time) (*ProfessionEarnings, error)

	// BestClients returns the top clients by amount paid in [start, end],
	// descending, at most limit entries. ErrNotFound when empty.
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]ClientSpend, error)
}

// ProfessionEarnings is one row of the best-profession projection.
type ProfessionEarnings struct {
	Profession  string `json:"profession"`
	TotalEarned Cents  `json:"total_earned"`
}

// ClientSpend is one row of the best-clients projection.
type ClientSpend struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Paid     Cents  `json:"paid"`
}
