package domain

import "time"

// ─── Ledger Types ───────────────────────────────────────────────────────────
// Every balance movement leaves an audit row. A job payment writes a
// DEBIT against the client and a CREDIT against the contractor under
// one transfer ID; a deposit writes a single CREDIT.

// EntryType represents the accounting side of a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// TransactionType represents the business reason for a balance movement.
type TransactionType string

const (
	TxJobPayment TransactionType = "JOB_PAYMENT"
	TxDeposit    TransactionType = "DEPOSIT"
)

// LedgerEntry is a single row in the double-entry audit ledger.
type LedgerEntry struct {
	ID           int64           `json:"id"`
	TransferID   string          `json:"transfer_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Type         TransactionType `json:"type"`
	EntryType    EntryType       `json:"entry_type"`
	ProfileID    int64           `json:"profile_id"`
	Amount       Cents           `json:"amount"`
	JobID        *int64          `json:"job_id,omitempty"`
	BalanceAfter Cents           `json:"balance_after"`
}
