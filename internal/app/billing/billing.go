// Package billing implements the balance-transfer core: paying a job
// moves money from the client to the contractor in one atomic unit of
// work, and deposits are capped by the client's outstanding obligations.
//
// Every operation:
//  1. Opens one transaction against the ledger store
//  2. Runs all validations against state read inside that transaction
//  3. Applies the writes and commits, or rolls back leaving no trace
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gighall/gighall/internal/domain"
	"github.com/gighall/gighall/internal/infra/observability"
)

// DepositCapPct is the deposit policy constant: a client may deposit at
// most this percentage of their unpaid obligations on active contracts.
const DepositCapPct = 25

// Service executes payments and deposits against the ledger store.
type Service struct {
	store domain.LedgerStore
	now   func() time.Time
}

// New creates a billing service.
func New(store domain.LedgerStore) *Service {
	return &Service{store: store, now: time.Now}
}

// SetClock overrides the payment timestamp source. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// ─── Payment Processor ──────────────────────────────────────────────────────

// PayJob transfers amount from the job's client to its contractor and
// marks the job paid, all in one transaction.
//
// The amount is the caller's, not job.Price: a client may pay more or
// less than the listed price. Validation order: existence and contract
// activity, then caller role, then funds — all before any write.
func (s *Service) PayJob(ctx context.Context, caller *domain.Profile, jobID int64, amount domain.Cents) error {
	start := time.Now()
	err := s.payJob(ctx, caller, jobID, amount)
	observability.PaymentsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err == nil {
		observability.PaymentVolumeCents.Add(float64(amount))
		observability.PaymentDuration.Observe(time.Since(start).Seconds())
	}
	return err
}

func (s *Service) payJob(ctx context.Context, caller *domain.Profile, jobID int64, amount domain.Cents) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	job, contract, client, contractor, err := tx.GetJobWithContractAndParties(ctx, jobID)
	if err != nil {
		return err
	}

	// A job on a non-active contract is not payable, and a paid job is
	// never re-paid. Both read as "nothing payable here".
	if contract.Status != domain.ContractInProgress || job.Paid {
		return domain.ErrNotFound
	}

	// Only the client side may initiate payment.
	if caller.ID != contract.ClientID {
		return domain.ErrAccessDenied
	}

	// Balance was read inside this transaction, so the check below is
	// the check the debit commits under.
	if client.Balance < amount {
		return domain.ErrInsufficientFunds
	}

	paidAt := s.now()
	if err := tx.UpdateProfileBalance(ctx, client.ID, client.Balance-amount); err != nil {
		return err
	}
	if err := tx.UpdateProfileBalance(ctx, contractor.ID, contractor.Balance+amount); err != nil {
		return err
	}
	if err := tx.MarkJobPaid(ctx, job.ID, paidAt); err != nil {
		return err
	}

	transferID := uuid.NewString()
	debit := domain.LedgerEntry{
		TransferID:   transferID,
		Timestamp:    paidAt,
		Type:         domain.TxJobPayment,
		EntryType:    domain.EntryDebit,
		ProfileID:    client.ID,
		Amount:       amount,
		JobID:        &job.ID,
		BalanceAfter: client.Balance - amount,
	}
	credit := domain.LedgerEntry{
		TransferID:   transferID,
		Timestamp:    paidAt,
		Type:         domain.TxJobPayment,
		EntryType:    domain.EntryCredit,
		ProfileID:    contractor.ID,
		Amount:       amount,
		JobID:        &job.ID,
		BalanceAfter: contractor.Balance + amount,
	}
	if err := tx.InsertLedgerEntry(ctx, debit); err != nil {
		return err
	}
	if err := tx.InsertLedgerEntry(ctx, credit); err != nil {
		return err
	}

	return tx.Commit()
}

// ─── Deposit Limiter ────────────────────────────────────────────────────────

// Deposit increases the target profile's balance by amount, capped at
// DepositCapPct of the client's unpaid job obligations across all
// in_progress contracts. Deposits are self-service and client-only.
func (s *Service) Deposit(ctx context.Context, caller *domain.Profile, targetProfileID int64, amount domain.Cents) error {
	err := s.deposit(ctx, caller, targetProfileID, amount)
	observability.DepositsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err == nil {
		observability.DepositVolumeCents.Add(float64(amount))
	}
	return err
}

func (s *Service) deposit(ctx context.Context, caller *domain.Profile, targetProfileID int64, amount domain.Cents) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	if caller.ID != targetProfileID || caller.Type != domain.ProfileClient {
		return domain.ErrAccessDenied
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	totalUnpaid, err := tx.SumUnpaidObligations(ctx, targetProfileID)
	if err != nil {
		return err
	}
	maxDeposit := totalUnpaid * DepositCapPct / 100
	if amount > maxDeposit {
		return &domain.LimitExceededError{Requested: amount, MaxDeposit: maxDeposit}
	}

	target, err := tx.GetProfile(ctx, targetProfileID)
	if err != nil {
		return err
	}
	if err := tx.UpdateProfileBalance(ctx, target.ID, target.Balance+amount); err != nil {
		return err
	}
	entry := domain.LedgerEntry{
		TransferID:   uuid.NewString(),
		Timestamp:    s.now(),
		Type:         domain.TxDeposit,
		EntryType:    domain.EntryCredit,
		ProfileID:    target.ID,
		Amount:       amount,
		BalanceAfter: target.Balance + amount,
	}
	if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// ─── Authorization Guard ────────────────────────────────────────────────────

// Authorize decides whether the caller may read the contract: allowed
// iff the caller is the client or the contractor on it. Denial is
// distinct from not-found; the contract exists here by construction.
func Authorize(caller *domain.Profile, contract *domain.Contract) error {
	if !contract.Involves(caller.ID) {
		return domain.ErrAccessDenied
	}
	return nil
}

func outcomeLabel(err error) string {
	var limitErr *domain.LimitExceededError
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		return observability.OutcomeAccessDenied
	case errors.Is(err, domain.ErrInsufficientFunds):
		return observability.OutcomeInsufficientFunds
	case errors.As(err, &limitErr):
		return observability.OutcomeLimitExceeded
	default:
		return observability.OutcomeTxFailure
	}
}
