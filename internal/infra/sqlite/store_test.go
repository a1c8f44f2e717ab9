package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gighall/gighall/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedPair inserts a client (balance 10.00), a contractor (balance 0),
// and a contract between them in the given status. Returns their IDs.
func seedPair(t *testing.T, db *DB, status domain.ContractStatus) (clientID, contractorID, contractID int64) {
	t.Helper()
	ctx := context.Background()

	clientID, err := db.InsertProfile(ctx, domain.Profile{
		FirstName: "Nora", LastName: "Vale", Type: domain.ProfileClient, Balance: 1000,
	})
	if err != nil {
		t.Fatalf("insert client: %v", err)
	}
	contractorID, err = db.InsertProfile(ctx, domain.Profile{
		FirstName: "Theo", LastName: "Marsh", Profession: "Plumber", Type: domain.ProfileContractor,
	})
	if err != nil {
		t.Fatalf("insert contractor: %v", err)
	}
	contractID, err = db.InsertContract(ctx, domain.Contract{
		Status: status, ClientID: clientID, ContractorID: contractorID,
	})
	if err != nil {
		t.Fatalf("insert contract: %v", err)
	}
	return clientID, contractorID, contractID
}

// ─── Profiles ───────────────────────────────────────────────────────────────

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	clientID, _, _ := seedPair(t, db, domain.ContractInProgress)

	p, err := db.GetProfile(context.Background(), clientID)
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if p.FirstName != "Nora" {
		t.Errorf("FirstName = %q, want Nora", p.FirstName)
	}
	if p.Type != domain.ProfileClient {
		t.Errorf("Type = %q, want client", p.Type)
	}
	if p.Balance != 1000 {
		t.Errorf("Balance = %d, want 1000", p.Balance)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetProfile(context.Background(), 999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ─── Contracts ──────────────────────────────────────────────────────────────

func TestGetContract_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetContract(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListContractsForProfile_ExcludesTerminated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, contractorID, activeID := seedPair(t, db, domain.ContractInProgress)

	if _, err := db.InsertContract(ctx, domain.Contract{
		Status: domain.ContractTerminated, ClientID: clientID, ContractorID: contractorID,
	}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{clientID, contractorID} {
		contracts, err := db.ListContractsForProfile(ctx, id)
		if err != nil {
			t.Fatalf("ListContractsForProfile(%d) error: %v", id, err)
		}
		if len(contracts) != 1 {
			t.Fatalf("got %d contracts for profile %d, want 1", len(contracts), id)
		}
		if contracts[0].ID != activeID {
			t.Errorf("contract ID = %d, want %d", contracts[0].ID, activeID)
		}
	}
}

// ─── Jobs ───────────────────────────────────────────────────────────────────

func TestListUnpaidJobsForProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, contractorID, contractID := seedPair(t, db, domain.ContractInProgress)

	unpaidID, err := db.InsertJob(ctx, domain.Job{Price: 500, ContractID: contractID})
	if err != nil {
		t.Fatal(err)
	}
	paidAt := time.Now()
	if _, err := db.InsertJob(ctx, domain.Job{Price: 300, Paid: true, PaymentDate: &paidAt, ContractID: contractID}); err != nil {
		t.Fatal(err)
	}

	// A job on a new (not in_progress) contract stays invisible.
	newContract, err := db.InsertContract(ctx, domain.Contract{
		Status: domain.ContractNew, ClientID: clientID, ContractorID: contractorID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertJob(ctx, domain.Job{Price: 700, ContractID: newContract}); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{clientID, contractorID} {
		jobs, err := db.ListUnpaidJobsForProfile(ctx, id)
		if err != nil {
			t.Fatalf("ListUnpaidJobsForProfile(%d) error: %v", id, err)
		}
		if len(jobs) != 1 {
			t.Fatalf("got %d jobs for profile %d, want 1", len(jobs), id)
		}
		if jobs[0].ID != unpaidID {
			t.Errorf("job ID = %d, want %d", jobs[0].ID, unpaidID)
		}
	}
}

// ─── Transactions ───────────────────────────────────────────────────────────

func TestTx_GetJobWithContractAndParties(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, contractorID, contractID := seedPair(t, db, domain.ContractInProgress)
	jobID, err := db.InsertJob(ctx, domain.Job{Description: "fix faucet", Price: 500, ContractID: contractID})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	defer tx.Rollback()

	job, contract, client, contractor, err := tx.GetJobWithContractAndParties(ctx, jobID)
	if err != nil {
		t.Fatalf("GetJobWithContractAndParties() error: %v", err)
	}
	if job.Price != 500 || job.Paid {
		t.Errorf("job = %+v", job)
	}
	if contract.ID != contractID || contract.Status != domain.ContractInProgress {
		t.Errorf("contract = %+v", contract)
	}
	if client.ID != clientID || client.Balance != 1000 {
		t.Errorf("client = %+v", client)
	}
	if contractor.ID != contractorID || contractor.Balance != 0 {
		t.Errorf("contractor = %+v", contractor)
	}
}

func TestTx_GetJobWithContractAndParties_NotFound(t *testing.T) {
	db := newTestDB(t)
	tx, err := db.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	_, _, _, _, err = tx.GetJobWithContractAndParties(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTx_RollbackLeavesStateUnchanged(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, _, _ := seedPair(t, db, domain.ContractInProgress)

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.UpdateProfileBalance(ctx, clientID, 1); err != nil {
		t.Fatalf("UpdateProfileBalance() error: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}

	p, err := db.GetProfile(ctx, clientID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Balance != 1000 {
		t.Errorf("balance after rollback = %d, want 1000", p.Balance)
	}
}

func TestTx_MarkJobPaid_RefusesRepay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, _, contractID := seedPair(t, db, domain.ContractInProgress)
	jobID, err := db.InsertJob(ctx, domain.Job{Price: 500, ContractID: contractID})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.MarkJobPaid(ctx, jobID, time.Now()); err != nil {
		t.Fatalf("first MarkJobPaid() error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	tx2, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx2.MarkJobPaid(ctx, jobID, time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second MarkJobPaid() = %v, want ErrNotFound", err)
	}
	tx2.Rollback()

	job, err := db.GetJob(ctx, jobID)
	if err != nil {
		t.Fatal(err)
	}
	if !job.Paid || job.PaymentDate == nil {
		t.Errorf("job = %+v, want paid with payment date", job)
	}
}

func TestTx_SumUnpaidObligations_AllInProgressContracts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, contractorID, firstContract := seedPair(t, db, domain.ContractInProgress)

	// Second in_progress contract for the same client.
	secondContract, err := db.InsertContract(ctx, domain.Contract{
		Status: domain.ContractInProgress, ClientID: clientID, ContractorID: contractorID,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Terminated contract: its jobs never count.
	deadContract, err := db.InsertContract(ctx, domain.Contract{
		Status: domain.ContractTerminated, ClientID: clientID, ContractorID: contractorID,
	})
	if err != nil {
		t.Fatal(err)
	}

	paidAt := time.Now()
	for _, j := range []domain.Job{
		{Price: 4000, ContractID: firstContract},
		{Price: 6000, ContractID: secondContract},
		{Price: 9999, ContractID: deadContract},
		{Price: 1234, Paid: true, PaymentDate: &paidAt, ContractID: firstContract},
	} {
		if _, err := db.InsertJob(ctx, j); err != nil {
			t.Fatal(err)
		}
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	total, err := tx.SumUnpaidObligations(ctx, clientID)
	if err != nil {
		t.Fatalf("SumUnpaidObligations() error: %v", err)
	}
	if total != 10000 {
		t.Errorf("total = %d, want 10000", total)
	}
}

func TestTx_InsertAndListLedgerEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clientID, _, _ := seedPair(t, db, domain.ContractInProgress)

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	entry := domain.LedgerEntry{
		TransferID:   "t-1",
		Timestamp:    time.Now(),
		Type:         domain.TxDeposit,
		EntryType:    domain.EntryCredit,
		ProfileID:    clientID,
		Amount:       250,
		BalanceAfter: 1250,
	}
	if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
		t.Fatalf("InsertLedgerEntry() error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	entries, err := db.ListLedgerEntries(ctx, clientID)
	if err != nil {
		t.Fatalf("ListLedgerEntries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.TransferID != "t-1" || e.Type != domain.TxDeposit || e.EntryType != domain.EntryCredit {
		t.Errorf("entry = %+v", e)
	}
	if e.Amount != 250 || e.BalanceAfter != 1250 {
		t.Errorf("amounts = %d / %d, want 250 / 1250", e.Amount, e.BalanceAfter)
	}
	if e.JobID != nil {
		t.Errorf("JobID = %v, want nil for deposit", e.JobID)
	}
}
