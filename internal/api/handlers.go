package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gighall/gighall/internal/app/billing"
	"github.com/gighall/gighall/internal/app/reporting"
	"github.com/gighall/gighall/internal/domain"
)

// ─── Contracts ──────────────────────────────────────────────────────────────

// handleGetContract returns a contract by ID for an owning caller.
// GET /contracts/{id}
func (s *Server) handleGetContract(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	contract, err := s.store.GetContract(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := billing.Authorize(caller, contract); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// handleListContracts returns the caller's non-terminated contracts.
// GET /contracts
func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	contracts, err := s.store.ListContractsForProfile(r.Context(), caller.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	writeJSON(w, http.StatusOK, contracts)
}

// ─── Jobs ───────────────────────────────────────────────────────────────────

// handleUnpaidJobs returns unpaid jobs on the caller's active contracts.
// GET /jobs/unpaid
func (s *Server) handleUnpaidJobs(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	jobs, err := s.store.ListUnpaidJobsForProfile(r.Context(), caller.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

// handlePayJob transfers the posted amount from the caller (as client)
// to the job's contractor.
// POST /jobs/{job_id}/pay  body: {"amount": 12.50}
func (s *Server) handlePayJob(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	jobID, err := strconv.ParseInt(chi.URLParam(r, "job_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.billing.PayJob(r.Context(), caller, jobID, amount); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment successful"})
}

// ─── Balances ───────────────────────────────────────────────────────────────

// handleDeposit deposits into the caller's own balance, subject to the
// obligation cap.
// POST /balances/deposit/{userId}  body: {"amount": 25}
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.billing.Deposit(r.Context(), caller, userID, amount); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deposit successful"})
}

// handleLedger returns the caller's balance audit trail, newest first.
// GET /balances/ledger
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	caller := callerProfile(r)

	entries, err := s.store.ListLedgerEntries(r.Context(), caller.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": caller.Balance.String(),
		"entries": entries,
	})
}

// ─── Admin Reports ──────────────────────────────────────────────────────────

// handleBestProfession returns the top-earning profession in a range.
// GET /admin/best-profession?start&end
func (s *Server) handleBestProfession(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	best, err := s.reports.BestProfession(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profession":   best.Profession,
		"total_earned": best.TotalEarned.String(),
	})
}

// handleBestClients returns the top-paying clients in a range.
// GET /admin/best-clients?start&end&limit
func (s *Server) handleBestClients(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := reporting.DefaultBestClientsLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		limit, err = strconv.Atoi(ls)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	clients, err := s.reports.BestClients(r.Context(), start, end, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type clientRow struct {
		ID       int64  `json:"id"`
		FullName string `json:"full_name"`
		Paid     string `json:"paid"`
	}
	out := make([]clientRow, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientRow{ID: c.ID, FullName: c.FullName, Paid: c.Paid.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

// ─── Request Parsing ────────────────────────────────────────────────────────

// decodeAmount reads {"amount": N} from the body and converts it to
// cents. Amounts carry at most two decimal places.
func decodeAmount(r *http.Request) (domain.Cents, error) {
	var body struct {
		Amount json.Number `json:"amount"`
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return 0, fmt.Errorf("invalid request body")
	}
	if body.Amount == "" {
		return 0, fmt.Errorf("amount is required")
	}
	amount, err := domain.ParseCents(body.Amount.String())
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

// dateRange parses the start/end query parameters. Accepts RFC3339 or
// plain dates; a plain end date covers the whole day.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end dates are required")
	}
	start, err := parseDate(startStr, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endStr, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
