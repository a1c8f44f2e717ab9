// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ─── Money ──────────────────────────────────────────────────────────────────

// Cents is a monetary amount in integer minor units (cents).
// All balance arithmetic is integer-only; floating point never touches money.
type Cents int64

// String formats the amount as currency units, e.g. 1250 → "12.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseCents converts a decimal currency string ("12.5", "12.50", "12")
// into Cents. More than two fractional digits is rejected.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Cents(total), nil
}

// ─── Profile ────────────────────────────────────────────────────────────────

// ProfileType distinguishes the two sides of the marketplace.
type ProfileType string

const (
	ProfileClient     ProfileType = "client"
	ProfileContractor ProfileType = "contractor"
)

// Profile is a client or contractor account with a monetary balance.
// Balance is never negative; debits are checked inside the same
// transaction that applies them.
type Profile struct {
	ID         int64       `json:"id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Profession string      `json:"profession"`
	Type       ProfileType `json:"type"`
	Balance    Cents       `json:"balance"`
}

// FullName joins first and last name for display and reporting.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ─── Contract ───────────────────────────────────────────────────────────────

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractNew        ContractStatus = "new"
	ContractInProgress ContractStatus = "in_progress"
	ContractTerminated ContractStatus = "terminated"
)

// Contract binds exactly one client and one contractor.
type Contract struct {
	ID           int64          `json:"id"`
	Terms        string         `json:"terms"`
	Status       ContractStatus `json:"status"`
	ClientID     int64          `json:"client_id"`
	ContractorID int64          `json:"contractor_id"`
}

// Involves reports whether the given profile is a party to the contract.
func (c Contract) Involves(profileID int64) bool {
	return c.ClientID == profileID || c.ContractorID == profileID
}

// ─── Job ────────────────────────────────────────────────────────────────────

// Job is a unit of billable work under a contract, paid at most once.
type Job struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Price       Cents      `json:"price"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	ContractID  int64      `json:"contract_id"`
}
