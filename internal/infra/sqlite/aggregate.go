package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gighall/gighall/internal/domain"
)

// ─── Reporting Aggregates ───────────────────────────────────────────────────
// Read-only grouped sums over paid jobs. No transaction needed: these
// are projections of committed state.

// BestProfession returns the profession that earned the most over paid
// jobs with payment_date in [start, end]. Dates go through datetime()
// so stored values with mixed fractional precision compare correctly.
func (db *DB) BestProfession(ctx context.Context, start, end time.Time) (*domain.ProfessionEarnings, error) {
	var out domain.ProfessionEarnings
	var total int64
	err := db.db.QueryRowContext(ctx, `
		SELECT p.profession, SUM(j.price_cents) AS total_earned
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = 1 AND datetime(j.payment_date) >= datetime(?) AND datetime(j.payment_date) <= datetime(?)
		GROUP BY p.profession
		ORDER BY total_earned DESC
		LIMIT 1
	`, start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano)).Scan(&out.Profession, &total)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.TotalEarned = domain.Cents(total)
	return &out, nil
}

// BestClients returns the top clients by amount paid in [start, end],
// descending, ties broken by ascending profile ID.
func (db *DB) BestClients(ctx context.Context, start, end time.Time, limit int) ([]domain.ClientSpend, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT p.id, p.first_name || ' ' || p.last_name AS full_name, SUM(j.price_cents) AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = 1 AND datetime(j.payment_date) >= datetime(?) AND datetime(j.payment_date) <= datetime(?)
		GROUP BY p.id
		ORDER BY paid DESC, p.id ASC
		LIMIT ?
	`, start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientSpend
	for rows.Next() {
		var c domain.ClientSpend
		var paid int64
		if err := rows.Scan(&c.ID, &c.FullName, &paid); err != nil {
			return nil, err
		}
		c.Paid = domain.Cents(paid)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, domain.ErrNotFound
	}
	return result, nil
}
