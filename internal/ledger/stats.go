// Package ledger implements the local state and synchronization core:
// the entity store, the mutation API with its balance invariant, the
// balance engine, and the pull-merge reconciliation against the remote
// store of record.
package ledger

import (
	"time"

	"github.com/momai-ledger/momai/internal/domain"
)

// ─── Balance Engine ─────────────────────────────────────────────────────────
// Pure derivations over the transaction log. These are the reference
// definitions the incremental totals in the store must agree with.

// Totals holds the derived balance for one customer.
type Totals struct {
	TotalSales float64
	TotalPaid  float64
	Due        float64
}

// CustomerTotals sums SALE amounts into TotalSales and PAYMENT amounts
// into TotalPaid. An empty log yields all zeros; ordering is irrelevant.
func CustomerTotals(transactions []domain.Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TxSale:
			t.TotalSales += tx.Amount
		case domain.TxPayment:
			t.TotalPaid += tx.Amount
		}
	}
	t.Due = t.TotalSales - t.TotalPaid
	return t
}

// AggregateStats computes global totals plus time-windowed sums over the
// full transaction set. Windows: daily from local midnight of now, weekly
// from now minus 7 days, monthly from the first of the current calendar
// month. Boundary instants are inclusive.
func AggregateStats(transactions []domain.Transaction, now time.Time) domain.BusinessStats {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats domain.BusinessStats
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TxSale:
			stats.TotalSales += tx.Amount
			if !tx.Date.Before(dayStart) {
				stats.DailySales += tx.Amount
			}
			if !tx.Date.Before(weekStart) {
				stats.WeeklySales += tx.Amount
			}
			if !tx.Date.Before(monthStart) {
				stats.MonthlySales += tx.Amount
			}
		case domain.TxPayment:
			stats.TotalPaid += tx.Amount
			if !tx.Date.Before(dayStart) {
				stats.DailyPayments += tx.Amount
			}
			if !tx.Date.Before(weekStart) {
				stats.WeeklyPayments += tx.Amount
			}
			if !tx.Date.Before(monthStart) {
				stats.MonthlyPayments += tx.Amount
			}
		}
	}
	stats.TotalDue = stats.TotalSales - stats.TotalPaid
	return stats
}

// MonthlyBestCustomer returns the customer with the highest SALE volume
// since the first of the current month, or nil when there were no sales.
func MonthlyBestCustomer(customers []domain.Customer, transactions []domain.Transaction, now time.Time) *domain.BestCustomer {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	byCustomer := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type == domain.TxSale && !tx.Date.Before(monthStart) {
			byCustomer[tx.CustomerID] += tx.Amount
		}
	}
	if len(byCustomer) == 0 {
		return nil
	}

	var best *domain.BestCustomer
	for _, c := range customers {
		amount, ok := byCustomer[c.ID]
		if !ok {
			continue
		}
		if best == nil || amount > best.Amount {
			best = &domain.BestCustomer{Name: c.Name, Amount: amount}
		}
	}
	return best
}
