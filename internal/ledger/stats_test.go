package ledger

import (
	"testing"
	"time"

	"github.com/momai-ledger/momai/internal/domain"
)

func sale(id string, amount float64, date time.Time) domain.Transaction {
	return domain.Transaction{ID: id, CustomerID: "c1", Type: domain.TxSale, Amount: amount, Date: date}
}

func payment(id string, amount float64, date time.Time) domain.Transaction {
	return domain.Transaction{ID: id, CustomerID: "c1", Type: domain.TxPayment, Amount: amount, Date: date}
}

func TestCustomerTotals(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		txs  []domain.Transaction
		want Totals
	}{
		{
			name: "empty log is all zero",
			txs:  nil,
			want: Totals{},
		},
		{
			name: "sales and payments",
			txs: []domain.Transaction{
				sale("a", 500, now),
				payment("b", 200, now),
				sale("c", 100, now),
			},
			want: Totals{TotalSales: 600, TotalPaid: 200, Due: 400},
		},
		{
			name: "order insensitive",
			txs: []domain.Transaction{
				payment("b", 200, now),
				sale("c", 100, now),
				sale("a", 500, now),
			},
			want: Totals{TotalSales: 600, TotalPaid: 200, Due: 400},
		},
		{
			name: "overpaid yields negative due",
			txs: []domain.Transaction{
				sale("a", 100, now),
				payment("b", 150, now),
			},
			want: Totals{TotalSales: 100, TotalPaid: 150, Due: -50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CustomerTotals(tt.txs)
			if got != tt.want {
				t.Errorf("CustomerTotals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregateStats_Windows(t *testing.T) {
	// Fixed clock mid-month so all three windows are distinct.
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	txs := []domain.Transaction{
		sale("today", 100, now.Add(-time.Hour)),
		sale("3d", 200, now.AddDate(0, 0, -3)),
		sale("40d", 300, now.AddDate(0, 0, -40)),
	}

	stats := AggregateStats(txs, now)
	if stats.DailySales != 100 {
		t.Errorf("DailySales = %v, want 100", stats.DailySales)
	}
	if stats.WeeklySales != 300 {
		t.Errorf("WeeklySales = %v, want 300 (today + 3d)", stats.WeeklySales)
	}
	if stats.MonthlySales != 300 {
		t.Errorf("MonthlySales = %v, want 300 (40d is last month)", stats.MonthlySales)
	}
	if stats.TotalSales != 600 || stats.TotalDue != 600 {
		t.Errorf("TotalSales/TotalDue = %v/%v, want 600/600", stats.TotalSales, stats.TotalDue)
	}
}

func TestAggregateStats_BoundaryInclusive(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	stats := AggregateStats([]domain.Transaction{sale("m", 50, midnight)}, now)
	if stats.DailySales != 50 {
		t.Errorf("DailySales = %v, want 50 (midnight is inside today)", stats.DailySales)
	}
}

func TestAggregateStats_PaymentWindows(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	txs := []domain.Transaction{
		payment("today", 40, now.Add(-2*time.Hour)),
		payment("old", 60, now.AddDate(0, -2, 0)),
	}

	stats := AggregateStats(txs, now)
	if stats.DailyPayments != 40 || stats.WeeklyPayments != 40 || stats.MonthlyPayments != 40 {
		t.Errorf("payment windows = %v/%v/%v, want 40/40/40",
			stats.DailyPayments, stats.WeeklyPayments, stats.MonthlyPayments)
	}
	if stats.TotalPaid != 100 {
		t.Errorf("TotalPaid = %v, want 100", stats.TotalPaid)
	}
}

func TestMonthlyBestCustomer(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	customers := []domain.Customer{
		{ID: "c1", Name: "Ramesh"},
		{ID: "c2", Name: "Suresh"},
	}
	txs := []domain.Transaction{
		{ID: "a", CustomerID: "c1", Type: domain.TxSale, Amount: 300, Date: now.AddDate(0, 0, -1)},
		{ID: "b", CustomerID: "c2", Type: domain.TxSale, Amount: 500, Date: now.AddDate(0, 0, -2)},
		{ID: "c", CustomerID: "c1", Type: domain.TxSale, Amount: 100, Date: now.AddDate(0, -1, 0)}, // last month
		{ID: "d", CustomerID: "c2", Type: domain.TxPayment, Amount: 900, Date: now},                // payments don't count
	}

	best := MonthlyBestCustomer(customers, txs, now)
	if best == nil {
		t.Fatal("best = nil, want Suresh")
	}
	if best.Name != "Suresh" || best.Amount != 500 {
		t.Errorf("best = %+v, want {Suresh 500}", best)
	}

	if got := MonthlyBestCustomer(customers, nil, now); got != nil {
		t.Errorf("best with no sales = %+v, want nil", got)
	}
}
