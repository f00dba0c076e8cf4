// Package domain holds the pure ledger types with ZERO infrastructure
// imports. Everything else depends on it; it depends on nothing.
package domain

import (
	"strings"
	"time"
)

// ─── Ledger Types ───────────────────────────────────────────────────────────

// TransactionType is the business direction of a ledger entry.
// SALE (udhaar) increases a customer's outstanding due, PAYMENT (jama)
// decreases it.
type TransactionType string

const (
	TxSale    TransactionType = "SALE"
	TxPayment TransactionType = "PAYMENT"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TxSale || t == TxPayment
}

// DefaultDescription returns the note used when a transaction is recorded
// without one.
func (t TransactionType) DefaultDescription() string {
	if t == TxPayment {
		return "Payment Received"
	}
	return "Sale Entry"
}

// Customer is one party in the ledger. Totals are maintained incrementally
// by the mutation layer; Due == TotalSales - TotalPaid holds at rest.
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	TotalSales   float64   `json:"totalSales"`
	TotalPaid    float64   `json:"totalPaid"`
	Due          float64   `json:"due"`
	LastActivity time.Time `json:"lastActivity"`
	IsActive     bool      `json:"isActive"`
}

// Transaction is a single immutable ledger entry against one customer.
type Transaction struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customerId"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Snapshot is a full copy of both collections, as exchanged with the
// remote store of record and with durable local storage.
type Snapshot struct {
	Customers    []Customer    `json:"customers"`
	Transactions []Transaction `json:"transactions"`
}

// ─── Derived Statistics ─────────────────────────────────────────────────────

// BestCustomer names the customer with the highest sales in a window.
type BestCustomer struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// BusinessStats are read-only aggregates recomputed on demand from the
// full transaction log. Window boundaries are inclusive.
type BusinessStats struct {
	TotalSales      float64       `json:"totalSales"`
	TotalPaid       float64       `json:"totalPaid"`
	TotalDue        float64       `json:"totalDue"`
	DailySales      float64       `json:"dailySales"`
	WeeklySales     float64       `json:"weeklySales"`
	MonthlySales    float64       `json:"monthlySales"`
	DailyPayments   float64       `json:"dailyPayments"`
	WeeklyPayments  float64       `json:"weeklyPayments"`
	MonthlyPayments float64       `json:"monthlyPayments"`
	BestCustomer    *BestCustomer `json:"monthlyBestCustomer,omitempty"`
}

// AIInsight is the business-summary output of the insight collaborator.
type AIInsight struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"actionItems"`
}

// ─── Sync Events ────────────────────────────────────────────────────────────

// SyncAction tags a replication event for the remote store of record.
type SyncAction string

const (
	ActionAddCustomer    SyncAction = "ADD_CUSTOMER"
	ActionAddTransaction SyncAction = "ADD_TRANSACTION"
	ActionDeleteCustomer SyncAction = "DELETE_CUSTOMER"
)

// SyncEvent is one mutation replicated to the remote endpoint.
// Exactly one of Customer, Transaction or CustomerID is populated,
// matching Action.
type SyncEvent struct {
	Action      SyncAction   `json:"action"`
	Customer    *Customer    `json:"customer,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
	CustomerID  string       `json:"customerId,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ─── Phone Handling ─────────────────────────────────────────────────────────

// DefaultCountryCode is prefixed to phone numbers entered without one.
const DefaultCountryCode = "+91"

// NormalizePhone trims the input and prefixes the default country code
// when no international prefix is present.
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "+") {
		return p
	}
	return DefaultCountryCode + p
}

// PhoneDigits strips every non-digit rune, the form used for messaging
// deep links.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
