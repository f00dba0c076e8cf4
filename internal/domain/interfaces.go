package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the ledger core depends on them.

// SnapshotStore abstracts durable local storage for the full collections.
// It is single-writer: the entity store owns it exclusively.
type SnapshotStore interface {
	// SaveSnapshot replaces both persisted collections atomically.
	SaveSnapshot(customers []Customer, transactions []Transaction) error

	// LoadSnapshot returns the persisted collections in stored order.
	LoadSnapshot() ([]Customer, []Transaction, error)
}

// SyncTransport talks to the remote store of record.
type SyncTransport interface {
	// Push replicates one mutation event. Best effort: one delivery
	// attempt, no retry, callers do not interpret the result beyond
	// "attempt completed".
	Push(ctx context.Context, event SyncEvent) error

	// Pull fetches the remote's current full snapshot. Any transport
	// failure or malformed body is reported as an error with no data.
	Pull(ctx context.Context) (*Snapshot, error)
}

// InsightProvider generates a natural-language business summary.
// Implementations never fail: on any error they substitute a fixed
// neutral fallback.
type InsightProvider interface {
	BusinessInsights(ctx context.Context, customers []Customer, stats BusinessStats) AIInsight
}
