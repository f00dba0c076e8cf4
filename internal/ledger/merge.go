package ledger

import (
	"sort"

	"github.com/momai-ledger/momai/internal/domain"
)

// ─── Reconciliation Merge ───────────────────────────────────────────────────
// Remote wins for every id it knows about; purely-local records (push
// still in flight, or push failed) survive until the remote absorbs
// them. No field-level merge, no version vectors: this is deliberate
// last-writer-wins simplicity.

// MergeCustomers combines a remote snapshot with the current local
// collection, then orders by LastActivity descending. sort.SliceStable
// keeps equal timestamps in their incoming order.
func MergeCustomers(remote, local []domain.Customer) []domain.Customer {
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, c := range remote {
		remoteIDs[c.ID] = struct{}{}
	}

	merged := make([]domain.Customer, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	for _, c := range local {
		if _, known := remoteIDs[c.ID]; !known {
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastActivity.After(merged[j].LastActivity)
	})
	return merged
}

// MergeTransactions is the transaction-side merge, ordered by Date
// descending.
func MergeTransactions(remote, local []domain.Transaction) []domain.Transaction {
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, tx := range remote {
		remoteIDs[tx.ID] = struct{}{}
	}

	merged := make([]domain.Transaction, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	for _, tx := range local {
		if _, known := remoteIDs[tx.ID]; !known {
			merged = append(merged, tx)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	return merged
}
