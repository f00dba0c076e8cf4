package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/momai-ledger/momai/internal/domain"
)

// defaultPushTimeout bounds a single replication attempt.
const defaultPushTimeout = 15 * time.Second

// Store is the entity store and its mutation API — the only path by
// which customers and transactions are created or changed.
//
// One mutex serializes every access: mutations, reads, and the merge
// applied after a pull. Operation rates are tiny, so coarse locking
// beats any finer scheme. Every mutation persists both full collections
// to durable storage before it returns, so a read immediately after a
// mutation observes durable state.
type Store struct {
	mu           sync.Mutex
	customers    []domain.Customer
	transactions []domain.Transaction

	persist   domain.SnapshotStore
	transport domain.SyncTransport // nil when no remote is configured

	now         func() time.Time
	newID       func() string
	pushTimeout time.Duration
	pushes      sync.WaitGroup
}

// New builds a store from durable storage. transport may be nil; the
// ledger stays fully functional without a remote.
func New(persist domain.SnapshotStore, transport domain.SyncTransport) (*Store, error) {
	customers, transactions, err := persist.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &Store{
		customers:    customers,
		transactions: transactions,
		persist:      persist,
		transport:    transport,
		now:          time.Now,
		newID:        uuid.NewString,
		pushTimeout:  defaultPushTimeout,
	}, nil
}

// Wait blocks until all in-flight replication pushes have completed.
// Used on shutdown and by tests; callers of the mutation API never wait.
func (s *Store) Wait() { s.pushes.Wait() }

// ─── Reads ──────────────────────────────────────────────────────────────────

// Customers returns a copy of the customer collection in store order.
// Inactive customers are excluded unless includeInactive is set.
func (s *Store) Customers(includeInactive bool) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if includeInactive || c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// Customer looks up one customer by id.
func (s *Store) Customer(id string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrCustomerNotFound
}

// Transactions returns a copy of the full transaction log in store order.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// TransactionsFor returns the transactions of one customer, store order.
func (s *Store) TransactionsFor(customerID string) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range s.transactions {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out
}

// Stats recomputes the aggregate business statistics from the full log.
func (s *Store) Stats() domain.BusinessStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stats := AggregateStats(s.transactions, now)
	stats.BestCustomer = MonthlyBestCustomer(s.customers, s.transactions, now)
	return stats
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// AddCustomer registers a new customer with zero totals and replicates
// the record. The duplicate check matches the historical behavior:
// rejected when any existing phone contains the trimmed input as a
// substring, checked before country-code normalization.
func (s *Store) AddCustomer(name, phone string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	cleanPhone := strings.TrimSpace(phone)
	if name == "" {
		return domain.Customer{}, domain.ErrEmptyName
	}
	if cleanPhone == "" {
		return domain.Customer{}, domain.ErrEmptyPhone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if strings.Contains(c.Phone, cleanPhone) {
			return domain.Customer{}, domain.ErrDuplicatePhone
		}
	}

	customer := domain.Customer{
		ID:           s.newID(),
		Name:         name,
		Phone:        domain.NormalizePhone(cleanPhone),
		LastActivity: s.now(),
		IsActive:     true,
	}

	customers := prepend(s.customers, customer)
	if err := s.persist.SaveSnapshot(customers, s.transactions); err != nil {
		return domain.Customer{}, fmt.Errorf("persist customer: %w", err)
	}
	s.customers = customers

	s.replicate(domain.SyncEvent{Action: domain.ActionAddCustomer, Customer: &customer})
	return customer, nil
}

// UpdateCustomer changes name and phone in place. Totals are untouched.
// Replicated with upsert semantics under the same ADD_CUSTOMER action.
func (s *Store) UpdateCustomer(id, name, phone string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return domain.Customer{}, domain.ErrEmptyName
	}
	if phone == "" {
		return domain.Customer{}, domain.ErrEmptyPhone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfCustomer(s.customers, id)
	if i < 0 {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	customers := make([]domain.Customer, len(s.customers))
	copy(customers, s.customers)
	customers[i].Name = name
	customers[i].Phone = phone

	if err := s.persist.SaveSnapshot(customers, s.transactions); err != nil {
		return domain.Customer{}, fmt.Errorf("persist customer: %w", err)
	}
	s.customers = customers

	updated := customers[i]
	s.replicate(domain.SyncEvent{Action: domain.ActionAddCustomer, Customer: &updated})
	return updated, nil
}

// ToggleCustomerStatus flips the soft-delete flag. Inactive customers
// keep their history but are blocked from new transactions and
// messaging.
func (s *Store) ToggleCustomerStatus(id string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfCustomer(s.customers, id)
	if i < 0 {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	customers := make([]domain.Customer, len(s.customers))
	copy(customers, s.customers)
	customers[i].IsActive = !customers[i].IsActive

	if err := s.persist.SaveSnapshot(customers, s.transactions); err != nil {
		return domain.Customer{}, fmt.Errorf("persist customer: %w", err)
	}
	s.customers = customers

	updated := customers[i]
	s.replicate(domain.SyncEvent{Action: domain.ActionAddCustomer, Customer: &updated})
	return updated, nil
}

// DeleteCustomer removes the customer and cascades to every transaction
// referencing it. No orphan transactions survive.
func (s *Store) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfCustomer(s.customers, id)
	if i < 0 {
		return domain.ErrCustomerNotFound
	}

	customers := make([]domain.Customer, 0, len(s.customers)-1)
	customers = append(customers, s.customers[:i]...)
	customers = append(customers, s.customers[i+1:]...)

	transactions := make([]domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if tx.CustomerID != id {
			transactions = append(transactions, tx)
		}
	}

	if err := s.persist.SaveSnapshot(customers, transactions); err != nil {
		return fmt.Errorf("persist delete: %w", err)
	}
	s.customers = customers
	s.transactions = transactions

	s.replicate(domain.SyncEvent{Action: domain.ActionDeleteCustomer, CustomerID: id})
	return nil
}

// AddTransaction records a sale or payment against an existing customer
// and updates the owner's totals in the same committed step, so the
// Due == TotalSales - TotalPaid invariant is never visible half-applied.
func (s *Store) AddTransaction(customerID string, txType domain.TransactionType, amount float64, description string) (domain.Transaction, error) {
	if !txType.Valid() {
		return domain.Transaction{}, domain.ErrInvalidTxType
	}
	if amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" {
		description = txType.DefaultDescription()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfCustomer(s.customers, customerID)
	if i < 0 {
		return domain.Transaction{}, domain.ErrCustomerNotFound
	}

	timestamp := s.now()
	tx := domain.Transaction{
		ID:          s.newID(),
		CustomerID:  customerID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Date:        timestamp,
	}

	customers := make([]domain.Customer, len(s.customers))
	copy(customers, s.customers)
	c := &customers[i]
	if txType == domain.TxSale {
		c.TotalSales += amount
	} else {
		c.TotalPaid += amount
	}
	c.Due = c.TotalSales - c.TotalPaid
	c.LastActivity = timestamp

	transactions := prepend(s.transactions, tx)

	if err := s.persist.SaveSnapshot(customers, transactions); err != nil {
		return domain.Transaction{}, fmt.Errorf("persist transaction: %w", err)
	}
	s.customers = customers
	s.transactions = transactions

	s.replicate(domain.SyncEvent{Action: domain.ActionAddTransaction, Transaction: &tx})
	return tx, nil
}

// ─── Synchronization ────────────────────────────────────────────────────────

// Refresh pulls the remote snapshot and reconciles it into the store.
// A failed pull leaves the store untouched; there is no partial merge.
func (s *Store) Refresh(ctx context.Context) error {
	if s.transport == nil {
		return domain.ErrNoRemote
	}

	snapshot, err := s.transport.Pull(ctx)
	if errors.Is(err, domain.ErrNoRemote) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPullFailed, err)
	}

	return s.applySnapshot(snapshot)
}

// applySnapshot merges the remote snapshot with local-only records and
// commits the result atomically with respect to other mutations.
func (s *Store) applySnapshot(snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := MergeCustomers(snapshot.Customers, s.customers)
	transactions := MergeTransactions(snapshot.Transactions, s.transactions)

	if err := s.persist.SaveSnapshot(customers, transactions); err != nil {
		return fmt.Errorf("persist merge: %w", err)
	}
	s.customers = customers
	s.transactions = transactions
	return nil
}

// replicate dispatches a fire-and-forget push. The local mutation is
// already durable; a push failure is logged and goes nowhere else.
// Must be called with s.mu held so pushes are issued in mutation order.
func (s *Store) replicate(event domain.SyncEvent) {
	if s.transport == nil {
		return
	}
	event.Timestamp = s.now()

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		defer cancel()
		if err := s.transport.Push(ctx, event); err != nil {
			log.Warn().Err(err).Str("action", string(event.Action)).Msg("replication push failed")
		}
	}()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func indexOfCustomer(customers []domain.Customer, id string) int {
	for i, c := range customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// prepend inserts newest-first without resorting; the next merge imposes
// full timestamp order.
func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	out = append(out, list...)
	return out
}
