package ledger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/momai-ledger/momai/internal/domain"
)

// ─── Test Doubles ───────────────────────────────────────────────────────────

// memSnapshots is an in-memory SnapshotStore recording every save.
type memSnapshots struct {
	mu           sync.Mutex
	customers    []domain.Customer
	transactions []domain.Transaction
	saves        int
	failNext     bool
}

func (m *memSnapshots) SaveSnapshot(customers []domain.Customer, transactions []domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("disk full")
	}
	m.customers = append([]domain.Customer(nil), customers...)
	m.transactions = append([]domain.Transaction(nil), transactions...)
	m.saves++
	return nil
}

func (m *memSnapshots) LoadSnapshot() ([]domain.Customer, []domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Customer(nil), m.customers...),
		append([]domain.Transaction(nil), m.transactions...), nil
}

// fakeTransport records pushes and serves a canned pull.
type fakeTransport struct {
	mu       sync.Mutex
	pushed   []domain.SyncEvent
	snapshot *domain.Snapshot
	pullErr  error
	pushErr  error
}

func (f *fakeTransport) Push(ctx context.Context, event domain.SyncEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, event)
	return f.pushErr
}

func (f *fakeTransport) Pull(ctx context.Context) (*domain.Snapshot, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.snapshot, nil
}

func (f *fakeTransport) pushedActions() []domain.SyncAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SyncAction, len(f.pushed))
	for i, ev := range f.pushed {
		out[i] = ev.Action
	}
	return out
}

func newTestStore(t *testing.T, transport domain.SyncTransport) (*Store, *memSnapshots) {
	t.Helper()
	mem := &memSnapshots{}
	s, err := New(mem, transport)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return s, mem
}

// ─── Customer Mutations ─────────────────────────────────────────────────────

func TestAddCustomer(t *testing.T) {
	tr := &fakeTransport{}
	s, mem := newTestStore(t, tr)

	c, err := s.AddCustomer("Ramesh", "9876543210")
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	if c.Phone != "+919876543210" {
		t.Errorf("Phone = %q, want %q", c.Phone, "+919876543210")
	}
	if !c.IsActive {
		t.Error("new customer should be active")
	}
	if c.TotalSales != 0 || c.TotalPaid != 0 || c.Due != 0 {
		t.Errorf("new customer totals = %v/%v/%v, want zeros", c.TotalSales, c.TotalPaid, c.Due)
	}
	if mem.saves != 1 {
		t.Errorf("saves = %d, want 1 (persisted before return)", mem.saves)
	}

	s.Wait()
	if got := tr.pushedActions(); len(got) != 1 || got[0] != domain.ActionAddCustomer {
		t.Errorf("pushed actions = %v, want [ADD_CUSTOMER]", got)
	}
}

func TestAddCustomer_DuplicatePhone(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if _, err := s.AddCustomer("Ramesh", "9876543210"); err != nil {
		t.Fatalf("first AddCustomer: %v", err)
	}
	_, err := s.AddCustomer("Suresh", "9876543210")
	if !errors.Is(err, domain.ErrDuplicatePhone) {
		t.Fatalf("err = %v, want ErrDuplicatePhone", err)
	}
	if got := len(s.Customers(true)); got != 1 {
		t.Errorf("customer count = %d, want 1", got)
	}
}

func TestAddCustomer_SubstringContainmentRejects(t *testing.T) {
	// Containment, not equality: a shorter number that is a digit
	// substring of an existing one is rejected too.
	s, _ := newTestStore(t, nil)

	if _, err := s.AddCustomer("Ramesh", "9876543210"); err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	if _, err := s.AddCustomer("Suresh", "87654321"); !errors.Is(err, domain.ErrDuplicatePhone) {
		t.Errorf("substring phone accepted, want ErrDuplicatePhone")
	}
}

func TestAddCustomer_Validation(t *testing.T) {
	s, mem := newTestStore(t, nil)

	if _, err := s.AddCustomer("", "9876543210"); !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("empty name: err = %v, want ErrEmptyName", err)
	}
	if _, err := s.AddCustomer("Ramesh", "  "); !errors.Is(err, domain.ErrEmptyPhone) {
		t.Errorf("empty phone: err = %v, want ErrEmptyPhone", err)
	}
	if mem.saves != 0 {
		t.Errorf("saves = %d, want 0 after rejected mutations", mem.saves)
	}
}

func TestUpdateCustomer(t *testing.T) {
	s, _ := newTestStore(t, nil)

	c, _ := s.AddCustomer("Ramesh", "9876543210")
	sale, _ := s.AddTransaction(c.ID, domain.TxSale, 500, "")

	updated, err := s.UpdateCustomer(c.ID, "Rameshbhai", "+919876543210")
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Name != "Rameshbhai" {
		t.Errorf("Name = %q, want %q", updated.Name, "Rameshbhai")
	}
	if updated.TotalSales != sale.Amount {
		t.Errorf("TotalSales = %v, want %v (edit must not touch totals)", updated.TotalSales, sale.Amount)
	}

	if _, err := s.UpdateCustomer("missing", "X", "1"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("unknown id: err = %v, want ErrCustomerNotFound", err)
	}
}

func TestToggleCustomerStatus(t *testing.T) {
	s, _ := newTestStore(t, nil)

	c, _ := s.AddCustomer("Ramesh", "9876543210")
	toggled, err := s.ToggleCustomerStatus(c.ID)
	if err != nil {
		t.Fatalf("ToggleCustomerStatus: %v", err)
	}
	if toggled.IsActive {
		t.Error("first toggle should deactivate")
	}

	if got := len(s.Customers(false)); got != 0 {
		t.Errorf("default view shows %d customers, want 0 after deactivation", got)
	}
	if got := len(s.Customers(true)); got != 1 {
		t.Errorf("full view shows %d customers, want 1", got)
	}

	if _, err := s.ToggleCustomerStatus("missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("unknown id: err = %v, want ErrCustomerNotFound", err)
	}
}

func TestDeleteCustomer_CascadesTransactions(t *testing.T) {
	tr := &fakeTransport{}
	s, _ := newTestStore(t, tr)

	keep, _ := s.AddCustomer("Keep", "1111111111")
	gone, _ := s.AddCustomer("Gone", "2222222222")
	s.AddTransaction(keep.ID, domain.TxSale, 100, "")
	s.AddTransaction(gone.ID, domain.TxSale, 200, "")
	s.AddTransaction(gone.ID, domain.TxPayment, 50, "")

	if err := s.DeleteCustomer(gone.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}

	for _, tx := range s.Transactions() {
		if tx.CustomerID == gone.ID {
			t.Errorf("orphan transaction %s survived cascade delete", tx.ID)
		}
	}
	if got := len(s.Transactions()); got != 1 {
		t.Errorf("transaction count = %d, want 1", got)
	}

	s.Wait()
	actions := tr.pushedActions()
	if actions[len(actions)-1] != domain.ActionDeleteCustomer {
		t.Errorf("last pushed action = %v, want DELETE_CUSTOMER", actions[len(actions)-1])
	}
}

// ─── Transactions & Balance Invariant ───────────────────────────────────────

func TestAddTransaction_BalanceInvariant(t *testing.T) {
	s, _ := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	steps := []struct {
		txType domain.TransactionType
		amount float64
	}{
		{domain.TxSale, 500},
		{domain.TxPayment, 200},
		{domain.TxSale, 120},
		{domain.TxSale, 80},
		{domain.TxPayment, 400},
	}

	for i, step := range steps {
		if _, err := s.AddTransaction(c.ID, step.txType, step.amount, ""); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		got, _ := s.Customer(c.ID)
		want := CustomerTotals(s.TransactionsFor(c.ID))
		if got.TotalSales != want.TotalSales || got.TotalPaid != want.TotalPaid {
			t.Fatalf("step %d: totals %v/%v, reference %v/%v",
				i, got.TotalSales, got.TotalPaid, want.TotalSales, want.TotalPaid)
		}
		if got.Due != got.TotalSales-got.TotalPaid {
			t.Fatalf("step %d: due %v != sales %v - paid %v", i, got.Due, got.TotalSales, got.TotalPaid)
		}
	}
}

func TestAddTransaction_SaleThenPayment(t *testing.T) {
	s, _ := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	if _, err := s.AddTransaction(c.ID, domain.TxSale, 500, "Feed"); err != nil {
		t.Fatalf("sale: %v", err)
	}
	payment, err := s.AddTransaction(c.ID, domain.TxPayment, 200, "")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}

	got, _ := s.Customer(c.ID)
	if got.TotalSales != 500 || got.TotalPaid != 200 || got.Due != 300 {
		t.Errorf("totals = %v/%v/%v, want 500/200/300", got.TotalSales, got.TotalPaid, got.Due)
	}
	if payment.Description != "Payment Received" {
		t.Errorf("description = %q, want default %q", payment.Description, "Payment Received")
	}
}

func TestAddTransaction_Validation(t *testing.T) {
	s, _ := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	if _, err := s.AddTransaction("missing", domain.TxSale, 100, ""); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("unknown customer: err = %v, want ErrCustomerNotFound", err)
	}
	if _, err := s.AddTransaction(c.ID, domain.TxSale, 0, ""); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("zero amount: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := s.AddTransaction(c.ID, domain.TxSale, -5, ""); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative amount: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := s.AddTransaction(c.ID, "REFUND", 100, ""); !errors.Is(err, domain.ErrInvalidTxType) {
		t.Errorf("bad type: err = %v, want ErrInvalidTxType", err)
	}
}

func TestAddTransaction_UpdatesLastActivity(t *testing.T) {
	s, _ := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	when := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return when }

	tx, _ := s.AddTransaction(c.ID, domain.TxSale, 100, "")
	got, _ := s.Customer(c.ID)
	if !got.LastActivity.Equal(when) {
		t.Errorf("LastActivity = %v, want %v", got.LastActivity, when)
	}
	if !tx.Date.Equal(when) {
		t.Errorf("tx.Date = %v, want %v", tx.Date, when)
	}
}

func TestNewestFirstInsertion(t *testing.T) {
	s, _ := newTestStore(t, nil)

	a, _ := s.AddCustomer("First", "1111111111")
	b, _ := s.AddCustomer("Second", "2222222222")

	customers := s.Customers(true)
	if customers[0].ID != b.ID || customers[1].ID != a.ID {
		t.Error("local inserts should prepend (newest first)")
	}

	s.AddTransaction(a.ID, domain.TxSale, 10, "")
	s.AddTransaction(a.ID, domain.TxSale, 20, "")
	txs := s.Transactions()
	if txs[0].Amount != 20 || txs[1].Amount != 10 {
		t.Error("transactions should prepend (newest first)")
	}
}

// ─── Persistence & Replication Failure Modes ────────────────────────────────

func TestPersistFailureLeavesStateUnchanged(t *testing.T) {
	s, mem := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	mem.failNext = true
	if _, err := s.AddTransaction(c.ID, domain.TxSale, 100, ""); err == nil {
		t.Fatal("expected persist error")
	}

	got, _ := s.Customer(c.ID)
	if got.TotalSales != 0 {
		t.Errorf("TotalSales = %v after failed persist, want 0", got.TotalSales)
	}
	if len(s.Transactions()) != 0 {
		t.Error("transaction committed despite failed persist")
	}
}

func TestPushFailureDoesNotAffectMutation(t *testing.T) {
	tr := &fakeTransport{pushErr: errors.New("remote unreachable")}
	s, _ := newTestStore(t, tr)

	c, err := s.AddCustomer("Ramesh", "9876543210")
	if err != nil {
		t.Fatalf("AddCustomer should succeed despite push failure: %v", err)
	}
	s.Wait()

	if _, err := s.Customer(c.ID); err != nil {
		t.Errorf("customer not durable after push failure: %v", err)
	}
}

// ─── Refresh / Merge Integration ────────────────────────────────────────────

func TestRefresh_PullFailureLeavesStoreIdentical(t *testing.T) {
	tr := &fakeTransport{pullErr: errors.New("network down")}
	s, _ := newTestStore(t, tr)
	s.AddCustomer("Ramesh", "9876543210")

	beforeCustomers := s.Customers(true)
	beforeTxs := s.Transactions()

	if err := s.Refresh(context.Background()); !errors.Is(err, domain.ErrPullFailed) {
		t.Fatalf("err = %v, want ErrPullFailed", err)
	}

	if !reflect.DeepEqual(beforeCustomers, s.Customers(true)) {
		t.Error("customers changed after failed pull")
	}
	if !reflect.DeepEqual(beforeTxs, s.Transactions()) {
		t.Error("transactions changed after failed pull")
	}
}

func TestRefresh_NoRemote(t *testing.T) {
	s, _ := newTestStore(t, nil)
	if err := s.Refresh(context.Background()); !errors.Is(err, domain.ErrNoRemote) {
		t.Errorf("err = %v, want ErrNoRemote", err)
	}
}

func TestRefresh_MergePreservesLocalOnly(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	remote := &domain.Snapshot{
		Customers: []domain.Customer{
			{ID: "r1", Name: "Remote One", LastActivity: base.AddDate(0, 0, 2), IsActive: true},
			{ID: "r2", Name: "Remote Two", LastActivity: base, IsActive: true},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", CustomerID: "r1", Type: domain.TxSale, Amount: 100, Date: base},
		},
	}
	tr := &fakeTransport{snapshot: remote}
	s, _ := newTestStore(t, tr)

	local, _ := s.AddCustomer("Local Only", "9876543210")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	customers := s.Customers(true)
	if len(customers) != 3 {
		t.Fatalf("customer count = %d, want 3", len(customers))
	}
	seen := map[string]int{}
	for _, c := range customers {
		seen[c.ID]++
	}
	if seen[local.ID] != 1 || seen["r1"] != 1 || seen["r2"] != 1 {
		t.Errorf("merge lost or duplicated records: %v", seen)
	}

	// Remote wins for known ids; merging again must be a no-op.
	before := s.Customers(true)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if !reflect.DeepEqual(before, s.Customers(true)) {
		t.Error("second merge with same snapshot changed the store")
	}
}

func TestRefresh_RemoteSupersedesLocalCopy(t *testing.T) {
	s, _ := newTestStore(t, nil)
	c, _ := s.AddCustomer("Ramesh", "9876543210")

	remoteCopy := c
	remoteCopy.Name = "Ramesh (verified)"
	remoteCopy.TotalSales = 900
	remoteCopy.Due = 900
	tr := &fakeTransport{snapshot: &domain.Snapshot{
		Customers: []domain.Customer{remoteCopy},
	}}
	s.transport = tr

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, _ := s.Customer(c.ID)
	if got.Name != "Ramesh (verified)" || got.TotalSales != 900 {
		t.Errorf("remote copy did not supersede local: %+v", got)
	}
}
