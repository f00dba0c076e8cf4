package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/momai-ledger/momai/internal/domain"
	"github.com/momai-ledger/momai/internal/infra/observability"
	"github.com/momai-ledger/momai/internal/infra/sqlite"
	"github.com/momai-ledger/momai/internal/payment"
)

// ─── Customers ──────────────────────────────────────────────────────────────

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customers": s.store.Customers(includeInactive),
	})
}

func (s *Server) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	customer, err := s.store.AddCustomer(req.Name, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.MutationsTotal.WithLabelValues("add_customer").Inc()
	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	customer, err := s.store.UpdateCustomer(chi.URLParam(r, "id"), req.Name, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.MutationsTotal.WithLabelValues("update_customer").Inc()
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleToggleCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.ToggleCustomerStatus(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.MutationsTotal.WithLabelValues("toggle_customer").Inc()
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	// Confirmation is the caller's responsibility; the API deletes
	// unconditionally and cascades to the customer's transactions.
	if err := s.store.DeleteCustomer(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	observability.MutationsTotal.WithLabelValues("delete_customer").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Customer(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": s.store.TransactionsFor(id),
	})
}

// ─── Transactions ───────────────────────────────────────────────────────────

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID  string  `json:"customerId"`
		Type        string  `json:"type"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, err := s.store.AddTransaction(req.CustomerID, domain.TransactionType(req.Type), req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.MutationsTotal.WithLabelValues("add_transaction").Inc()
	writeJSON(w, http.StatusCreated, tx)
}

// ─── Stats, Sync, Insights ──────────────────────────────────────────────────

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}

	observability.MergedRecords.WithLabelValues("customers").Set(float64(len(s.store.Customers(true))))
	observability.MergedRecords.WithLabelValues("transactions").Set(float64(len(s.store.Transactions())))

	lastSync := time.Now().Format("15:04")
	if err := s.settings.SetSetting(sqlite.SettingLastSync, lastSync); err != nil {
		log.Warn().Err(err).Msg("could not record last sync time")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed", "lastSync": lastSync})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insight := s.insights.BusinessInsights(r.Context(), s.store.Customers(true), s.store.Stats())
	writeJSON(w, http.StatusOK, insight)
}

// ─── Payment Reminder ───────────────────────────────────────────────────────

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.Customer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !customer.IsActive {
		writeDomainError(w, domain.ErrCustomerInactive)
		return
	}

	businessName, _ := s.settings.GetSetting(sqlite.SettingBusinessName)
	upiID, _ := s.settings.GetSetting(sqlite.SettingUPIID)

	message := payment.ReminderMessage(customer, businessName, upiID)
	upiLink := payment.UPILink(upiID, businessName, customer.Due)

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      message,
		"whatsappLink": payment.WhatsAppLink(customer, message),
		"upiLink":      upiLink,
		"qrImageUrl":   payment.QRImageURL(upiLink),
	})
}
