package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodsteward/ledger/internal/adapter/http/dto"
	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/infrastructure/metrics"
	"github.com/goodsteward/ledger/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests. Mutating
// operations run through the retrier so transient database failures are
// retried before surfacing.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
	ledgerUC      *usecase.LedgerUseCase
	retrier       usecase.Retrier
	metrics       *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase, ledgerUC *usecase.LedgerUseCase, retrier usecase.Retrier, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		ledgerUC:      ledgerUC,
		retrier:       retrier,
		metrics:       m,
	}
}

func (h *TransactionHandler) countFailure(err error) {
	if errors.Is(err, domain.ErrConcurrentModification) {
		h.metrics.OptimisticConflicts.Inc()
	}
}

// Create records a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var txn *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		txn, err = h.transactionUC.Create(r.Context(), req.ToUseCaseInput())
		return err
	})
	if err != nil {
		h.countFailure(err)
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	h.metrics.TransactionsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves the current transaction version. With an as_of query
// parameter it returns the version valid at that instant; adding system_at
// reconstructs what the system believed then.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var (
		txn *domain.Transaction
		err error
	)

	asOf := parseTimeQuery(r, "as_of")
	systemAt := parseTimeQuery(r, "system_at")

	switch {
	case !asOf.IsZero() && !systemAt.IsZero():
		txn, err = h.transactionUC.GetBitemporalAsOf(r.Context(), id, asOf, systemAt)
	case !asOf.IsZero():
		txn, err = h.transactionUC.GetAsOf(r.Context(), id, asOf)
	default:
		txn, err = h.transactionUC.Get(r.Context(), id)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Edit applies a partial edit, creating a new transaction version.
func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.EditTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var txn *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		txn, err = h.transactionUC.Edit(r.Context(), id, req.ToPatch(), req.Actor)
		return err
	})
	if err != nil {
		h.countFailure(err)
		writeError(w, mapDomainError(err), "failed to edit transaction", err.Error())
		return
	}

	h.metrics.TransactionsEdited.Inc()
	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Void voids a transaction and cascades to linked bills.
func (h *TransactionHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.VoidTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var txn *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		txn, err = h.transactionUC.Void(r.Context(), id, req.Reason, req.Actor)
		return err
	})
	if err != nil {
		h.countFailure(err)
		writeError(w, mapDomainError(err), "failed to void transaction", err.Error())
		return
	}

	h.metrics.TransactionsVoided.Inc()
	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// History lists every version of the transaction, newest first.
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	versions, err := h.transactionUC.History(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(versions))
}

// CheckIntegrity audits a transaction for structural problems.
func (h *TransactionHandler) CheckIntegrity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	findings, err := h.ledgerUC.CheckTransactionIntegrity(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check integrity", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IntegrityResponse{
		TransactionID: id,
		Consistent:    len(findings) == 0,
		Findings:      findings,
	})
}
