package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodsteward/ledger/internal/adapter/http/dto"
	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/infrastructure/metrics"
	"github.com/goodsteward/ledger/internal/usecase"
)

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
	ledgerUC  *usecase.LedgerUseCase
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase, ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, ledgerUC: ledgerUC, metrics: m}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	h.metrics.AccountsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Update applies a partial update, creating a new account version.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), id, req.ToPatch(), req.Actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts for an organization.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	limit, offset := domain.ValidatePagination(
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)

	accounts, err := h.accountUC.ListAccounts(r.Context(), orgID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// VerifyBalance recomputes the account balance and reports whether the
// cache agrees. A discrepancy is a finding, not an error.
func (h *AccountHandler) VerifyBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	verification, err := h.ledgerUC.VerifyAccountBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify balance", err.Error())
		return
	}

	if !verification.Consistent {
		h.metrics.BalanceDiscrepancies.Inc()
	}
	writeJSON(w, http.StatusOK, dto.BalanceVerificationFromUseCase(verification))
}

// RepairBalance overwrites the balance cache with the recomputed value.
func (h *AccountHandler) RepairBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	verification, err := h.ledgerUC.RepairAccountBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to repair balance", err.Error())
		return
	}

	h.metrics.BalanceRepairs.Inc()
	writeJSON(w, http.StatusOK, dto.BalanceVerificationFromUseCase(verification))
}
