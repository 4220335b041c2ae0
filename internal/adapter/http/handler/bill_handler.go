package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodsteward/ledger/internal/adapter/http/dto"
	"github.com/goodsteward/ledger/internal/infrastructure/metrics"
	"github.com/goodsteward/ledger/internal/usecase"
)

// BillHandler handles bill-related HTTP requests.
type BillHandler struct {
	billUC  *usecase.BillUseCase
	metrics *metrics.Metrics
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billUC *usecase.BillUseCase, m *metrics.Metrics) *BillHandler {
	return &BillHandler{billUC: billUC, metrics: m}
}

// Create records a new bill.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bill, err := h.billUC.CreateBill(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create bill", err.Error())
		return
	}

	h.metrics.BillsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.BillFromDomain(bill))
}

// Get retrieves a bill by ID.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	bill, err := h.billUC.GetBill(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get bill", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BillFromDomain(bill))
}

// AddPayment links a payment transaction to the bill and recalculates its
// status.
func (h *BillHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	if billID == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	var req dto.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.billUC.AddPayment(r.Context(), req.ToUseCaseInput(billID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add payment", err.Error())
		return
	}

	h.metrics.PaymentsLinked.Inc()
	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}
