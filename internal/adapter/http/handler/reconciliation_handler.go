package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodsteward/ledger/internal/adapter/http/dto"
	"github.com/goodsteward/ledger/internal/infrastructure/metrics"
	"github.com/goodsteward/ledger/internal/usecase"
)

// ReconciliationHandler handles statement and matching HTTP requests.
type ReconciliationHandler struct {
	reconUC *usecase.ReconciliationUseCase
	metrics *metrics.Metrics
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase, m *metrics.Metrics) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, metrics: m}
}

// Import imports a bank statement with its lines.
func (h *ReconciliationHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	stmt, err := h.reconUC.ImportStatement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import statement", err.Error())
		return
	}

	h.metrics.StatementsImported.Inc()
	writeJSON(w, http.StatusCreated, dto.StatementFromDomain(stmt))
}

// Get retrieves a statement by ID.
func (h *ReconciliationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing statement ID", "")
		return
	}

	stmt, err := h.reconUC.GetStatement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(stmt))
}

// ListLines lists the statement's lines in (date, id) order.
func (h *ReconciliationHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing statement ID", "")
		return
	}

	lines, err := h.reconUC.ListLines(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LinesFromDomain(lines))
}

// AutoMatch runs the exact and fuzzy matching passes over the statement.
func (h *ReconciliationHandler) AutoMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing statement ID", "")
		return
	}

	var req dto.ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.reconUC.AutoMatchStatement(r.Context(), id, req.Actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to match statement", err.Error())
		return
	}

	h.metrics.LinesMatched.WithLabelValues("auto_exact").Add(float64(result.Exact))
	h.metrics.LinesMatched.WithLabelValues("auto_fuzzy").Add(float64(result.Fuzzy))
	writeJSON(w, http.StatusOK, dto.MatchResultFromUseCase(result))
}

// Complete confirms all matched lines and marks the statement completed.
func (h *ReconciliationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing statement ID", "")
		return
	}

	var req dto.ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.reconUC.CompleteReconciliation(r.Context(), id, req.Actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to complete reconciliation", err.Error())
		return
	}

	h.metrics.StatementsCompleted.Inc()
	h.metrics.LinesConfirmed.Add(float64(result.Confirmed))
	writeJSON(w, http.StatusOK, dto.CompletionResultFromUseCase(result))
}

// ManualMatch matches a line to a transaction by hand.
func (h *ReconciliationHandler) ManualMatch(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "id")
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing line ID", "")
		return
	}

	var req dto.ManualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	line, err := h.reconUC.ManualMatch(r.Context(), lineID, req.TransactionID, req.Actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to match line", err.Error())
		return
	}

	h.metrics.LinesMatched.WithLabelValues("manual").Inc()
	writeJSON(w, http.StatusOK, dto.LineFromDomain(line))
}

// SkipLine marks a line as intentionally unmatched.
func (h *ReconciliationHandler) SkipLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "id")
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing line ID", "")
		return
	}

	var req dto.ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.reconUC.SkipLine(r.Context(), lineID, req.Actor); err != nil {
		writeError(w, mapDomainError(err), "failed to skip line", err.Error())
		return
	}

	h.metrics.LinesSkipped.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}
