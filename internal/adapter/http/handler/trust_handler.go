package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// TrustService defines the behavior needed by TrustHandler.
type TrustService interface {
	RecordDeposit(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error)
	RecordWithdrawal(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error)
	GetBalance(ctx context.Context, matterID string) (domain.TrustAccount, error)
	ListEntries(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error)
	Reconcile(ctx context.Context, matterID string) (*usecase.TrustReconciliation, error)
}

// TrustHandler serves a matter's trust ledger.
type TrustHandler struct {
	trustUC TrustService
}

// NewTrustHandler creates a new TrustHandler.
func NewTrustHandler(trustUC TrustService) *TrustHandler {
	return &TrustHandler{trustUC: trustUC}
}

// Deposit records money received into trust.
func (h *TrustHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.trustUC.RecordDeposit)
}

// Withdraw records money paid out of trust.
func (h *TrustHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.trustUC.RecordWithdrawal)
}

func (h *TrustHandler) record(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, usecase.RecordTrustEntryInput) (*domain.TrustEntry, error),
) {
	var req dto.TrustEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := apply(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.TrustEntryFromDomain(entry))
}

// Balance returns the matter's current trust balance.
func (h *TrustHandler) Balance(w http.ResponseWriter, r *http.Request) {
	account, err := h.trustUC.GetBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.TrustBalanceFromDomain(account))
}

// Entries lists the matter's trust entries, newest first.
func (h *TrustHandler) Entries(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.trustUC.ListEntries(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.TrustEntriesFromDomain(entries))
}

// Reconcile replays the ledger and reports any inconsistency.
func (h *TrustHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.trustUC.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
