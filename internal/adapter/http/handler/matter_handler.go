package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// MatterService defines the behavior needed by MatterHandler.
type MatterService interface {
	List(ctx context.Context, filter domain.MatterFilter) ([]*domain.Matter, int64, error)
	Get(ctx context.Context, id string) (*domain.MatterDetail, error)
	Create(ctx context.Context, input usecase.CreateMatterInput) (*domain.Matter, error)
	Update(ctx context.Context, actorID, id string, update domain.MatterUpdate) (*domain.Matter, error)
	AddTimeEntry(ctx context.Context, input usecase.AddTimeEntryInput) (*domain.TimeEntry, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// MatterHandler handles matter-related HTTP requests.
type MatterHandler struct {
	matterUC MatterService
}

// NewMatterHandler creates a new MatterHandler.
func NewMatterHandler(matterUC MatterService) *MatterHandler {
	return &MatterHandler{matterUC: matterUC}
}

// List lists matters. Filters: status, search.
func (h *MatterHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.MatterFilter{
		Status: domain.MatterStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	matters, total, err := h.matterUC.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	limit, offset, _ := domain.ValidatePagination(filter.Limit, filter.Offset)
	writeData(w, http.StatusOK, dto.MattersFromDomain(matters, total, limit, offset))
}

// Get returns a matter with its time entries and trust balance.
func (h *MatterHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.matterUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.MatterDetailFromDomain(detail))
}

// Create opens a matter.
func (h *MatterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMatterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matter, err := h.matterUC.Create(r.Context(), req.ToUseCaseInput(actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.MatterFromDomain(matter))
}

// Update changes a matter's details.
func (h *MatterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMatterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matter, err := h.matterUC.Update(r.Context(), actorFrom(r).ID, chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.MatterFromDomain(matter))
}

// AddTime records time on a matter for the caller.
func (h *MatterHandler) AddTime(w http.ResponseWriter, r *http.Request) {
	var req dto.AddTimeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.matterUC.AddTimeEntry(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.TimeEntryFromDomain(entry))
}

// DashboardStats summarises matters, unbilled time and trust funds.
func (h *MatterHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.matterUC.DashboardStats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.DashboardStatsFromDomain(stats))
}
