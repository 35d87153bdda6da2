package handler

import (
	"context"
	"net/http"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	Create(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error)
}

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	clientUC ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Create adds a client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	client, err := h.clientUC.Create(r.Context(), req.ToUseCaseInput(actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// List lists clients, optionally filtered by search.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientUC.List(
		r.Context(),
		r.URL.Query().Get("search"),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ClientsFromDomain(clients))
}
