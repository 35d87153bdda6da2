package usecase

import (
	"context"
	"strings"

	"github.com/lexpractice/lexledger/internal/domain"
)

// ClientUseCase handles client records.
type ClientUseCase struct {
	clientRepo ClientRepository
	idGen      IDGenerator
	now        Clock
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, idGen IDGenerator) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, idGen: idGen, now: systemClock}
}

// CreateClientInput is the input for Create.
type CreateClientInput struct {
	ClientName    string
	ClientType    string
	Email         string
	Phone         string
	Address       string
	TINNumber     string
	ContactPerson string
	Notes         string
	ActorID       string
}

// Create stores a new client.
func (uc *ClientUseCase) Create(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.ClientName) == "" {
		verr.Add("clientName", "is required")
	}
	if strings.TrimSpace(input.ClientType) == "" {
		verr.Add("clientType", "is required")
	}
	if input.Email != "" {
		verr.AddErr("email", domain.ValidateEmail(input.Email))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:            uc.idGen.Generate(),
		ClientName:    strings.TrimSpace(input.ClientName),
		ClientType:    input.ClientType,
		Email:         domain.NormalizeEmail(input.Email),
		Phone:         input.Phone,
		Address:       input.Address,
		TINNumber:     input.TINNumber,
		ContactPerson: input.ContactPerson,
		Notes:         input.Notes,
		CreatedBy:     input.ActorID,
		CreatedAt:     uc.now().UTC(),
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// List returns clients ordered by name, optionally filtered by search.
func (uc *ClientUseCase) List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.clientRepo.List(ctx, strings.TrimSpace(search), limit, offset)
}
