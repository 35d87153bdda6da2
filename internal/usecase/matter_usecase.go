package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
)

// MatterUseCase handles matter, time entry and dashboard operations.
type MatterUseCase struct {
	matterRepo MatterRepository
	clientRepo ClientRepository
	timeRepo   TimeEntryRepository
	entryRepo  TrustEntryRepository
	userRepo   UserRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	logger     zerolog.Logger
	now        Clock
}

// NewMatterUseCase creates a new MatterUseCase.
func NewMatterUseCase(
	matterRepo MatterRepository,
	clientRepo ClientRepository,
	timeRepo TimeEntryRepository,
	entryRepo TrustEntryRepository,
	userRepo UserRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *MatterUseCase {
	return &MatterUseCase{
		matterRepo: matterRepo,
		clientRepo: clientRepo,
		timeRepo:   timeRepo,
		entryRepo:  entryRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		logger:     logger.With().Str("component", "matter").Logger(),
		now:        systemClock,
	}
}

// List returns matters matching filter and the total count before paging.
func (uc *MatterUseCase) List(ctx context.Context, filter domain.MatterFilter) ([]*domain.Matter, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		verr := &domain.ValidationError{}
		verr.Add("status", "must be Open, Pending or Closed")
		return nil, 0, verr
	}

	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	filter.Search = strings.TrimSpace(filter.Search)

	return uc.matterRepo.List(ctx, filter)
}

// Get returns a matter with its time entries and current trust balance.
func (uc *MatterUseCase) Get(ctx context.Context, id string) (*domain.MatterDetail, error) {
	matter, err := uc.matterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.MatterDetail{Matter: matter, TrustBalance: decimal.Zero}

	if client, err := uc.clientRepo.GetByID(ctx, matter.ClientID); err == nil {
		detail.ClientEmail = client.Email
		detail.ClientPhone = client.Phone
	}

	detail.TimeEntries, err = uc.timeRepo.ListByMatter(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := uc.entryRepo.Latest(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.TrustBalance = domain.NewTrustAccount(id, latest).Balance

	return detail, nil
}

// CreateMatterInput is the input for Create.
type CreateMatterInput struct {
	OpeningDate         time.Time
	EstimatedValue      *decimal.Decimal
	CaseNumber          string
	ClientID            string
	MatterName          string
	MatterType          string
	AssignedPartnerID   string
	AssignedAssociateID string
	Description         string
	ActorID             string
}

// Create opens a new matter for an existing client.
func (uc *MatterUseCase) Create(ctx context.Context, input CreateMatterInput) (*domain.Matter, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.CaseNumber) == "" {
		verr.Add("caseNumber", "is required")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		verr.Add("clientId", "is required")
	}
	if strings.TrimSpace(input.MatterName) == "" {
		verr.Add("matterName", "is required")
	}
	if strings.TrimSpace(input.MatterType) == "" {
		verr.Add("matterType", "is required")
	}
	if input.EstimatedValue != nil {
		verr.AddErr("estimatedValue", domain.ValidateNonNegative(*input.EstimatedValue))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	opening := input.OpeningDate
	if opening.IsZero() {
		opening = now.Truncate(24 * time.Hour)
	}

	matter := &domain.Matter{
		ID:                  uc.idGen.Generate(),
		CaseNumber:          strings.TrimSpace(input.CaseNumber),
		ClientID:            client.ID,
		ClientName:          client.ClientName,
		MatterName:          strings.TrimSpace(input.MatterName),
		MatterType:          input.MatterType,
		Status:              domain.MatterStatusOpen,
		AssignedPartnerID:   input.AssignedPartnerID,
		AssignedAssociateID: input.AssignedAssociateID,
		Description:         input.Description,
		OpeningDate:         opening,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.EstimatedValue != nil {
		matter.EstimatedValue = decimal.NewNullDecimal(*input.EstimatedValue)
	}

	if err := uc.matterRepo.Create(ctx, matter); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.ActorID, domain.AuditActionMatterCreate, domain.ResourceMatter, matter.ID, nil, matter)

	uc.logger.Info().Str("matter_id", matter.ID).Str("case_number", matter.CaseNumber).Msg("matter created")

	return matter, nil
}

// Update applies the non-nil fields of update.
func (uc *MatterUseCase) Update(ctx context.Context, actorID, id string, update domain.MatterUpdate) (*domain.Matter, error) {
	if update.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}

	verr := &domain.ValidationError{}
	if update.Status != nil && !update.Status.IsValid() {
		verr.Add("status", "must be Open, Pending or Closed")
	}
	if update.MatterName != nil && strings.TrimSpace(*update.MatterName) == "" {
		verr.Add("matterName", "cannot be empty")
	}
	if update.EstimatedValue != nil {
		verr.AddErr("estimatedValue", domain.ValidateNonNegative(*update.EstimatedValue))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	before, err := uc.matterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	matter, err := uc.matterRepo.Update(ctx, id, update, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actorID, domain.AuditActionMatterUpdate, domain.ResourceMatter, id, before, matter)

	return matter, nil
}

// AddTimeEntryInput is the input for AddTimeEntry.
type AddTimeEntryInput struct {
	EntryDate   time.Time
	MatterID    string
	ActorID     string
	Description string
	Hours       decimal.Decimal
	IsBillable  bool
}

// AddTimeEntry records time on a matter at the acting user's hourly rate.
func (uc *MatterUseCase) AddTimeEntry(ctx context.Context, input AddTimeEntryInput) (*domain.TimeEntry, error) {
	verr := &domain.ValidationError{}
	verr.AddErr("entryDate", domain.ValidateDate(input.EntryDate))
	verr.AddErr("hours", domain.ValidateHours(input.Hours))
	verr.AddErr("description", domain.ValidateDescription(input.Description))
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if _, err := uc.matterRepo.GetByID(ctx, input.MatterID); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	entry := &domain.TimeEntry{
		ID:          uc.idGen.Generate(),
		MatterID:    input.MatterID,
		UserID:      user.ID,
		UserName:    user.Name,
		EntryDate:   input.EntryDate,
		Hours:       input.Hours,
		HourlyRate:  user.HourlyRate,
		Description: input.Description,
		IsBillable:  input.IsBillable,
		CreatedAt:   uc.now().UTC(),
	}

	if err := uc.timeRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// DashboardStats summarises matters, unbilled time and trust funds held.
func (uc *MatterUseCase) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return uc.matterRepo.DashboardStats(ctx, RecentActivityLimit)
}

// audit failures are logged rather than failing an already-committed change.
func (uc *MatterUseCase) audit(ctx context.Context, actorID string, action domain.AuditAction, resourceType, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	log := newAuditLog(ctx, actorID, action, resourceType, resourceID, before, after, uc.now().UTC())
	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Error().Err(err).Str("resource_id", resourceID).Str("action", string(action)).Msg("audit log write failed")
	}
}
