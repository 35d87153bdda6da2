package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
)

// TrustUseCase records deposits and withdrawals against a matter's trust
// account and answers balance queries.
type TrustUseCase struct {
	txManager  TransactionManager
	matterRepo MatterRepository
	entryRepo  TrustEntryRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        Clock
}

// NewTrustUseCase creates a new TrustUseCase. auditRepo and m may be nil.
func NewTrustUseCase(
	txManager TransactionManager,
	matterRepo MatterRepository,
	entryRepo TrustEntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *TrustUseCase {
	return &TrustUseCase{
		txManager:  txManager,
		matterRepo: matterRepo,
		entryRepo:  entryRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
		logger:     logger.With().Str("component", "trust").Logger(),
		now:        systemClock,
	}
}

// WithClock replaces the time source.
func (uc *TrustUseCase) WithClock(clock Clock) *TrustUseCase {
	uc.now = clock
	return uc
}

// RecordTrustEntryInput is the input shared by deposits and withdrawals.
type RecordTrustEntryInput struct {
	TransactionDate time.Time
	MatterID        string
	ActorID         string
	Description     string
	ReferenceNumber string
	Amount          decimal.Decimal
}

// RecordDeposit appends a deposit to the matter's trust ledger.
func (uc *TrustUseCase) RecordDeposit(ctx context.Context, input RecordTrustEntryInput) (*domain.TrustEntry, error) {
	return uc.record(ctx, domain.EntryTypeDeposit, input)
}

// RecordWithdrawal appends a withdrawal, failing with
// *domain.InsufficientFundsError when the balance cannot cover it.
func (uc *TrustUseCase) RecordWithdrawal(ctx context.Context, input RecordTrustEntryInput) (*domain.TrustEntry, error) {
	return uc.record(ctx, domain.EntryTypeWithdrawal, input)
}

func (uc *TrustUseCase) record(ctx context.Context, entryType domain.EntryType, input RecordTrustEntryInput) (*domain.TrustEntry, error) {
	start := time.Now()

	if err := domain.ValidateTrustRequest(input.MatterID, input.ActorID, input.Description, input.Amount, input.TransactionDate); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Serializes every writer for this matter until commit or rollback.
	if _, err := uc.matterRepo.LockForTrust(txCtx, tx, input.MatterID); err != nil {
		uc.recordError(err)
		return nil, err
	}

	latest, err := uc.entryRepo.LatestTx(txCtx, tx, input.MatterID)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	account := domain.NewTrustAccount(input.MatterID, latest)

	balance, err := account.Apply(entryType, input.Amount)
	if err != nil {
		uc.recordError(err)
		if errors.Is(err, domain.ErrInsufficientFunds) {
			uc.logger.Info().
				Str("matter_id", input.MatterID).
				Str("available", account.Balance.StringFixed(2)).
				Str("requested", input.Amount.StringFixed(2)).
				Msg("withdrawal rejected")
		}
		return nil, err
	}

	entry := &domain.TrustEntry{
		ID:              uc.idGen.Generate(),
		MatterID:        input.MatterID,
		TransactionDate: input.TransactionDate,
		Type:            entryType,
		Amount:          input.Amount,
		Balance:         balance,
		Description:     input.Description,
		ReferenceNumber: input.ReferenceNumber,
		CreatedBy:       input.ActorID,
		CreatedAt:       uc.createdAt(latest),
	}

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.auditRepo != nil {
		action := domain.AuditActionTrustDeposit
		if entryType == domain.EntryTypeWithdrawal {
			action = domain.AuditActionTrustWithdrawal
		}

		auditLog := newAuditLog(ctx, input.ActorID, action, domain.ResourceTrustEntry, entry.ID,
			domain.JSON{"balance": entry.PriorBalance().StringFixed(2)}, entry, entry.CreatedAt)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		amount, _ := entry.Amount.Float64()
		uc.metrics.TrustEntries.WithLabelValues(string(entryType)).Inc()
		uc.metrics.TrustAmount.WithLabelValues(string(entryType)).Observe(amount)
		uc.metrics.TrustDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("matter_id", entry.MatterID).
		Str("entry_id", entry.ID).
		Str("type", string(entry.Type)).
		Str("amount", entry.Amount.StringFixed(2)).
		Str("balance", entry.Balance.StringFixed(2)).
		Msg("trust entry recorded")

	return entry, nil
}

// createdAt returns a timestamp strictly after the prior latest entry so
// creation order stays total even when the wall clock steps backwards.
// Postgres stores microseconds.
func (uc *TrustUseCase) createdAt(latest *domain.TrustEntry) time.Time {
	now := uc.now().UTC().Truncate(time.Microsecond)
	if latest != nil && !now.After(latest.CreatedAt) {
		return latest.CreatedAt.Add(time.Microsecond)
	}
	return now
}

func (uc *TrustUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.TrustInsufficientFunds.Inc()
		uc.metrics.TrustErrors.WithLabelValues("insufficient_funds").Inc()
	case errors.Is(err, domain.ErrMatterNotFound):
		uc.metrics.TrustErrors.WithLabelValues("matter_not_found").Inc()
	default:
		uc.metrics.TrustErrors.WithLabelValues("internal").Inc()
	}
}

// GetBalance returns the matter's current trust account, derived from the
// most recently written entry. Zero when the matter has no entries.
func (uc *TrustUseCase) GetBalance(ctx context.Context, matterID string) (domain.TrustAccount, error) {
	if _, err := uc.matterRepo.GetByID(ctx, matterID); err != nil {
		return domain.TrustAccount{}, err
	}

	latest, err := uc.entryRepo.Latest(ctx, matterID)
	if err != nil {
		return domain.TrustAccount{}, err
	}

	return domain.NewTrustAccount(matterID, latest), nil
}

// ListEntries returns the matter's entries newest first.
func (uc *TrustUseCase) ListEntries(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	if _, err := uc.matterRepo.GetByID(ctx, matterID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByMatter(ctx, matterID, limit, offset)
}

// TrustReconciliation reports whether a matter's ledger is internally
// consistent.
type TrustReconciliation struct {
	CheckedAt         time.Time
	Break             *domain.ContinuityBreak
	MatterID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	TotalDeposits     decimal.Decimal
	TotalWithdrawals  decimal.Decimal
	EntryCount        int
	Consistent        bool
}

// Reconcile replays the matter's full history and checks balance
// continuity and the non-negative invariant.
func (uc *TrustUseCase) Reconcile(ctx context.Context, matterID string) (*TrustReconciliation, error) {
	if _, err := uc.matterRepo.GetByID(ctx, matterID); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.History(ctx, matterID)
	if err != nil {
		return nil, err
	}

	result := &TrustReconciliation{
		MatterID:          matterID,
		RecordedBalance:   decimal.Zero,
		CalculatedBalance: decimal.Zero,
		TotalDeposits:     decimal.Zero,
		TotalWithdrawals:  decimal.Zero,
		EntryCount:        len(entries),
		CheckedAt:         uc.now().UTC(),
	}

	for _, e := range entries {
		if e.Type == domain.EntryTypeWithdrawal {
			result.TotalWithdrawals = result.TotalWithdrawals.Add(e.Amount)
		} else {
			result.TotalDeposits = result.TotalDeposits.Add(e.Amount)
		}
	}

	result.CalculatedBalance = result.TotalDeposits.Sub(result.TotalWithdrawals)
	if n := len(entries); n > 0 {
		result.RecordedBalance = entries[n-1].Balance
	}

	result.Break = domain.VerifyContinuity(entries)
	result.Consistent = result.Break == nil && result.RecordedBalance.Equal(result.CalculatedBalance)

	if uc.metrics != nil {
		outcome := "consistent"
		if !result.Consistent {
			outcome = "inconsistent"
		}
		uc.metrics.TrustReconciliations.WithLabelValues(outcome).Inc()
	}

	if !result.Consistent {
		ev := uc.logger.Warn().Str("matter_id", matterID)
		if result.Break != nil {
			ev = ev.Str("entry_id", result.Break.EntryID)
		}
		ev.Msg("trust ledger inconsistent")
	}

	return result, nil
}
