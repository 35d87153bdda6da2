package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

var trustEntryColumns = []string{
	"id", "matter_id", "transaction_date", "entry_type", "description",
	"reference_number", "amount", "balance", "created_by", "created_at",
}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func trustEntryRow(rows *pgxmock.Rows, id, entryType, amount, balance string, createdAt time.Time) *pgxmock.Rows {
	return rows.AddRow(
		id, "matter-1", timeToPgDate(createdAt), entryType, "Retainer",
		"REF-1", decimalToNumeric(decimal.RequireFromString(amount)),
		decimalToNumeric(decimal.RequireFromString(balance)), "user-1",
		timeToPgTimestamptz(createdAt),
	)
}

func TestNumericConversionRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "5000.00", "1234567.89", "1000000000000"} {
		d := decimal.RequireFromString(s)
		assert.True(t, d.Equal(numericToDecimal(decimalToNumeric(d))), s)
	}

	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
	assert.False(t, numericToNullDecimal(pgtype.Numeric{}).Valid)
}

func TestTrustEntryRepository_CreateUsesTransaction(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTrustEntryRepository(pool)
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tx := beginMockTx(t, pool)
	pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO trust_entries")).
		WithArgs("entry-1", "matter-1", timeToPgDate(now), "Deposit", "Retainer", "REF-1",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", timeToPgTimestamptz(now)).
		WillReturnRows(trustEntryRow(pgxmock.NewRows(trustEntryColumns), "entry-1", "Deposit", "5000.00", "5000.00", now))
	pool.ExpectCommit()

	err := repo.Create(context.Background(), tx, &domain.TrustEntry{
		ID:              "entry-1",
		MatterID:        "matter-1",
		TransactionDate: now,
		Type:            domain.EntryTypeDeposit,
		Description:     "Retainer",
		ReferenceNumber: "REF-1",
		Amount:          decimal.RequireFromString("5000"),
		Balance:         decimal.RequireFromString("5000"),
		CreatedBy:       "user-1",
		CreatedAt:       now,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))

	assertExpectations(t, pool)
}

func TestTrustEntryRepository_LatestOrdersByCreationThenID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTrustEntryRepository(pool)
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	pool.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC\nLIMIT 1")).
		WithArgs("matter-1").
		WillReturnRows(trustEntryRow(pgxmock.NewRows(trustEntryColumns), "entry-2", "Withdrawal", "2000.00", "3000.00", now))

	entry, err := repo.Latest(context.Background(), "matter-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, domain.EntryTypeWithdrawal, entry.Type)
	assert.Equal(t, "3000.00", entry.Balance.StringFixed(2))
	assert.Equal(t, "5000.00", entry.PriorBalance().StringFixed(2))

	assertExpectations(t, pool)
}

func TestTrustEntryRepository_LatestEmptyLedger(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTrustEntryRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("FROM trust_entries")).
		WithArgs("matter-1").
		WillReturnRows(pgxmock.NewRows(trustEntryColumns))

	entry, err := repo.Latest(context.Background(), "matter-1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTrustEntryRepository_History(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTrustEntryRepository(pool)
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(trustEntryColumns)
	trustEntryRow(rows, "entry-1", "Deposit", "5000.00", "5000.00", t0)
	trustEntryRow(rows, "entry-2", "Withdrawal", "2000.00", "3000.00", t0.Add(time.Minute))

	pool.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, id ASC")).
		WithArgs("matter-1").
		WillReturnRows(rows)

	entries, err := repo.History(context.Background(), "matter-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, domain.VerifyContinuity(entries))
}

func TestMatterRepository_LockForTrustUnknownMatter(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMatterRepository(pool)

	tx := beginMockTx(t, pool)
	pool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	pool.ExpectRollback()

	_, err := repo.LockForTrust(context.Background(), tx, "missing")
	require.ErrorIs(t, err, domain.ErrMatterNotFound)
	require.NoError(t, tx.Rollback(context.Background()))

	assertExpectations(t, pool)
}

func TestMatterRepository_CreateDuplicateCaseNumber(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMatterRepository(pool)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO matters")).
		WithArgs(anyArgs(14)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "matters_case_number_key"})

	err := repo.Create(context.Background(), &domain.Matter{ID: "m1", CaseNumber: "LP-2026-001", Status: domain.MatterStatusOpen})
	require.ErrorIs(t, err, domain.ErrDuplicateCaseNumber)
}

func TestMatterRepository_UpdateBuildsSetClause(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMatterRepository(pool)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	name := "Renamed"
	status := domain.MatterStatusClosed

	pool.ExpectExec(regexp.QuoteMeta("UPDATE matters SET matter_name = $1, status = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("Renamed", "Closed", now, "m1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.Update(context.Background(), "m1", domain.MatterUpdate{MatterName: &name, Status: &status}, now)
	require.ErrorIs(t, err, domain.ErrMatterNotFound)

	assertExpectations(t, pool)
}

func TestMatterRepository_GetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMatterRepository(pool)
	opened := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	partner := "user-p"
	partnerName := "Pat Partner"

	rows := pgxmock.NewRows([]string{
		"id", "case_number", "client_id", "client_name", "matter_name", "matter_type", "status",
		"assigned_partner_id", "assigned_associate_id", "partner_name", "associate_name",
		"estimated_value", "description", "opening_date", "closing_date", "created_at", "updated_at",
		"entries", "unbilled",
	}).AddRow(
		"m1", "LP-2026-001", "c1", "Acme Ltd", "Acme v State", "Litigation", "Open",
		&partner, nil, &partnerName, nil,
		decimal.NewNullDecimal(decimal.RequireFromString("25000")), "", opened, nil, opened, opened,
		int64(3), decimal.RequireFromString("1250.005"),
	)

	pool.ExpectQuery(regexp.QuoteMeta("WHERE m.id = $1")).WithArgs("m1").WillReturnRows(rows)

	matter, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.MatterStatusOpen, matter.Status)
	assert.Equal(t, "user-p", matter.AssignedPartnerID)
	assert.Equal(t, "Pat Partner", matter.PartnerName)
	assert.Empty(t, matter.AssignedAssociateID)
	assert.Nil(t, matter.ClosingDate)
	assert.Equal(t, int64(3), matter.TimeEntriesCount)
	assert.Equal(t, "1250.01", matter.UnbilledAmount.StringFixed(2))
}

func TestMatterRepository_ListFiltersAndCounts(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMatterRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM matters m JOIN clients c ON c.id = m.client_id WHERE 1=1 AND m.status = $1 AND (m.case_number ILIKE $2")).
		WithArgs("Open", "%acme%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs("Open", "%acme%", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	matters, total, err := repo.List(context.Background(), domain.MatterFilter{Status: domain.MatterStatusOpen, Search: " acme ", Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, matters)
	assert.Zero(t, total)

	assertExpectations(t, pool)
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := NewUserRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@firm.pg").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@firm.pg")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	pool := newMockPool(t)
	repo := NewUserRepository(pool)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(anyArgs(10)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &domain.User{ID: "u1", Email: "a@firm.pg", Role: domain.RoleStaff})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_UpdatePasswordUnknownUser(t *testing.T) {
	pool := newMockPool(t)
	repo := NewUserRepository(pool)
	now := time.Now().UTC()

	pool.ExpectExec(regexp.QuoteMeta("UPDATE users SET hashed_password")).
		WithArgs("hash", now, "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "u1", "hash", now)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestClientRepository_ListWithSearch(t *testing.T) {
	pool := newMockPool(t)
	repo := NewClientRepository(pool)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "client_name", "client_type", "email", "phone", "address",
		"tin_number", "contact_person", "notes", "created_by", "created_at",
	}).AddRow("c1", "Acme Ltd", "Company", "legal@acme.pg", "", "", "TIN-1", "", "", nil, created)

	pool.ExpectQuery(regexp.QuoteMeta("WHERE client_name ILIKE $1 OR email ILIKE $1 OR tin_number ILIKE $1 ORDER BY client_name LIMIT $2 OFFSET $3")).
		WithArgs("%acme%", 20, 0).
		WillReturnRows(rows)

	clients, err := repo.List(context.Background(), "acme", 20, 0)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Ltd", clients[0].ClientName)
	assert.Empty(t, clients[0].CreatedBy)
}

func TestPayrollRepository_UpdateStatusUnknownRecord(t *testing.T) {
	pool := newMockPool(t)
	repo := NewPayrollRepository(pool)
	paid := time.Date(2026, 5, 31, 15, 4, 0, 0, time.UTC)
	day := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	pool.ExpectExec(regexp.QuoteMeta("UPDATE payroll SET status = $1, payment_date = $2 WHERE id = $3")).
		WithArgs("Paid", &day, "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.UpdateStatus(context.Background(), "p1", domain.PayrollStatusPaid, &paid)
	require.ErrorIs(t, err, domain.ErrPayrollNotFound)
}

func TestPayrollRepository_ListFilterByStaffAndYear(t *testing.T) {
	pool := newMockPool(t)
	repo := NewPayrollRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("p.staff_id = $1 AND EXTRACT(YEAR FROM p.pay_period_start) = $2 ORDER BY p.pay_period_start DESC, p.created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs("u1", 2026, 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	records, err := repo.List(context.Background(), domain.PayrollFilter{StaffID: "u1", Year: 2026, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, records)

	assertExpectations(t, pool)
}

func TestAuditRepository_CreateTxAssignsID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAuditRepository(pool)

	tx := beginMockTx(t, pool)
	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs(pgxmock.AnyArg(), "user-1", "trust.deposit", domain.ResourceTrustEntry, "entry-1",
			"", "", "", []byte(nil), pgxmock.AnyArg(), "success", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	log := &domain.AuditLog{
		UserID:       "user-1",
		Action:       domain.AuditActionTrustDeposit,
		ResourceType: domain.ResourceTrustEntry,
		ResourceID:   "entry-1",
		AfterState:   domain.JSON{"balance": "5000.00"},
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, log))
	require.NoError(t, tx.Commit(context.Background()))
	assert.NotEmpty(t, log.ID)

	assertExpectations(t, pool)
}

func TestULIDGeneratorIsMonotonic(t *testing.T) {
	gen := NewULIDGenerator()
	prev := gen.Generate()
	for i := 0; i < 1000; i++ {
		next := gen.Generate()
		require.Greater(t, next, prev)
		prev = next
	}
}
