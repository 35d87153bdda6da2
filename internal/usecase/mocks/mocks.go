package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu        sync.Mutex
	commits   int
	rollbacks int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{manager: m}, nil
}

// Commits returns the number of committed transactions.
func (m *MockTransactionManager) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// MockTransaction is a mock implementation of Transaction. Writes staged with
// OnCommit are applied only on Commit; OnEnd hooks run on Commit or the first
// Rollback, releasing row locks the way a database would.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	manager  *MockTransactionManager
	mu       sync.Mutex
	onCommit []func()
	onEnd    []func()
	done     bool
}

// OnCommit stages fn until the transaction commits.
func (m *MockTransaction) OnCommit(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCommit = append(m.onCommit, fn)
}

// OnEnd registers fn to run when the transaction finishes either way.
func (m *MockTransaction) OnEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return fmt.Errorf("tx is closed")
	}
	m.done = true
	commits, ends := m.onCommit, m.onEnd
	m.mu.Unlock()

	for _, fn := range commits {
		fn()
	}
	for _, fn := range ends {
		fn()
	}

	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.commits++
		m.manager.mu.Unlock()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}

	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	ends := m.onEnd
	m.mu.Unlock()

	for _, fn := range ends {
		fn()
	}

	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.rollbacks++
		m.manager.mu.Unlock()
	}
	return nil
}

func stage(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.OnCommit(fn)
		return
	}
	fn()
}

// MockMatterRepository is an in-memory MatterRepository. LockForTrust holds a
// per-matter mutex until the transaction ends.
type MockMatterRepository struct {
	mu      sync.RWMutex
	matters map[string]*domain.Matter
	locks   map[string]*sync.Mutex

	CreateFunc         func(ctx context.Context, matter *domain.Matter) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Matter, error)
	LockForTrustFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Matter, error)
	DashboardStatsFunc func(ctx context.Context, recent int) (*domain.DashboardStats, error)
}

func NewMockMatterRepository() *MockMatterRepository {
	return &MockMatterRepository{
		matters: make(map[string]*domain.Matter),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Seed stores matters directly.
func (m *MockMatterRepository) Seed(matters ...*domain.Matter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, matter := range matters {
		m.matters[matter.ID] = matter
	}
}

func (m *MockMatterRepository) Create(ctx context.Context, matter *domain.Matter) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, matter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.matters {
		if existing.CaseNumber == matter.CaseNumber {
			return domain.ErrDuplicateCaseNumber
		}
	}
	m.matters[matter.ID] = matter
	return nil
}

func (m *MockMatterRepository) GetByID(ctx context.Context, id string) (*domain.Matter, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if matter, ok := m.matters[id]; ok {
		copied := *matter
		return &copied, nil
	}
	return nil, domain.ErrMatterNotFound
}

func (m *MockMatterRepository) LockForTrust(ctx context.Context, tx usecase.Transaction, id string) (*domain.Matter, error) {
	if m.LockForTrustFunc != nil {
		return m.LockForTrustFunc(ctx, tx, id)
	}

	matter, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	if mt, ok := tx.(*MockTransaction); ok {
		mt.OnEnd(lock.Unlock)
	} else {
		lock.Unlock()
	}

	return matter, nil
}

func (m *MockMatterRepository) Update(ctx context.Context, id string, update domain.MatterUpdate, updatedAt time.Time) (*domain.Matter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matter, ok := m.matters[id]
	if !ok {
		return nil, domain.ErrMatterNotFound
	}
	if update.MatterName != nil {
		matter.MatterName = *update.MatterName
	}
	if update.MatterType != nil {
		matter.MatterType = *update.MatterType
	}
	if update.Status != nil {
		matter.Status = *update.Status
	}
	if update.AssignedPartnerID != nil {
		matter.AssignedPartnerID = *update.AssignedPartnerID
	}
	if update.AssignedAssociateID != nil {
		matter.AssignedAssociateID = *update.AssignedAssociateID
	}
	if update.EstimatedValue != nil {
		matter.EstimatedValue = decimal.NewNullDecimal(*update.EstimatedValue)
	}
	if update.Description != nil {
		matter.Description = *update.Description
	}
	if update.ClosingDate != nil {
		matter.ClosingDate = update.ClosingDate
	}
	matter.UpdatedAt = updatedAt
	copied := *matter
	return &copied, nil
}

func (m *MockMatterRepository) List(ctx context.Context, filter domain.MatterFilter) ([]*domain.Matter, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matters []*domain.Matter
	for _, matter := range m.matters {
		if filter.Status != "" && matter.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(matter.MatterName+" "+matter.CaseNumber), strings.ToLower(filter.Search)) {
			continue
		}
		matters = append(matters, matter)
	}
	sort.Slice(matters, func(i, j int) bool { return matters[i].CreatedAt.After(matters[j].CreatedAt) })
	total := int64(len(matters))
	if filter.Offset >= len(matters) {
		return nil, total, nil
	}
	matters = matters[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matters) {
		matters = matters[:filter.Limit]
	}
	return matters, total, nil
}

func (m *MockMatterRepository) DashboardStats(ctx context.Context, recent int) (*domain.DashboardStats, error) {
	if m.DashboardStatsFunc != nil {
		return m.DashboardStatsFunc(ctx, recent)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &domain.DashboardStats{UnbilledHours: decimal.Zero, UnbilledValue: decimal.Zero, TotalTrust: decimal.Zero}
	for _, matter := range m.matters {
		stats.TotalMatters++
		switch matter.Status {
		case domain.MatterStatusOpen:
			stats.OpenMatters++
		case domain.MatterStatusPending:
			stats.PendingMatters++
		case domain.MatterStatusClosed:
			stats.ClosedMatters++
		}
	}
	return stats, nil
}

// MockTrustEntryRepository is an in-memory TrustEntryRepository. Entries
// created inside a MockTransaction become visible on commit.
type MockTrustEntryRepository struct {
	mu      sync.RWMutex
	entries map[string][]*domain.TrustEntry

	CreateFunc   func(ctx context.Context, tx usecase.Transaction, entry *domain.TrustEntry) error
	LatestTxFunc func(ctx context.Context, tx usecase.Transaction, matterID string) (*domain.TrustEntry, error)
}

func NewMockTrustEntryRepository() *MockTrustEntryRepository {
	return &MockTrustEntryRepository{
		entries: make(map[string][]*domain.TrustEntry),
	}
}

func (m *MockTrustEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.TrustEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	stored := *entry
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[stored.MatterID] = append(m.entries[stored.MatterID], &stored)
	})
	return nil
}

func (m *MockTrustEntryRepository) LatestTx(ctx context.Context, tx usecase.Transaction, matterID string) (*domain.TrustEntry, error) {
	if m.LatestTxFunc != nil {
		return m.LatestTxFunc(ctx, tx, matterID)
	}
	return m.Latest(ctx, matterID)
}

func (m *MockTrustEntryRepository) Latest(ctx context.Context, matterID string) (*domain.TrustEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.TrustEntry
	for _, e := range m.entries[matterID] {
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) ||
			(e.CreatedAt.Equal(latest.CreatedAt) && e.ID > latest.ID) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *MockTrustEntryRepository) ListByMatter(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error) {
	history, _ := m.History(ctx, matterID)
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	if offset >= len(history) {
		return nil, nil
	}
	history = history[offset:]
	if limit > 0 && limit < len(history) {
		history = history[:limit]
	}
	return history, nil
}

func (m *MockTrustEntryRepository) History(ctx context.Context, matterID string) ([]*domain.TrustEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.TrustEntry, 0, len(m.entries[matterID]))
	for _, e := range m.entries[matterID] {
		copied := *e
		entries = append(entries, &copied)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Count returns the number of committed entries for a matter.
func (m *MockTrustEntryRepository) Count(matterID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[matterID])
}

// Append stores entries directly, bypassing balance rules.
func (m *MockTrustEntryRepository) Append(entries ...*domain.TrustEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.MatterID] = append(m.entries[e.MatterID], e)
	}
}

// MockClientRepository is an in-memory ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	CreateFunc func(ctx context.Context, client *domain.Client) error
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, client)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if client, ok := m.clients[id]; ok {
		return client, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var clients []*domain.Client
	for _, client := range m.clients {
		if search == "" || strings.Contains(strings.ToLower(client.ClientName), strings.ToLower(search)) {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientName < clients[j].ClientName })
	return clients, nil
}

// MockTimeEntryRepository is an in-memory TimeEntryRepository.
type MockTimeEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.TimeEntry
}

func NewMockTimeEntryRepository() *MockTimeEntryRepository {
	return &MockTimeEntryRepository{}
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockTimeEntryRepository) ListByMatter(ctx context.Context, matterID string) ([]*domain.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.TimeEntry
	for _, e := range m.entries {
		if e.MatterID == matterID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	u.UpdatedAt = updatedAt
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	stage(tx, func() { _ = m.Create(ctx, log) })
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// Logs returns every recorded audit log.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockIDGenerator is a mock implementation of IDGenerator. IDs sort in
// generation order.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%06d", m.counter)
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	ReserveFunc func(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return false, existing, nil
	}
	m.data[key] = nil
	return true, nil, nil
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the number of held keys.
func (m *MockIdempotencyStore) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
