//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory entitlement store used by unit tests.
type memUserRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.User
	findErr error // simulate storage failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) FindOrCreate(ctx context.Context, tgID int64) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[tgID]
	if !ok {
		u = model.NewUser(tgID)
		m.store[tgID] = u
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Find(ctx context.Context, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) SetVerified(ctx context.Context, tgID int64, until time.Time, downloads int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[tgID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsVerified = true
	u.VerifiedUntil = &until
	u.DownloadsLeft = downloads
	return nil
}

func (m *memUserRepo) SetPremium(ctx context.Context, tgID int64, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[tgID]
	if !ok {
		u = model.NewUser(tgID)
		m.store[tgID] = u
	}
	u.IsPremium = true
	u.PremiumUntil = &until
	return nil
}

func (m *memUserRepo) ConsumeDownload(ctx context.Context, tgID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[tgID]
	if !ok || u.DownloadsLeft <= 0 {
		return false, nil
	}
	u.DownloadsLeft--
	return true, nil
}

func (m *memUserRepo) SetLastFileCode(ctx context.Context, tgID int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[tgID]; ok {
		u.LastFileCode = code
	}
	return nil
}

func (m *memUserRepo) CountUsers(ctx context.Context) (total, verified, premium int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		total++
		if u.IsVerified {
			verified++
		}
		if u.IsPremium {
			premium++
		}
	}
	return total, verified, premium, nil
}

// seed inserts a user directly, bypassing the repository contract.
func (m *memUserRepo) seed(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.TelegramID] = &cp
}

// memPaymentRepo provides in-memory payment orders for tests.
type memPaymentRepo struct {
	mu     sync.RWMutex
	orders map[string]*model.PaymentOrder
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{orders: make(map[string]*model.PaymentOrder)}
}

func (m *memPaymentRepo) Save(ctx context.Context, o *model.PaymentOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[o.OrderID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := *o
	m.orders[o.OrderID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, orderID string) (*model.PaymentOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memPaymentRepo) MarkPaid(ctx context.Context, orderID string, paidAt, premiumUntil time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != model.PaymentStatusPending {
		return false, nil
	}
	o.Status = model.PaymentStatusPaid
	o.PaidAt = &paidAt
	o.PremiumUntil = &premiumUntil
	return true, nil
}

// memSettingsRepo stores raw overrides plus the audit trail.
type memSettingsRepo struct {
	mu        sync.RWMutex
	overrides map[string]string
	audit     []repository.SettingChange
	loadErr   error
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{overrides: make(map[string]string)}
}

func (m *memSettingsRepo) LoadOverrides(ctx context.Context) (map[string]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out, nil
}

func (m *memSettingsRepo) Set(ctx context.Context, change repository.SettingChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[change.Key] = change.NewValue
	m.audit = append(m.audit, change)
	return nil
}

// memWizardRepo keeps wizard state in a plain map (no TTL in tests).
type memWizardRepo struct {
	mu     sync.RWMutex
	states map[int64]*repository.WizardState
}

func newMemWizardRepo() *memWizardRepo {
	return &memWizardRepo{states: make(map[int64]*repository.WizardState)}
}

func (m *memWizardRepo) GetState(ctx context.Context, tgID int64) (*repository.WizardState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memWizardRepo) SetState(ctx context.Context, tgID int64, state *repository.WizardState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.states[tgID] = &cp
	return nil
}

func (m *memWizardRepo) ClearState(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, tgID)
	return nil
}

// fakeMembership reports a configurable status per channel; channels absent
// from the map read as joined.
type fakeMembership struct {
	statuses map[int64]adapter.MemberStatus
	err      error
}

func (f *fakeMembership) MemberStatus(ctx context.Context, channelID, userID int64) (adapter.MemberStatus, error) {
	if f.err != nil {
		return adapter.MemberStatusUnknown, f.err
	}
	if s, ok := f.statuses[channelID]; ok {
		return s, nil
	}
	return adapter.MemberStatusMember, nil
}

// fakeVerifier returns a fixed verdict.
type fakeVerifier struct {
	ok  bool
	err error
}

func (f *fakeVerifier) Check(ctx context.Context, userID int64, challenge string) (bool, error) {
	return f.ok, f.err
}
