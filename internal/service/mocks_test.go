package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Derakings/Goalsaver/internal/domain"
	"github.com/Derakings/Goalsaver/internal/email"
	"github.com/Derakings/Goalsaver/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.usersByEmail[user.Email]; exists {
		return repository.ErrDuplicateKey
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, emailAddr string) (domain.User, error) {
	m.mu.Lock()
	id, ok := m.usersByEmail[emailAddr]
	m.mu.Unlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	return m.update(id, func(u *domain.User) { u.EmailVerified = true })
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	err := m.update(id, func(u *domain.User) {
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.Phone != nil {
			u.Phone = *update.Phone
		}
	})
	if err != nil {
		return domain.User{}, err
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return m.update(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (m *mockUserRepo) CompleteTutorial(_ context.Context, id string) error {
	return m.update(id, func(u *domain.User) { u.TutorialCompleted = true })
}

func (m *mockUserRepo) update(id string, fn func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	fn(&user)
	m.usersByID[id] = user
	return nil
}

type mockOTPRepo struct {
	mu      sync.Mutex
	records []domain.OTPRecord
}

func newMockOTPRepo() *mockOTPRepo {
	return &mockOTPRepo{}
}

func (m *mockOTPRepo) Create(_ context.Context, record domain.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockOTPRepo) ConsumeLatest(_ context.Context, userID, code string, purpose domain.OTPPurpose, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []int
	for i, r := range m.records {
		if r.UserID == userID && r.Code == code && r.Purpose == purpose && !r.Used && now.Before(r.ExpiresAt) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	sort.Slice(candidates, func(a, b int) bool {
		return m.records[candidates[a]].CreatedAt.After(m.records[candidates[b]].CreatedAt)
	})
	m.records[candidates[0]].Used = true
	return true, nil
}

func (m *mockOTPRepo) InvalidateActive(_ context.Context, userID string, purpose domain.OTPPurpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.UserID == userID && r.Purpose == purpose && !r.Used {
			m.records[i].Used = true
		}
	}
	return nil
}

func (m *mockOTPRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.OTPRecord
	var deleted int64
	for _, r := range m.records {
		if r.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// activeFor returns the active records for (userID, purpose) at the instant.
func (m *mockOTPRepo) activeFor(userID string, purpose domain.OTPPurpose, now time.Time) []domain.OTPRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []domain.OTPRecord
	for _, r := range m.records {
		if r.UserID == userID && r.Purpose == purpose && r.Active(now) {
			active = append(active, r)
		}
	}
	return active
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	err           error
}

func (m *mockNotificationRepo) Create(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

type mockSender struct {
	mu       sync.Mutex
	messages []email.Message
	err      error
}

func (m *mockSender) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockSender) sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.messages...)
}

// syncDispatch makes fire-and-forget sends run inline so tests can assert on
// them deterministically.
func syncDispatch(fn func()) { fn() }
