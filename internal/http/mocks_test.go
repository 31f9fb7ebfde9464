package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Derakings/Goalsaver/internal/domain"
	"github.com/Derakings/Goalsaver/internal/email"
	"github.com/Derakings/Goalsaver/internal/repository"
)

type mockUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[user.Email]; exists {
		return repository.ErrDuplicateKey
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, addr string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[addr]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.byID[id], nil
}

func (m *mockUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.EmailVerified = true
	m.byID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	m.byID[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.byID[id] = user
	return nil
}

func (m *mockUserRepo) CompleteTutorial(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.TutorialCompleted = true
	m.byID[id] = user
	return nil
}

type mockOTPRepo struct {
	mu      sync.Mutex
	records []domain.OTPRecord
}

func (m *mockOTPRepo) Create(_ context.Context, record domain.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockOTPRepo) ConsumeLatest(_ context.Context, userID, code string, purpose domain.OTPPurpose, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idxs := make([]int, 0, len(m.records))
	for i, r := range m.records {
		if r.UserID == userID && r.Code == code && r.Purpose == purpose && r.Active(now) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return false, nil
	}
	sort.Slice(idxs, func(a, b int) bool {
		return m.records[idxs[a]].CreatedAt.After(m.records[idxs[b]].CreatedAt)
	})
	m.records[idxs[0]].Used = true
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
	kept := m.records[:0]
	var removed int64
	for _, r := range m.records {
		if r.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return removed, nil
}

// latestActiveCode returns the newest unused code for (userID, purpose), as a
// stand-in for reading the verification email.
func (m *mockOTPRepo) latestActiveCode(userID string, purpose domain.OTPPurpose) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best domain.OTPRecord
	for _, r := range m.records {
		if r.UserID == userID && r.Purpose == purpose && !r.Used && !r.CreatedAt.Before(best.CreatedAt) {
			best = r
		}
	}
	return best.Code
}

type mockSender struct {
	mu       sync.Mutex
	messages []email.Message
}

func (m *mockSender) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

type mockNotificationRepo struct {
	mu    sync.Mutex
	saved []domain.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, n)
	return nil
}
