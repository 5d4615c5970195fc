package inbox_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shoptalk/backend/internal/models"
)

// MockStore is a testify mock implementation of the inbox.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) PinnedChatIDs(ctx context.Context, ref models.AccountRef) ([]uint, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) UnpinnedChatIDs(ctx context.Context, ref models.AccountRef, before *time.Time, limit int) ([]uint, error) {
	args := m.Called(ctx, ref, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStore) ParticipantState(ctx context.Context, chatID uint, ref models.AccountRef) (*models.ChatParticipant, error) {
	args := m.Called(ctx, chatID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatParticipant), args.Error(1)
}

func (m *MockStore) ChatParticipants(ctx context.Context, chatID uint) ([]models.ParticipantRow, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParticipantRow), args.Error(1)
}

// MockDirectory is a testify mock implementation of the inbox.Directory
// interface. Lookups configured to return (nil, nil) simulate accounts that
// no longer exist.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockDirectory) FindCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockDirectory) FindAdminByID(ctx context.Context, id uint) (*models.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}
