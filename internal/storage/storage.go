package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shoptalk/backend/internal/config"
	"shoptalk/backend/internal/models"
)

// ErrNotFound is returned by mutations that target a mapping or participant
// row which does not exist. Read paths never return it: a missing row reads
// back as a nil result.
var ErrNotFound = errors.New("record not found")

type Storage interface {
	// Account lookups. A missing account returns (nil, nil), never an error;
	// identity resolution must degrade gracefully, not abort.
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindCompanyByID(ctx context.Context, id uint) (*models.Company, error)
	FindAdminByID(ctx context.Context, id uint) (*models.Admin, error)

	// Inbox read paths.
	PinnedChatIDs(ctx context.Context, ref models.AccountRef) ([]uint, error)
	UnpinnedChatIDs(ctx context.Context, ref models.AccountRef, before *time.Time, limit int) ([]uint, error)
	ParticipantState(ctx context.Context, chatID uint, ref models.AccountRef) (*models.ChatParticipant, error)
	ChatParticipants(ctx context.Context, chatID uint) ([]models.ParticipantRow, error)

	// Membership state mutations.
	SetPinned(ctx context.Context, chatID uint, ref models.AccountRef, pinned bool) error
	SetNotify(ctx context.Context, chatID uint, ref models.AccountRef, setting models.NotifySetting) error
	MarkRead(ctx context.Context, chatID uint, ref models.AccountRef) error

	// Activity.
	SaveMessage(ctx context.Context, chatID uint, sender models.AccountRef, content string) (*models.ChatMessage, error)
	PublishInboxEvent(ctx context.Context, event models.InboxEvent) error

	// Provisioning.
	CreateChat(ctx context.Context, participants []models.AccountRef) (*models.ChatRoom, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// FindUserByID loads an end-user account, or nil when it no longer exists.
func (s *Service) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load user %d: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// FindCompanyByID loads a company account, or nil when it no longer exists.
func (s *Service) FindCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := s.DB.WithContext(ctx).First(&company, "company_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load company %d: %v", id, err)
		return nil, err
	}
	return &company, nil
}

// FindAdminByID loads a platform admin account, or nil when it no longer exists.
func (s *Service) FindAdminByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	err := s.DB.WithContext(ctx).First(&admin, "admin_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load admin %d: %v", id, err)
		return nil, err
	}
	return &admin, nil
}

// PublishInboxEvent publishes an inbox-changed event to Redis Pub/Sub.
func (s *Service) PublishInboxEvent(ctx context.Context, event models.InboxEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, config.InboxEventsChannel, string(payload)).Err(); err != nil {
		log.Printf("ERROR: Failed to publish inbox event for chat %d: %v", event.ChatID, err)
		return err
	}
	return nil
}

// SubscribeInboxEvents subscribes to the inbox event channel. The caller owns
// the returned PubSub and must close it.
func (s *Service) SubscribeInboxEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.InboxEventsChannel)
}
