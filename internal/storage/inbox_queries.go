package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"shoptalk/backend/internal/models"
)

// PinnedChatIDs returns every pinned chat id for the given account, newest
// activity first. Pinned chats are never paginated: the full set ships with
// the first page so the client can render the pin block at once.
// Chat id ascending is the tie-break when two rows share a timestamp.
func (s *Service) PinnedChatIDs(ctx context.Context, ref models.AccountRef) ([]uint, error) {
	var ids []uint
	err := s.DB.WithContext(ctx).
		Table("chat_participants AS p").
		Joins("JOIN chat_user_mappings AS m ON p.mapping_user_id = m.mapping_user_id").
		Where("m.user_type = ? AND m.ref_id = ?", ref.Kind, ref.RefID).
		Where("p.pinned = ?", true).
		Order("p.last_modified_date DESC, p.chat_id ASC").
		Pluck("p.chat_id", &ids).Error
	if err != nil {
		log.Printf("ERROR: Failed to load pinned chats for %s/%d: %v", ref.Kind, ref.RefID, err)
		return nil, err
	}
	return ids, nil
}

// UnpinnedChatIDs returns one keyset page of unpinned chat ids for the given
// account, newest activity first, at most limit rows. A nil before leaves the
// upper bound open (first fetch); otherwise only rows with
// last_modified_date <= before qualify. The comparison is inclusive, so the
// caller must advance its watermark strictly past the last returned row.
func (s *Service) UnpinnedChatIDs(ctx context.Context, ref models.AccountRef, before *time.Time, limit int) ([]uint, error) {
	query := s.DB.WithContext(ctx).
		Table("chat_participants AS p").
		Joins("JOIN chat_user_mappings AS m ON p.mapping_user_id = m.mapping_user_id").
		Where("m.user_type = ? AND m.ref_id = ?", ref.Kind, ref.RefID).
		Where("p.pinned = ?", false)
	if before != nil {
		query = query.Where("p.last_modified_date <= ?", *before)
	}

	var ids []uint
	err := query.
		Order("p.last_modified_date DESC, p.chat_id ASC").
		Limit(limit).
		Pluck("p.chat_id", &ids).Error
	if err != nil {
		log.Printf("ERROR: Failed to load unpinned chat page for %s/%d: %v", ref.Kind, ref.RefID, err)
		return nil, err
	}
	return ids, nil
}

// ParticipantState loads the account's membership row for one chat, or nil if
// the row vanished between the id fetch and the projection.
func (s *Service) ParticipantState(ctx context.Context, chatID uint, ref models.AccountRef) (*models.ChatParticipant, error) {
	var participant models.ChatParticipant
	err := s.DB.WithContext(ctx).
		Joins("JOIN chat_user_mappings AS m ON chat_participants.mapping_user_id = m.mapping_user_id").
		Where("chat_participants.chat_id = ?", chatID).
		Where("m.user_type = ? AND m.ref_id = ?", ref.Kind, ref.RefID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load participant state for chat %d: %v", chatID, err)
		return nil, err
	}
	return &participant, nil
}

// ChatParticipants returns every membership row of a chat together with the
// account reference it belongs to. Identity is resolved by the caller, per
// kind; no single join covers all three account tables.
func (s *Service) ChatParticipants(ctx context.Context, chatID uint) ([]models.ParticipantRow, error) {
	var raw []struct {
		ChatID           uint
		MappingUserID    uint
		Pinned           bool
		Notify           models.NotifySetting
		UnreadMessages   int
		LastReadingAt    *time.Time
		LastModifiedDate time.Time
		UserType         models.ParticipantKind
		RefID            uint
	}
	err := s.DB.WithContext(ctx).
		Table("chat_participants AS p").
		Select("p.*, m.user_type, m.ref_id").
		Joins("JOIN chat_user_mappings AS m ON p.mapping_user_id = m.mapping_user_id").
		Where("p.chat_id = ?", chatID).
		Scan(&raw).Error
	if err != nil {
		log.Printf("ERROR: Failed to load participants for chat %d: %v", chatID, err)
		return nil, err
	}

	rows := make([]models.ParticipantRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, models.ParticipantRow{
			Participant: models.ChatParticipant{
				ChatID:           r.ChatID,
				MappingUserID:    r.MappingUserID,
				Pinned:           r.Pinned,
				Notify:           r.Notify,
				UnreadMessages:   r.UnreadMessages,
				LastReadingAt:    r.LastReadingAt,
				LastModifiedDate: r.LastModifiedDate,
			},
			Account: models.AccountRef{Kind: r.UserType, RefID: r.RefID},
		})
	}
	return rows, nil
}

// mappingFor resolves the internal mapping row for a logical account.
func (s *Service) mappingFor(ctx context.Context, ref models.AccountRef) (*models.UserMapping, error) {
	var mapping models.UserMapping
	err := s.DB.WithContext(ctx).
		Where("user_type = ? AND ref_id = ?", ref.Kind, ref.RefID).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// SetPinned toggles the pin flag. Pinning counts as conversation activity, so
// the recency timestamp is bumped as well.
func (s *Service) SetPinned(ctx context.Context, chatID uint, ref models.AccountRef, pinned bool) error {
	mapping, err := s.mappingFor(ctx, ref)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND mapping_user_id = ?", chatID, mapping.MappingUserID).
		Updates(map[string]interface{}{
			"pinned":             pinned,
			"last_modified_date": time.Now(),
		})
	if res.Error != nil {
		log.Printf("ERROR: Failed to set pinned=%v on chat %d: %v", pinned, chatID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetNotify updates the notification preference. Unlike pinning this is not
// an activity event and leaves the recency timestamp alone.
func (s *Service) SetNotify(ctx context.Context, chatID uint, ref models.AccountRef, setting models.NotifySetting) error {
	mapping, err := s.mappingFor(ctx, ref)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND mapping_user_id = ?", chatID, mapping.MappingUserID).
		Update("notify", setting)
	if res.Error != nil {
		log.Printf("ERROR: Failed to set notify on chat %d: %v", chatID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRead zeroes the unread counter and stamps the read time.
func (s *Service) MarkRead(ctx context.Context, chatID uint, ref models.AccountRef) error {
	mapping, err := s.mappingFor(ctx, ref)
	if err != nil {
		return err
	}
	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND mapping_user_id = ?", chatID, mapping.MappingUserID).
		Updates(map[string]interface{}{
			"unread_messages": 0,
			"last_reading_at": now,
		})
	if res.Error != nil {
		log.Printf("ERROR: Failed to mark chat %d read: %v", chatID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveMessage appends a message and applies its inbox side effects in one
// transaction: every membership row of the chat gets a fresh recency
// timestamp, and everyone but the sender gets an unread increment.
func (s *Service) SaveMessage(ctx context.Context, chatID uint, sender models.AccountRef, content string) (*models.ChatMessage, error) {
	mapping, err := s.mappingFor(ctx, sender)
	if err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		ChatID:        chatID,
		MappingUserID: mapping.MappingUserID,
		Content:       content,
		CreatedAt:     time.Now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership models.ChatParticipant
		if err := tx.Where("chat_id = ? AND mapping_user_id = ?", chatID, mapping.MappingUserID).
			First(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		now := message.CreatedAt
		if err := tx.Model(&models.ChatParticipant{}).
			Where("chat_id = ?", chatID).
			Update("last_modified_date", now).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatParticipant{}).
			Where("chat_id = ? AND mapping_user_id <> ?", chatID, mapping.MappingUserID).
			Update("unread_messages", gorm.Expr("unread_messages + 1")).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("ERROR: Failed to save message for chat %d: %v", chatID, err)
		}
		return nil, err
	}
	return &message, nil
}

// CreateChat creates a chat room with one membership row per participant.
func (s *Service) CreateChat(ctx context.Context, participants []models.AccountRef) (*models.ChatRoom, error) {
	room := models.ChatRoom{CreatedAt: time.Now()}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		for _, ref := range participants {
			var mapping models.UserMapping
			if err := tx.Where("user_type = ? AND ref_id = ?", ref.Kind, ref.RefID).
				FirstOrCreate(&mapping, models.UserMapping{UserType: ref.Kind, RefID: ref.RefID}).Error; err != nil {
				return err
			}
			participant := models.ChatParticipant{
				ChatID:           room.ChatID,
				MappingUserID:    mapping.MappingUserID,
				Notify:           models.NotifyOn,
				LastModifiedDate: room.CreatedAt,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to create chat: %v", err)
		return nil, err
	}
	return &room, nil
}
