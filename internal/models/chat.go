package models

import "time"

// ParticipantKind tags which of the three disjoint account spaces a chat
// participant belongs to. The three kinds never share an id space, so a
// reference is always (kind, refID), never a bare id.
type ParticipantKind string

const (
	KindUser    ParticipantKind = "user"
	KindCompany ParticipantKind = "company"
	KindAdmin   ParticipantKind = "admin"
)

// Valid reports whether k is one of the three known participant kinds.
func (k ParticipantKind) Valid() bool {
	return k == KindUser || k == KindCompany || k == KindAdmin
}

// NotifySetting is a participant's per-conversation notification preference.
type NotifySetting string

const (
	NotifyOn       NotifySetting = "on"
	NotifyOff      NotifySetting = "off"
	NotifyMentions NotifySetting = "mentions"
)

// AccountRef identifies who a mapping belongs to, independent of the
// mapping's own identifier.
type AccountRef struct {
	Kind  ParticipantKind `json:"kind"`
	RefID uint            `json:"ref_id"`
}

// ChatRoom is a conversation. Rooms are immutable once created; everything
// that changes over time lives on the per-participant ChatParticipant rows.
type ChatRoom struct {
	ChatID    uint      `gorm:"primaryKey" json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// UserMapping links a logical account (kind + refID) to its internal mapping
// id. Chat rows reference mapping ids only; the account spaces stay disjoint.
type UserMapping struct {
	MappingUserID uint            `gorm:"primaryKey" json:"mapping_user_id"`
	UserType      ParticipantKind `gorm:"index:idx_account" json:"user_type"`
	RefID         uint            `gorm:"index:idx_account" json:"ref_id"`
}

func (UserMapping) TableName() string {
	return "chat_user_mappings"
}

// ChatParticipant is one participant's membership state in one conversation:
// pinned flag, notify preference, unread counter and read/recency timestamps.
// LastModifiedDate is the recency signal pagination keys on; it is bumped on
// every activity event and never moves backwards.
type ChatParticipant struct {
	ChatID           uint          `gorm:"primaryKey;autoIncrement:false" json:"chat_id"`
	MappingUserID    uint          `gorm:"primaryKey;autoIncrement:false" json:"mapping_user_id"`
	Pinned           bool          `json:"pinned"`
	Notify           NotifySetting `json:"notify"`
	UnreadMessages   int           `json:"unread_messages"`
	LastReadingAt    *time.Time    `json:"last_reading_at"`
	LastModifiedDate time.Time     `gorm:"index" json:"last_modified_date"`
}

func (ChatParticipant) TableName() string {
	return "chat_participants"
}

// ChatMessage is a stored chat message. The message body itself is outside
// the inbox core; it exists here as the activity source that drives unread
// counters and the recency watermark.
type ChatMessage struct {
	MessageID     uint      `gorm:"primaryKey" json:"message_id"`
	ChatID        uint      `gorm:"index" json:"chat_id"`
	MappingUserID uint      `json:"mapping_user_id"`
	Content       string    `gorm:"type:text" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
