package models

import "time"

// ConversationSummary is the projection returned to inbox callers. It is
// derived at read time and never persisted: membership state comes from the
// caller's ChatParticipant row, identity from the resolved account.
// LastModifiedAt is included so the caller can advance its pagination
// watermark to a value strictly below the last item of the page.
type ConversationSummary struct {
	ChatID         uint            `json:"chat_id"`
	Name           string          `json:"name"`
	Avatar         string          `json:"avatar"`
	Type           ParticipantKind `json:"type"`
	Pinned         bool            `json:"pinned"`
	Notify         NotifySetting   `json:"notify"`
	UnreadMessages int             `json:"unread_messages"`
	LastReadingAt  *time.Time      `json:"last_reading_at"`
	LastModifiedAt time.Time       `json:"last_modified_at"`
}

// ParticipantRow is one roster entry of a conversation: the raw mapping state
// joined with the account reference it belongs to. The identity fields are
// resolved separately, per kind.
type ParticipantRow struct {
	Participant ChatParticipant
	Account     AccountRef
}

// ParticipantInfo is a resolved roster entry as exposed over the API.
type ParticipantInfo struct {
	MappingUserID  uint            `json:"mapping_user_id"`
	Name           string          `json:"name"`
	Avatar         string          `json:"avatar"`
	Type           ParticipantKind `json:"type"`
	Pinned         bool            `json:"pinned"`
	Notify         NotifySetting   `json:"notify"`
	UnreadMessages int             `json:"unread_messages"`
	LastReadingAt  *time.Time      `json:"last_reading_at"`
}

// InboxEvent is published over Redis whenever conversation activity changes a
// participant's inbox (new message, pin toggle, read). Connected websocket
// clients use it as a signal to refetch their first page.
type InboxEvent struct {
	EventID    string       `json:"event_id"`
	ChatID     uint         `json:"chat_id"`
	Kind       string       `json:"kind"` // "message", "pin", "notify", "read"
	Audience   []AccountRef `json:"audience"`
	OccurredAt time.Time    `json:"occurred_at"`
}
