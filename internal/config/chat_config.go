package config

import "time"

const (
	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 50

	// PlatformAdminLabel is the fixed display name shown for platform admin
	// participants. Admin accounts never expose a personal identity in chat.
	PlatformAdminLabel = "平台管理員"

	// Realtime stream
	InboxEventsChannel = "inbox:events"
	WriteWait          = 10 * time.Second
	PongWait           = 60 * time.Second
	PingPeriod         = (PongWait * 9) / 10
	MaxEventSize       = 512

	// Auth
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "shoptalk-chat"
)
