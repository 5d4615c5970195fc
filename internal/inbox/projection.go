package inbox

import "shoptalk/backend/internal/models"

// Project merges one membership row with its resolved identity into the
// summary handed to callers. Pure transformation; the unread counter is
// clamped at zero in case the storage layer ever hands back a negative value.
func Project(p models.ChatParticipant, id Identity, kind models.ParticipantKind) models.ConversationSummary {
	unread := p.UnreadMessages
	if unread < 0 {
		unread = 0
	}
	return models.ConversationSummary{
		ChatID:         p.ChatID,
		Name:           id.Name,
		Avatar:         id.Avatar,
		Type:           kind,
		Pinned:         p.Pinned,
		Notify:         p.Notify,
		UnreadMessages: unread,
		LastReadingAt:  p.LastReadingAt,
		LastModifiedAt: p.LastModifiedDate,
	}
}

// ProjectParticipant builds one resolved roster entry.
func ProjectParticipant(row models.ParticipantRow, id Identity) models.ParticipantInfo {
	unread := row.Participant.UnreadMessages
	if unread < 0 {
		unread = 0
	}
	return models.ParticipantInfo{
		MappingUserID:  row.Participant.MappingUserID,
		Name:           id.Name,
		Avatar:         id.Avatar,
		Type:           row.Account.Kind,
		Pinned:         row.Participant.Pinned,
		Notify:         row.Participant.Notify,
		UnreadMessages: unread,
		LastReadingAt:  row.Participant.LastReadingAt,
	}
}
