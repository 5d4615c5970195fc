package inbox

import (
	"context"
	"log"
	"time"

	"shoptalk/backend/internal/models"
)

// Service is the externally callable listing surface of the inbox core. It
// orchestrates the pager, the per-chat state loads and identity resolution,
// and preserves the pager's ordering exactly.
type Service struct {
	store    Store
	pager    *Pager
	resolver *Resolver
}

func NewService(store Store, directory Directory) *Service {
	return &Service{
		store:    store,
		pager:    NewPager(store),
		resolver: NewResolver(directory),
	}
}

// ListConversations returns one ordered page of conversation summaries for
// the given account. A nil before requests the first page (full pinned set
// plus newest unpinned page); see Pager.Page for the watermark contract.
// A membership row that disappears mid-flight is skipped, not an error.
func (s *Service) ListConversations(ctx context.Context, ref models.AccountRef, size int, before *time.Time) ([]models.ConversationSummary, error) {
	ids, err := s.pager.Page(ctx, ref, size, before)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(ids))
	for _, chatID := range ids {
		state, err := s.store.ParticipantState(ctx, chatID, ref)
		if err != nil {
			return nil, err
		}
		if state == nil {
			// Raced with a membership removal between the id fetch and now.
			log.Printf("WARNING: Participant state for chat %d vanished mid-listing, skipping", chatID)
			continue
		}

		identity, err := s.resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Project(*state, identity, ref.Kind))
	}
	return summaries, nil
}

// ListParticipants returns the resolved roster of one conversation. Each row
// resolves independently against its own account space.
func (s *Service) ListParticipants(ctx context.Context, chatID uint) ([]models.ParticipantInfo, error) {
	rows, err := s.store.ChatParticipants(ctx, chatID)
	if err != nil {
		return nil, err
	}

	roster := make([]models.ParticipantInfo, 0, len(rows))
	for _, row := range rows {
		identity, err := s.resolver.Resolve(ctx, row.Account)
		if err != nil {
			return nil, err
		}
		roster = append(roster, ProjectParticipant(row, identity))
	}
	return roster, nil
}
