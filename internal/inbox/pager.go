// Package inbox implements conversation inbox listing: the pinned-first page
// layout, keyset pagination over the recency watermark, and display identity
// resolution across the three account spaces.
package inbox

import (
	"context"
	"errors"
	"time"

	"shoptalk/backend/internal/models"
)

// ErrInvalidPageSize is returned for a non-positive page size. It is rejected
// before any store access.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Store is the read surface the inbox core needs from persistence. Both id
// queries return chat ids ordered by last_modified_date descending with chat
// id ascending as tie-break.
type Store interface {
	// PinnedChatIDs returns the complete pinned set, no limit.
	PinnedChatIDs(ctx context.Context, ref models.AccountRef) ([]uint, error)
	// UnpinnedChatIDs returns at most limit unpinned chat ids with
	// last_modified_date <= before; nil before leaves the bound open.
	UnpinnedChatIDs(ctx context.Context, ref models.AccountRef, before *time.Time, limit int) ([]uint, error)
	// ParticipantState returns the caller's membership row for one chat, or
	// nil when it vanished between the id fetch and projection.
	ParticipantState(ctx context.Context, chatID uint, ref models.AccountRef) (*models.ChatParticipant, error)
	// ChatParticipants returns every membership row of a chat with the
	// account reference each one belongs to.
	ChatParticipants(ctx context.Context, chatID uint) ([]models.ParticipantRow, error)
}

// Pager computes the ordered chat ids for one inbox page.
type Pager struct {
	store Store
}

func NewPager(store Store) *Pager {
	return &Pager{store: store}
}

// Page implements the two-phase fetch. A nil watermark means first fetch: the
// complete pinned set leads, ordered by recency, followed by the newest
// unpinned page of at most size ids. With a watermark only the unpinned page
// is fetched; pins were already delivered on the first page and are not
// re-fetched.
//
// The watermark comparison is inclusive, so the boundary row stays eligible
// on the next page. Callers must advance the watermark strictly below the
// last returned row's timestamp; the page is exhausted when the unpinned part
// comes back shorter than size.
func (p *Pager) Page(ctx context.Context, ref models.AccountRef, size int, before *time.Time) ([]uint, error) {
	if size <= 0 {
		return nil, ErrInvalidPageSize
	}

	var ids []uint
	if before == nil {
		pinned, err := p.store.PinnedChatIDs(ctx, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, pinned...)
	}

	unpinned, err := p.store.UnpinnedChatIDs(ctx, ref, before, size)
	if err != nil {
		return nil, err
	}
	return append(ids, unpinned...), nil
}
