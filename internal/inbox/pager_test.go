package inbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shoptalk/backend/internal/inbox"
	"shoptalk/backend/internal/models"
)

var testRef = models.AccountRef{Kind: models.KindUser, RefID: 7}

// TestPagerRejectsNonPositiveSize verifies that an invalid page size is
// rejected before any store access happens.
func TestPagerRejectsNonPositiveSize(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	// Act
	for _, size := range []int{0, -1} {
		ids, err := pager.Page(context.Background(), testRef, size, nil)

		// Assert
		assert.ErrorIs(t, err, inbox.ErrInvalidPageSize)
		assert.Nil(t, ids)
	}
	store.AssertNotCalled(t, "PinnedChatIDs", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UnpinnedChatIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPagerFirstPageLayout verifies the first-fetch layout: the complete
// pinned set first, then the newest unpinned page, both recency-descending.
func TestPagerFirstPageLayout(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	store.On("PinnedChatIDs", mock.Anything, testRef).Return([]uint{1, 2}, nil).Once()
	store.On("UnpinnedChatIDs", mock.Anything, testRef, (*time.Time)(nil), 2).Return([]uint{3, 4}, nil).Once()

	// Act
	ids, err := pager.Page(context.Background(), testRef, 2, nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4}, ids, "pinned chats must lead, each sub-list ordered by recency")
	store.AssertExpectations(t)
}

// TestPagerFirstPageDeliversAllPins verifies that the pinned set is not
// limited by the page size on first fetch.
func TestPagerFirstPageDeliversAllPins(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	store.On("PinnedChatIDs", mock.Anything, testRef).Return([]uint{10, 11, 12, 13, 14}, nil).Once()
	store.On("UnpinnedChatIDs", mock.Anything, testRef, (*time.Time)(nil), 2).Return([]uint{20}, nil).Once()

	// Act
	ids, err := pager.Page(context.Background(), testRef, 2, nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uint{10, 11, 12, 13, 14, 20}, ids)
}

// TestPagerLaterPageSkipsPins verifies that a watermarked request fetches
// only the unpinned page; pins are assumed already delivered.
func TestPagerLaterPageSkipsPins(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	watermark := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.On("UnpinnedChatIDs", mock.Anything, testRef, &watermark, 3).Return([]uint{5, 6}, nil).Once()

	// Act
	ids, err := pager.Page(context.Background(), testRef, 3, &watermark)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uint{5, 6}, ids)
	store.AssertNotCalled(t, "PinnedChatIDs", mock.Anything, mock.Anything)
}

// TestPagerEmptyInbox verifies that an account with no conversations gets an
// empty page, not an error.
func TestPagerEmptyInbox(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	store.On("PinnedChatIDs", mock.Anything, testRef).Return([]uint{}, nil).Once()
	store.On("UnpinnedChatIDs", mock.Anything, testRef, (*time.Time)(nil), 10).Return([]uint{}, nil).Once()

	// Act
	ids, err := pager.Page(context.Background(), testRef, 10, nil)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

// TestPagerPropagatesStoreError verifies that a failed read surfaces as the
// call's error with no partial result.
func TestPagerPropagatesStoreError(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pager := inbox.NewPager(store)

	storeErr := errors.New("connection reset")
	store.On("PinnedChatIDs", mock.Anything, testRef).Return(nil, storeErr).Once()

	// Act
	ids, err := pager.Page(context.Background(), testRef, 5, nil)

	// Assert
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, ids)
	store.AssertNotCalled(t, "UnpinnedChatIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
