package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shoptalk/backend/internal/config"
	"shoptalk/backend/internal/inbox"
	"shoptalk/backend/internal/models"
	"shoptalk/backend/internal/storage"
)

// ListChats serves one inbox page. Query parameters: size (defaults to
// config.DefaultPageSize, capped at MaxPageSize) and before, a unix
// millisecond watermark; omit before for the first page. The caller advances
// before to a value strictly below last_modified_at of the last returned
// item; a page shorter than size means the inbox is exhausted.
func (h *Handler) ListChats(c *gin.Context) {
	ref := participantFrom(c)

	size := config.DefaultPageSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size parameter"})
			return
		}
		size = parsed
	}
	if size > config.MaxPageSize {
		size = config.MaxPageSize
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		millis, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed watermark"})
			return
		}
		watermark := time.UnixMilli(millis)
		before = &watermark
	}

	chats, err := h.Inbox.ListConversations(c.Request.Context(), ref, size, before)
	if errors.Is(err, inbox.ErrInvalidPageSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// ListChatParticipants serves the resolved roster of one conversation. Only
// members of the conversation may read it.
func (h *Handler) ListChatParticipants(c *gin.Context) {
	ref := participantFrom(c)
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	state, err := h.Storage.ParticipantState(c.Request.Context(), chatID, ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	roster, err := h.Inbox.ListParticipants(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": roster})
}

// PinChat toggles the caller's pin flag for one conversation.
func (h *Handler) PinChat(c *gin.Context) {
	ref := participantFrom(c)
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.Storage.SetPinned(c.Request.Context(), chatID, ref, req.Pinned); err != nil {
		writeMutationError(c, err)
		return
	}
	h.publishEvent(c, chatID, "pin", []models.AccountRef{ref})
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "pinned": req.Pinned})
}

// NotifyChat updates the caller's notification preference for one conversation.
func (h *Handler) NotifyChat(c *gin.Context) {
	ref := participantFrom(c)
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Notify models.NotifySetting `json:"notify"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	switch req.Notify {
	case models.NotifyOn, models.NotifyOff, models.NotifyMentions:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notify setting"})
		return
	}

	if err := h.Storage.SetNotify(c.Request.Context(), chatID, ref, req.Notify); err != nil {
		writeMutationError(c, err)
		return
	}
	h.publishEvent(c, chatID, "notify", []models.AccountRef{ref})
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "notify": req.Notify})
}

// ReadChat zeroes the caller's unread counter and stamps the read time.
func (h *Handler) ReadChat(c *gin.Context) {
	ref := participantFrom(c)
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	if err := h.Storage.MarkRead(c.Request.Context(), chatID, ref); err != nil {
		writeMutationError(c, err)
		return
	}
	h.publishEvent(c, chatID, "read", []models.AccountRef{ref})
	c.Status(http.StatusNoContent)
}

// PostMessage appends a message to a conversation and notifies every
// participant's inbox stream.
func (h *Handler) PostMessage(c *gin.Context) {
	ref := participantFrom(c)
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
		return
	}

	message, err := h.Storage.SaveMessage(c.Request.Context(), chatID, ref, req.Content)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	rows, err := h.Storage.ChatParticipants(c.Request.Context(), chatID)
	if err == nil {
		audience := make([]models.AccountRef, 0, len(rows))
		for _, row := range rows {
			audience = append(audience, row.Account)
		}
		h.publishEvent(c, chatID, "message", audience)
	}
	c.JSON(http.StatusCreated, message)
}

// publishEvent emits an inbox-changed hint. Delivery is best effort; a
// publish failure never fails the request that caused it.
func (h *Handler) publishEvent(c *gin.Context, chatID uint, kind string, audience []models.AccountRef) {
	event := models.InboxEvent{
		EventID:    uuid.New().String(),
		ChatID:     chatID,
		Kind:       kind,
		Audience:   audience,
		OccurredAt: time.Now(),
	}
	if err := h.Storage.PublishInboxEvent(c.Request.Context(), event); err != nil {
		log.Printf("WARNING: Inbox event publish failed for chat %d: %v", chatID, err)
	}
}

func chatIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return 0, false
	}
	return uint(id), true
}

func writeMutationError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}
