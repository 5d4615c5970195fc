package handler

import (
	"shoptalk/backend/internal/inbox"
	"shoptalk/backend/internal/inboxhub"
	"shoptalk/backend/internal/storage"
)

// Handler carries the dependencies of the HTTP surface.
type Handler struct {
	Inbox   *inbox.Service
	Storage storage.Storage
	Hub     *inboxhub.ManagerService

	jwtSecret []byte
}

func NewHandler(inboxSvc *inbox.Service, store storage.Storage, hub *inboxhub.ManagerService, jwtSecret []byte) *Handler {
	return &Handler{
		Inbox:     inboxSvc,
		Storage:   store,
		Hub:       hub,
		jwtSecret: jwtSecret,
	}
}
