package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/internal/middleware"
	"Remindly/internal/model/dto"
	"Remindly/internal/notifyqueue"
	"Remindly/pkg/response"
)

type QueueHandler struct {
	reader     *notifyqueue.Reader
	maintainer *notifyqueue.Maintainer
}

func NewQueueHandler(reader *notifyqueue.Reader, maintainer *notifyqueue.Maintainer) *QueueHandler {
	return &QueueHandler{reader: reader, maintainer: maintainer}
}

// Due lists the caller's currently due, unsent notifications.
func (h *QueueHandler) Due(ctx context.Context, c *app.RequestContext) {
	items, err := h.reader.DueItems(ctx, middleware.OwnerID(c), time.Now())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, dto.DueItemsResponse{Items: items})
}

// Rebuild forces a full queue rebuild for the caller, mainly an operational
// escape hatch when the queue is suspected stale.
func (h *QueueHandler) Rebuild(ctx context.Context, c *app.RequestContext) {
	if err := h.maintainer.RebuildOwner(ctx, middleware.OwnerID(c), time.Now()); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"rebuilt": true})
}
