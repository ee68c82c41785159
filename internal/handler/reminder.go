// Package handler binds HTTP requests to the application services.
package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/internal/middleware"
	"Remindly/internal/model/dto"
	"Remindly/internal/service"
	"Remindly/pkg/response"
)

type ReminderHandler struct {
	reminders *service.ReminderService
}

func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

func (h *ReminderHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := h.reminders.Create(ctx, middleware.OwnerID(c), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *ReminderHandler) Get(ctx context.Context, c *app.RequestContext) {
	item, err := h.reminders.Get(ctx, middleware.OwnerID(c), c.Param("reminder_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *ReminderHandler) List(ctx context.Context, c *app.RequestContext) {
	items, err := h.reminders.List(ctx, middleware.OwnerID(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{"count": len(items)})
}

func (h *ReminderHandler) Update(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateReminderRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := h.reminders.Update(ctx, middleware.OwnerID(c), c.Param("reminder_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *ReminderHandler) Complete(ctx context.Context, c *app.RequestContext) {
	item, err := h.reminders.Complete(ctx, middleware.OwnerID(c), c.Param("reminder_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *ReminderHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.reminders.Delete(ctx, middleware.OwnerID(c), c.Param("reminder_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"deleted": true})
}

func (h *ReminderHandler) Occurrences(ctx context.Context, c *app.RequestContext) {
	var req dto.OccurrencesRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := h.reminders.Occurrences(ctx, middleware.OwnerID(c), c.Param("reminder_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, resp)
}
