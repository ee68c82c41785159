package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/internal/middleware"
	"Remindly/internal/model"
	"Remindly/internal/service"
	"Remindly/pkg/response"
)

type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type registerContactRequest struct {
	Channel string `json:"channel" binding:"required"`
	Address string `json:"address" binding:"required"`
}

func (h *ContactHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req registerContactRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	contact, err := h.contacts.RegisterContact(ctx, middleware.OwnerID(c), model.Channel(req.Channel), req.Address)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, contact)
}

func (h *ContactHandler) List(ctx context.Context, c *app.RequestContext) {
	contacts, err := h.contacts.ListContacts(ctx, middleware.OwnerID(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, contacts)
}

func (h *ContactHandler) Remove(ctx context.Context, c *app.RequestContext) {
	channel := model.Channel(c.Param("channel"))
	if err := h.contacts.RemoveContact(ctx, middleware.OwnerID(c), channel); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"deleted": true})
}

type registerSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Device   string `json:"device"`
}

func (h *ContactHandler) RegisterSubscription(ctx context.Context, c *app.RequestContext) {
	var req registerSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	sub, err := h.contacts.RegisterSubscription(ctx, middleware.OwnerID(c), req.Endpoint, req.Device)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, sub)
}

func (h *ContactHandler) ListSubscriptions(ctx context.Context, c *app.RequestContext) {
	subs, err := h.contacts.ListSubscriptions(ctx, middleware.OwnerID(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, subs)
}

func (h *ContactHandler) RemoveSubscription(ctx context.Context, c *app.RequestContext) {
	if err := h.contacts.RemoveSubscription(ctx, middleware.OwnerID(c), c.Param("subscription_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"deleted": true})
}
