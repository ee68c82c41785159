package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/internal/middleware"
	"Remindly/internal/model/dto"
	"Remindly/internal/service"
	"Remindly/pkg/response"
)

type RoutineHandler struct {
	routines *service.RoutineService
}

func NewRoutineHandler(routines *service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routines: routines}
}

func (h *RoutineHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateRoutineRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := h.routines.Create(ctx, middleware.OwnerID(c), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *RoutineHandler) Get(ctx context.Context, c *app.RequestContext) {
	item, err := h.routines.Get(ctx, middleware.OwnerID(c), c.Param("routine_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *RoutineHandler) List(ctx context.Context, c *app.RequestContext) {
	items, err := h.routines.List(ctx, middleware.OwnerID(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{"count": len(items)})
}

func (h *RoutineHandler) Update(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateRoutineRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := h.routines.Update(ctx, middleware.OwnerID(c), c.Param("routine_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *RoutineHandler) SetActive(ctx context.Context, c *app.RequestContext) {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := h.routines.SetActive(ctx, middleware.OwnerID(c), c.Param("routine_id"), req.Active)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, item)
}

func (h *RoutineHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.routines.Delete(ctx, middleware.OwnerID(c), c.Param("routine_id")); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"deleted": true})
}
