// Package router declares the HTTP routes.
package router

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"Remindly/internal/handler"
	"Remindly/internal/middleware"
)

type Handlers struct {
	Reminders *handler.ReminderHandler
	Routines  *handler.RoutineHandler
	Contacts  *handler.ContactHandler
	Queue     *handler.QueueHandler
}

func Register(h *server.Hertz, handlers Handlers, tracing app.HandlerFunc, log *zap.Logger) {
	h.Use(middleware.Recover(log))
	if tracing != nil {
		h.Use(tracing)
	}

	h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := h.Group("/v1")
	v1.Use(middleware.Owner())

	reminders := v1.Group("/reminders")
	{
		reminders.GET("", handlers.Reminders.List)
		reminders.POST("", handlers.Reminders.Create)
		reminders.GET("/:reminder_id", handlers.Reminders.Get)
		reminders.PATCH("/:reminder_id", handlers.Reminders.Update)
		reminders.DELETE("/:reminder_id", handlers.Reminders.Delete)
		reminders.POST("/:reminder_id/complete", handlers.Reminders.Complete)
		reminders.POST("/:reminder_id/occurrences", handlers.Reminders.Occurrences)
	}

	routines := v1.Group("/routines")
	{
		routines.GET("", handlers.Routines.List)
		routines.POST("", handlers.Routines.Create)
		routines.GET("/:routine_id", handlers.Routines.Get)
		routines.PATCH("/:routine_id", handlers.Routines.Update)
		routines.DELETE("/:routine_id", handlers.Routines.Delete)
		routines.POST("/:routine_id/active", handlers.Routines.SetActive)
	}

	contacts := v1.Group("/contacts")
	{
		contacts.GET("", handlers.Contacts.List)
		contacts.POST("", handlers.Contacts.Register)
		contacts.DELETE("/:channel", handlers.Contacts.Remove)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.GET("", handlers.Contacts.ListSubscriptions)
		subscriptions.POST("", handlers.Contacts.RegisterSubscription)
		subscriptions.DELETE("/:subscription_id", handlers.Contacts.RemoveSubscription)
	}

	queue := v1.Group("/queue")
	{
		queue.GET("/due", handlers.Queue.Due)
		queue.POST("/rebuild", handlers.Queue.Rebuild)
	}
}
