// Package middleware holds the cross-cutting HTTP request plumbing.
package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"Remindly/pkg/errors"
	"Remindly/pkg/response"
)

// Recover converts a handler panic into a 500 response instead of tearing
// down the connection. The stack is logged, never exposed to the client.
func Recover(log *zap.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.String("panic", fmt.Sprintf("%v", r)),
					zap.String("path", string(c.Path())),
					zap.String("method", string(c.Method())),
					zap.ByteString("stack", debug.Stack()))

				response.Error(ctx, c, errors.Definition{
					Code:    "INTERNAL_SERVER_ERROR",
					Message: "Internal server error",
				})
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}
