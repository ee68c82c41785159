package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Remindly/pkg/errors"
	"Remindly/pkg/response"
)

// OwnerIDKey is where the resolved owner id lives in the request context.
const OwnerIDKey = "owner_id"

// Owner extracts the owner identity set by the upstream auth gateway.
// Authentication itself happens before traffic reaches this service; a
// request without the header is rejected.
func Owner() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		ownerID := string(c.GetHeader("X-Owner-ID"))
		if ownerID == "" {
			response.Error(ctx, c, errors.OwnerMissing)
			c.Abort()
			return
		}
		c.Set(OwnerIDKey, ownerID)
		c.Next(ctx)
	}
}

// OwnerID reads the owner id stored by Owner.
func OwnerID(c *app.RequestContext) string {
	return c.GetString(OwnerIDKey)
}
