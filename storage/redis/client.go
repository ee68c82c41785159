package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"Remindly/config"
)

// Client wraps the go-redis client together with the key prefix so callers
// never format raw keys themselves.
type Client struct {
	rdb    *redis.Client
	prefix string
}

func New(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	prefix := cfg.RedisPrefix
	if prefix == "" {
		prefix = "rmd"
	}

	return &Client{rdb: rdb, prefix: prefix}, nil
}

func (c *Client) Raw() *redis.Client {
	return c.rdb
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key joins the prefix and parts with ":".
func (c *Client) Key(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(c.prefix)
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}
	return sb.String()
}

// SetNX is a thin passthrough kept so callers avoid reaching into Raw for the
// common lock/mark operations.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}
