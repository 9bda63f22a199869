package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const adminSessionPrefix = "admin_session:"

type Client struct {
	*redis.Client
}

func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// AdminSessionKey is the key holding the session hash for token.
func AdminSessionKey(token string) string {
	return adminSessionPrefix + token
}
