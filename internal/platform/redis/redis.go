package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis so the locker and health checks share one connection pool.
type Client struct {
	*redis.Client
	addr     string
	password string
	db       int
}

// Open creates a new Redis client and pings it to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &Client{Client: c, addr: addr, password: password, db: db}, nil
}

// ConnOpts returns the connection settings so other Redis-backed libraries can
// open their own pools against the same server.
func (c *Client) ConnOpts() (addr, password string, db int) {
	return c.addr, c.password, c.db
}
