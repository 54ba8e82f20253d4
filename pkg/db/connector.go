package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// Opener establishes one connection attempt.
type Opener func(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error)

// Connector hands out a single process-wide Client that is opened on first use.
// A failed connect leaves the connector empty so a later call can try again.
type Connector struct {
	cfg       config.DBConfig
	logg      *logger.Logger
	open      Opener
	onConnect func(ctx context.Context, client *Client) error

	mu     sync.Mutex
	client atomic.Pointer[Client]
}

type ConnectorOption func(*Connector)

// WithOpener replaces the function used for each connection attempt.
func WithOpener(open Opener) ConnectorOption {
	return func(c *Connector) {
		if open != nil {
			c.open = open
		}
	}
}

// WithOnConnect runs fn once per successful connect, before the client is
// handed out. An error closes the new client and leaves the connector empty.
func WithOnConnect(fn func(ctx context.Context, client *Client) error) ConnectorOption {
	return func(c *Connector) {
		c.onConnect = fn
	}
}

func NewConnector(cfg config.DBConfig, logg *logger.Logger, opts ...ConnectorOption) *Connector {
	if logg == nil {
		logg = logger.Nop()
	}
	c := &Connector{cfg: cfg, logg: logg, open: New}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Static returns a connector that always yields client.
func Static(client *Client) *Connector {
	c := &Connector{
		logg: logger.Nop(),
		open: func(context.Context, config.DBConfig, *logger.Logger) (*Client, error) {
			return nil, errors.New("static connector is closed")
		},
	}
	c.client.Store(client)
	return c
}

// Client returns the shared client, connecting first if needed.
func (c *Connector) Client(ctx context.Context) (*Client, error) {
	if existing := c.client.Load(); existing != nil {
		return existing, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.client.Load(); existing != nil {
		return existing, nil
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	if c.onConnect != nil {
		if err := c.onConnect(ctx, client); err != nil {
			if closeErr := client.Close(); closeErr != nil {
				c.logg.Warn(c.logg.WithField(ctx, "error", closeErr.Error()), "failed to close database after connect hook error")
			}
			return nil, fmt.Errorf("database connect hook: %w", err)
		}
	}
	c.client.Store(client)
	return client, nil
}

// Conn returns the GORM handle bound to ctx.
func (c *Connector) Conn(ctx context.Context) (*gorm.DB, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.DB().WithContext(ctx), nil
}

// Ping connects if needed and verifies the datasource.
func (c *Connector) Ping(ctx context.Context) error {
	client, err := c.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

// Close releases the shared client if one was opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client := c.client.Swap(nil)
	if client == nil {
		return nil
	}
	return client.Close()
}

func (c *Connector) connect(ctx context.Context) (*Client, error) {
	attempts := c.cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var client *Client
	attempt := 0
	err := retry.Do(ctx, c.backoff(attempts), func(ctx context.Context) error {
		attempt++
		opened, err := c.open(ctx, c.cfg, c.logg)
		if err != nil {
			warnCtx := c.logg.WithFields(ctx, map[string]any{
				"attempt":      attempt,
				"max_attempts": attempts,
				"error":        err.Error(),
			})
			c.logg.Warn(warnCtx, "database connection attempt failed")
			return retry.RetryableError(err)
		}
		client = opened
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", attempt, err)
	}
	return client, nil
}

// backoff waits ConnectBackoff multiplied by the number of failures so far.
func (c *Connector) backoff(attempts int) retry.Backoff {
	step := c.cfg.ConnectBackoff
	failures := 0
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		failures++
		return time.Duration(failures) * step, false
	})
	return retry.WithMaxRetries(uint64(attempts-1), linear)
}
