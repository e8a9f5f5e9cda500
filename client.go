package autogroup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// UserClient gives access to the Telegram API as a user account.
type UserClient interface {
	// Connect returns a ready API client, connecting first if needed.
	Connect(ctx context.Context) (*tg.Client, error)
}

// Client is the Telegram user account that creates groups.
//
// The connection is started lazily by the first Connect call and kept
// open in the background until Close.
type Client struct {
	config Config
	client *telegram.Client
	// runner keeps the connection open; it is run in the background.
	runner func(ctx context.Context, ready, done chan struct{})

	mu     sync.Mutex
	api    *tg.Client
	ready  chan struct{}
	done   chan struct{}
	runErr error
	cancel context.CancelFunc

	// State
	loggingIn atomic.Bool
	closed    atomic.Bool
	selfID    atomic.Int64
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.SessionDir, 0700); err != nil {
		return nil, err
	}

	sessionStorage := &session.FileStorage{
		Path: filepath.Join(cfg.SessionDir, "session"),
	}

	client := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		Logger: cfg.zapLogger(),
		Middlewares: []telegram.Middleware{
			newFloodWaitMiddleware(cfg.Logger),
		},
		Device:         cfg.Device,
		SessionStorage: sessionStorage,
	})

	c := &Client{
		config: cfg,
		client: client,
	}
	c.runner = c.run
	return c, nil
}

// Connect returns a ready API client. The first call starts the
// connection in the background; a failed connection is retried by the
// next call.
func (c *Client) Connect(ctx context.Context) (*tg.Client, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if c.loggingIn.Load() {
		return nil, ErrAlreadyRunning
	}

	c.mu.Lock()
	if c.ready == nil {
		runCtx, cancel := context.WithCancel(context.Background())
		c.ready = make(chan struct{})
		c.done = make(chan struct{})
		c.runErr = nil
		c.cancel = cancel
		go c.runner(runCtx, c.ready, c.done)
	}
	ready, done := c.ready, c.done
	c.mu.Unlock()

	select {
	case <-ready:
		c.mu.Lock()
		api := c.api
		c.mu.Unlock()
		if api != nil {
			return api, nil
		}
		// The run ended after becoming ready; done is closed right after
		// api is cleared.
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return c.stopped(done)
	case <-done:
		return c.stopped(done)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// stopped reports why the run owning done ended and clears it so the next
// Connect starts a new one.
func (c *Client) stopped(done chan struct{}) (*tg.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.runErr
	if err == nil {
		err = ErrClientClosed
	}
	if c.done == done {
		c.cancel()
		c.ready, c.done, c.cancel = nil, nil, nil
	}
	return nil, err
}

func (c *Client) run(ctx context.Context, ready, done chan struct{}) {
	err := c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			return ErrNotAuthorized
		}

		self, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		c.selfID.Store(self.ID)

		c.connected(c.client.API(), ready)
		c.config.Logger.Info("user client connected", "id", self.ID, "username", self.Username)

		<-ctx.Done()
		return nil
	})
	if err := c.finished(err, done); !errors.Is(err, ErrClientClosed) {
		c.config.Logger.Error("user client stopped", "error", err)
	}
}

func (c *Client) connected(api *tg.Client, ready chan struct{}) {
	c.mu.Lock()
	c.api = api
	c.mu.Unlock()
	close(ready)
}

// finished records the end of a run. The API is cleared before done is
// closed, so a caller seeing a nil API after ready can wait on done.
func (c *Client) finished(err error, done chan struct{}) error {
	if err == nil || errors.Is(err, context.Canceled) {
		err = ErrClientClosed
	}

	c.mu.Lock()
	c.runErr = err
	c.api = nil
	c.mu.Unlock()
	close(done)
	return err
}

// Login runs the interactive authentication flow and stores the session.
// It must not be called while the client is connected.
func (c *Client) Login(ctx context.Context, authenticator auth.UserAuthenticator) (*tg.User, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	c.mu.Lock()
	connected := c.ready != nil
	c.mu.Unlock()
	if connected || !c.loggingIn.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer c.loggingIn.Store(false)

	var self *tg.User
	err := c.client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(authenticator, auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth: %w", err)
		}

		var err error
		self, err = c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.config.Logger.Info("logged in", "id", self.ID, "username", self.Username)
	return self, nil
}

// SelfID returns the user account ID, or 0 before the first connection.
func (c *Client) SelfID() int64 {
	return c.selfID.Load()
}

// Close stops the background connection and waits for it to finish.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return nil
}
