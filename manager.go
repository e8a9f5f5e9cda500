package autogroup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// ChatSource gives access to the chats of one slave channel.
type ChatSource interface {
	// Chat returns the up to date chat with the given UID.
	Chat(ctx context.Context, uid string) (Chat, error)

	// ChatPicture returns the chat's avatar. It returns ErrNoPicture when
	// the chat has none. The caller closes the reader.
	ChatPicture(ctx context.Context, chat Chat) (io.ReadCloser, error)
}

// Options configures a Manager.
type Options struct {
	Config Config

	// Client is the user account creating groups. It may be nil when
	// Config.Enabled() is false.
	Client UserClient

	// Bot is the bridge bot added to every created group.
	Bot Bot

	// Store holds the chat associations.
	Store Store

	// Sources maps slave channel IDs to their chats, for avatar sync.
	Sources map[string]ChatSource

	// Metrics is optional.
	Metrics *Metrics
}

// Manager creates and configures Telegram groups for external chats.
type Manager struct {
	config  Config
	client  UserClient
	bot     Bot
	store   Store
	sources map[string]ChatSource
	metrics *Metrics
	logger  *slog.Logger
}

// NewManager creates a Manager. Without an enabled configuration and a
// client, the Manager is inert and never creates groups.
func NewManager(opts Options) (*Manager, error) {
	cfg := opts.Config
	cfg.setDefaults()

	if opts.Store == nil {
		return nil, ErrMissingStore
	}

	m := &Manager{
		config:  cfg,
		bot:     opts.Bot,
		store:   opts.Store,
		sources: opts.Sources,
		metrics: opts.Metrics,
		logger:  cfg.Logger.With("component", "autogroup"),
	}

	if cfg.Enabled() && opts.Client != nil {
		if opts.Bot == nil {
			return nil, ErrMissingBot
		}
		m.client = opts.Client
	} else {
		m.logger.Debug("auto group management disabled")
	}

	if m.sources == nil {
		m.sources = make(map[string]ChatSource)
	}
	return m, nil
}

// Enabled reports whether the manager creates groups.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// CreateGroupIfNeeded returns the association key of the Telegram group
// serving chat, creating it when the policy asks for one. It returns ""
// when no group is created or linked.
//
// Only the group creation and the association are reported as errors.
// Post-creation configuration is best effort and only logged.
func (m *Manager) CreateGroupIfNeeded(ctx context.Context, chat Chat) (string, error) {
	if m.client == nil {
		return "", nil
	}

	switch {
	case chat.IsMP && m.config.MPLinkGroupID != 0:
		return m.linkMPGroup(ctx, chat)
	case m.config.AutoCreate.Contains(chat):
		key, err := m.createGroup(ctx, chat)
		if err != nil {
			m.metrics.createFailed()
			return "", err
		}
		return key, nil
	}

	m.logger.Debug("no group needed", "chat", chat.Key(), "type", chat.Type, "mp", chat.IsMP)
	return "", nil
}

// linkMPGroup links an MP chat to the shared MP group.
func (m *Manager) linkMPGroup(ctx context.Context, chat Chat) (string, error) {
	master := m.groupKey(m.config.MPLinkGroupID)
	if err := m.store.Link(ctx, master, chat.Key(), true); err != nil {
		return "", fmt.Errorf("failed to link %s to %s: %w", chat.Key(), master, err)
	}
	m.metrics.mpLinked()

	key, err := m.singleMaster(ctx, chat)
	if err != nil {
		return "", err
	}
	if key == "" {
		m.logger.Debug("could not find group for MP chat",
			"chat", chat.Key(),
			"group_id", strconv.FormatInt(m.config.MPLinkGroupID, 10))
	}
	return key, nil
}

// singleMaster returns the master of chat, or "" unless there is exactly one.
func (m *Manager) singleMaster(ctx context.Context, chat Chat) (string, error) {
	masters, err := m.store.Masters(ctx, chat.Key())
	if err != nil {
		return "", fmt.Errorf("failed to look up group of %s: %w", chat.Key(), err)
	}
	if len(masters) != 1 {
		return "", nil
	}
	return masters[0], nil
}
