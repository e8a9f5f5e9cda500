package autogroup

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// createGroup creates the Telegram group for chat, configures it and links it.
func (m *Manager) createGroup(ctx context.Context, chat Chat) (string, error) {
	api, err := m.client.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to connect user client: %w", err)
	}
	if api == nil {
		return "", fmt.Errorf("failed to connect user client: %w", ErrClientClosed)
	}

	botUser, err := m.resolveBot(ctx, api)
	if err != nil {
		return "", err
	}

	title := chat.Title()
	invited, err := api.MessagesCreateChat(ctx, &tg.MessagesCreateChatRequest{
		Users: []tg.InputUserClass{botUser},
		Title: title,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create group %q: %w", title, err)
	}

	tgChat, ok := chatFromUpdates(invited.Updates)
	if !ok {
		return "", ErrChatNotCreated
	}
	m.metrics.groupCreated()
	m.logger.Info("created group", "title", tgChat.Title, "chat_id", tgChat.ID, "for", chat.Key())

	if len(invited.MissingInvitees) > 0 {
		m.logger.Warn("bot could not be invited", "chat_id", tgChat.ID)
	}

	m.configureGroup(ctx, api, chat, tgChat, botUser)

	master := m.groupKey(botChatID(tgChat.ID))
	if err := m.store.Link(ctx, master, chat.Key(), true); err != nil {
		return "", fmt.Errorf("failed to link %s to %s: %w", chat.Key(), master, err)
	}

	m.updateGroupPhoto(ctx, api, tgChat.ID, master)

	return m.singleMaster(ctx, chat)
}

// configureGroup applies the best-effort post-creation steps.
func (m *Manager) configureGroup(ctx context.Context, api *tg.Client, chat Chat, tgChat *tg.Chat, botUser *tg.InputUser) {
	peer := &tg.InputPeerChat{ChatID: tgChat.ID}

	steps := []struct {
		name string
		fn   func() error
	}{
		{stepPromote, func() error { return promoteBot(ctx, api, tgChat.ID, botUser) }},
		{stepFolder, func() error { return m.addToFolder(ctx, api, chat, peer) }},
		{stepArchive, func() error { return m.archiveIfNeeded(ctx, api, chat, peer) }},
		{stepMute, func() error { return m.muteIfNeeded(ctx, api, chat, peer) }},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			m.metrics.stepFailed(s.name)
			m.logger.Error("failed to configure group",
				"step", s.name,
				"chat_id", tgChat.ID,
				"error", err)
		}
	}
}

// resolveBot resolves the bridge bot to an input user with its access hash.
func (m *Manager) resolveBot(ctx context.Context, api *tg.Client) (*tg.InputUser, error) {
	me, err := m.bot.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot identity: %w", err)
	}
	if me.Username == "" {
		return nil, fmt.Errorf("%w: bot has no username", ErrBotNotResolved)
	}

	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: me.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve @%s: %w", me.Username, err)
	}

	for _, user := range resolved.Users {
		if u, ok := user.(*tg.User); ok && u.ID == me.ID {
			return &tg.InputUser{UserID: u.ID, AccessHash: u.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("%w: @%s", ErrBotNotResolved, me.Username)
}

func promoteBot(ctx context.Context, api *tg.Client, chatID int64, botUser *tg.InputUser) error {
	ok, err := api.MessagesEditChatAdmin(ctx, &tg.MessagesEditChatAdminRequest{
		ChatID:  chatID,
		UserID:  botUser,
		IsAdmin: true,
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bot was not promoted in chat %d", chatID)
	}
	return nil
}

// chatFromUpdates returns the basic group carried by the createChat updates.
func chatFromUpdates(updates tg.UpdatesClass) (*tg.Chat, bool) {
	var chats []tg.ChatClass
	switch u := updates.(type) {
	case *tg.Updates:
		chats = u.Chats
	case *tg.UpdatesCombined:
		chats = u.Chats
	}

	for _, c := range chats {
		if chat, ok := c.(*tg.Chat); ok {
			return chat, true
		}
	}
	return nil, false
}
