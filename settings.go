package autogroup

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// archiveFolderID is the peer folder Telegram uses for archived chats.
const archiveFolderID = 1

func (m *Manager) archiveIfNeeded(ctx context.Context, api *tg.Client, chat Chat, peer tg.InputPeerClass) error {
	if !m.config.Archive.Contains(chat) {
		return nil
	}

	if _, err := api.FoldersEditPeerFolders(ctx, []tg.InputFolderPeer{
		{Peer: peer, FolderID: archiveFolderID},
	}); err != nil {
		return fmt.Errorf("failed to archive: %w", err)
	}

	m.logger.Debug("archived group", "for", chat.Key())
	return nil
}

func (m *Manager) muteIfNeeded(ctx context.Context, api *tg.Client, chat Chat, peer tg.InputPeerClass) error {
	if !m.config.Mute.Contains(chat) {
		return nil
	}

	ok, err := api.AccountUpdateNotifySettings(ctx, &tg.AccountUpdateNotifySettingsRequest{
		Peer:     &tg.InputNotifyPeer{Peer: peer},
		Settings: tg.InputPeerNotifySettings{Silent: true},
	})
	if err != nil {
		return fmt.Errorf("failed to mute: %w", err)
	}
	if !ok {
		return fmt.Errorf("notify settings were not updated")
	}

	m.logger.Debug("muted group", "for", chat.Key())
	return nil
}
