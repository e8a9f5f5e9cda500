package autogroup

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// addToFolder adds the group peer to the folder configured for chat.
func (m *Manager) addToFolder(ctx context.Context, api *tg.Client, chat Chat, peer *tg.InputPeerChat) error {
	title := m.config.folderTitle(chat)
	if title == "" {
		return nil
	}

	filters, err := api.MessagesGetDialogFilters(ctx)
	if err != nil {
		return fmt.Errorf("failed to get folders: %w", err)
	}

	folder, ok := findFolder(filters.Filters, title)
	if !ok {
		m.logger.Debug("folder not found or ambiguous", "title", title)
		return nil
	}

	if !includesChat(folder.IncludePeers, peer.ChatID) {
		folder.IncludePeers = append(folder.IncludePeers, peer)
	}

	updated, err := api.MessagesUpdateDialogFilter(ctx, &tg.MessagesUpdateDialogFilterRequest{
		ID:     folder.ID,
		Filter: folder,
	})
	if err != nil {
		return fmt.Errorf("failed to update folder %q: %w", title, err)
	}
	if !updated {
		return fmt.Errorf("folder %q was not updated", title)
	}

	m.logger.Debug("added group to folder", "chat_id", peer.ChatID, "folder", title)
	return nil
}

// findFolder returns the only regular folder titled title.
func findFolder(filters []tg.DialogFilterClass, title string) (*tg.DialogFilter, bool) {
	var found *tg.DialogFilter
	for _, f := range filters {
		folder, ok := f.(*tg.DialogFilter)
		if !ok || folder.Title.Text != title {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = folder
	}
	return found, found != nil
}

func includesChat(peers []tg.InputPeerClass, chatID int64) bool {
	for _, p := range peers {
		if c, ok := p.(*tg.InputPeerChat); ok && c.ChatID == chatID {
			return true
		}
	}
	return false
}

// FolderInfo describes a chat folder of the user account.
type FolderInfo struct {
	ID    int
	Title string
	// Chats is the number of explicitly included chats.
	Chats int
}

// ListFolders returns the user account's regular chat folders.
func ListFolders(ctx context.Context, client UserClient) ([]FolderInfo, error) {
	api, err := client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	filters, err := api.MessagesGetDialogFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get folders: %w", err)
	}

	var out []FolderInfo
	for _, f := range filters.Filters {
		if folder, ok := f.(*tg.DialogFilter); ok {
			out = append(out, FolderInfo{
				ID:    folder.ID,
				Title: folder.Title.Text,
				Chats: len(folder.IncludePeers),
			})
		}
	}
	return out, nil
}
