package autogroup

import (
	"fmt"
	"strconv"
	"strings"
)

// ChatKey returns the association key for a chat of a channel.
func ChatKey(channelID, uid string) string {
	return channelID + " " + uid
}

// ParseChatKey splits an association key into channel ID and chat UID.
func ParseChatKey(key string) (channelID, uid string, err error) {
	channelID, uid, ok := strings.Cut(key, " ")
	if !ok || channelID == "" || uid == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidChatKey, key)
	}
	return channelID, uid, nil
}

// botChatID converts a basic group ID to its Bot API chat ID.
func botChatID(chatID int64) int64 {
	return -chatID
}

// groupKey returns the association key of a Telegram basic group.
func (m *Manager) groupKey(botAPIChatID int64) string {
	return ChatKey(m.config.MasterChannelID, strconv.FormatInt(botAPIChatID, 10))
}
