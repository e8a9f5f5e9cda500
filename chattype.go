package autogroup

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ChatType is the code used in policy lists to select chats.
type ChatType int

const (
	TypePrivate ChatType = 1
	TypeGroup   ChatType = 2
	TypeSystem  ChatType = 3
	// TypeMP marks official/public accounts. It is a flag on top of the
	// base type and never a Chat's Type on its own.
	TypeMP ChatType = 4
)

var chatTypeNames = map[ChatType]string{
	TypePrivate: "private",
	TypeGroup:   "group",
	TypeSystem:  "system",
	TypeMP:      "mp",
}

func (t ChatType) String() string {
	if name, ok := chatTypeNames[t]; ok {
		return name
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// ParseChatType parses a chat type from its numeric code or its name.
func ParseChatType(s string) (ChatType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := ChatType(n)
		if _, ok := chatTypeNames[t]; ok {
			return t, nil
		}
		return 0, fmt.Errorf("unknown chat type %d", n)
	}
	for t, name := range chatTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown chat type %q", s)
}

// TypeSet is a set of chat types.
type TypeSet []ChatType

// NewTypeSet returns a set holding types.
func NewTypeSet(types ...ChatType) TypeSet {
	return TypeSet(types)
}

// ParseTypeSet parses each element with ParseChatType.
func ParseTypeSet(values []string) (TypeSet, error) {
	var set TypeSet
	for _, v := range values {
		t, err := ParseChatType(v)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(set, t) {
			set = append(set, t)
		}
	}
	return set, nil
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t ChatType) bool {
	return slices.Contains(s, t)
}

// Contains reports whether the set selects chat.
func (s TypeSet) Contains(chat Chat) bool {
	for _, t := range chat.kinds() {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// maxTitleLen is Telegram's limit on chat titles, in characters.
const maxTitleLen = 128

// Chat describes a chat on the external (slave) side of the bridge.
type Chat struct {
	// ChannelID identifies the slave channel the chat belongs to.
	ChannelID string

	// UID is the chat's ID within its channel.
	UID string

	// Name is the chat's display name.
	Name string

	// Alias is a user-defined name that takes precedence over Name.
	Alias string

	// Type is the base chat type: private, group or system.
	Type ChatType

	// IsMP marks official/public accounts.
	IsMP bool
}

// Key returns the association key of the chat.
func (c Chat) Key() string {
	return ChatKey(c.ChannelID, c.UID)
}

// Title returns the title used for the chat's Telegram group.
func (c Chat) Title() string {
	title := strings.TrimSpace(c.Alias)
	if title == "" {
		title = strings.TrimSpace(c.Name)
	}
	if title == "" {
		title = c.UID
	}
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}
	return title
}

// kinds returns the chat types the chat matches, MP first.
func (c Chat) kinds() []ChatType {
	if c.IsMP {
		return []ChatType{TypeMP, c.Type}
	}
	return []ChatType{c.Type}
}
