package autogroup

import (
	"errors"
	"strings"
	"testing"
)

func TestParseChatType(t *testing.T) {
	tests := []struct {
		in      string
		want    ChatType
		wantErr bool
	}{
		{in: "1", want: TypePrivate},
		{in: "2", want: TypeGroup},
		{in: "3", want: TypeSystem},
		{in: "4", want: TypeMP},
		{in: "private", want: TypePrivate},
		{in: " Group ", want: TypeGroup},
		{in: "MP", want: TypeMP},
		{in: "5", wantErr: true},
		{in: "channel", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChatType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseChatType(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChatType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseChatType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTypeSet(t *testing.T) {
	set, err := ParseTypeSet([]string{"1", "private", "mp"})
	if err != nil {
		t.Fatalf("ParseTypeSet() error = %v", err)
	}
	if len(set) != 2 || !set.Has(TypePrivate) || !set.Has(TypeMP) {
		t.Errorf("ParseTypeSet() = %v, want [private mp]", set)
	}

	if _, err := ParseTypeSet([]string{"1", "bogus"}); err == nil {
		t.Error("ParseTypeSet() with unknown type: error = nil")
	}
}

func TestTypeSetContains(t *testing.T) {
	private := Chat{Type: TypePrivate}
	group := Chat{Type: TypeGroup}
	system := Chat{Type: TypeSystem}
	mp := Chat{Type: TypePrivate, IsMP: true}

	tests := []struct {
		name string
		set  TypeSet
		chat Chat
		want bool
	}{
		{"private selected", NewTypeSet(TypePrivate), private, true},
		{"group not selected", NewTypeSet(TypePrivate), group, false},
		{"system selected", NewTypeSet(TypeSystem), system, true},
		{"mp by flag", NewTypeSet(TypeMP), mp, true},
		{"mp by base type", NewTypeSet(TypePrivate), mp, true},
		{"mp flag does not select plain private", NewTypeSet(TypeMP), private, false},
		{"empty set", nil, private, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Contains(tt.chat); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChatTitle(t *testing.T) {
	long := strings.Repeat("群", 200)

	tests := []struct {
		name string
		chat Chat
		want string
	}{
		{"alias wins", Chat{UID: "u", Name: "Name", Alias: "Alias"}, "Alias"},
		{"name", Chat{UID: "u", Name: "Name"}, "Name"},
		{"blank alias", Chat{UID: "u", Name: "Name", Alias: "  "}, "Name"},
		{"uid fallback", Chat{UID: "u"}, "u"},
		{"truncated", Chat{UID: "u", Name: long}, strings.Repeat("群", maxTitleLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chat.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseChatKey(t *testing.T) {
	channel, uid, err := ParseChatKey("blueset.wechat wxid_123")
	if err != nil {
		t.Fatalf("ParseChatKey() error = %v", err)
	}
	if channel != "blueset.wechat" || uid != "wxid_123" {
		t.Errorf("ParseChatKey() = %q, %q", channel, uid)
	}

	if got := ChatKey(channel, uid); got != "blueset.wechat wxid_123" {
		t.Errorf("ChatKey() = %q", got)
	}

	for _, bad := range []string{"", "nospace", " uid", "channel "} {
		if _, _, err := ParseChatKey(bad); !errors.Is(err, ErrInvalidChatKey) {
			t.Errorf("ParseChatKey(%q) error = %v, want ErrInvalidChatKey", bad, err)
		}
	}
}
