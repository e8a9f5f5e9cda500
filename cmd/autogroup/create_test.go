package main

import (
	"testing"

	"github.com/en9inerd/autogroup"
	"github.com/google/go-cmp/cmp"
)

func TestChatFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		want    autogroup.Chat
		wantErr bool
	}{
		{
			name: "defaults to private",
			want: autogroup.Chat{ChannelID: "blueset.wechat", UID: "alice", Type: autogroup.TypePrivate},
		},
		{
			name:  "group with names",
			flags: map[string]string{"type": "group", "name": "Team", "alias": "Work"},
			want: autogroup.Chat{
				ChannelID: "blueset.wechat",
				UID:       "alice",
				Name:      "Team",
				Alias:     "Work",
				Type:      autogroup.TypeGroup,
			},
		},
		{
			name:  "numeric type and mp flag",
			flags: map[string]string{"type": "3", "mp": "true"},
			want: autogroup.Chat{
				ChannelID: "blueset.wechat",
				UID:       "alice",
				Type:      autogroup.TypeSystem,
				IsMP:      true,
			},
		},
		{name: "mp is not a base type", flags: map[string]string{"type": "mp"}, wantErr: true},
		{name: "unknown type", flags: map[string]string{"type": "channel"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := createCmd()
			for k, v := range tt.flags {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("Set(%s): %v", k, err)
				}
			}

			got, err := chatFromFlags(cmd, "blueset.wechat", "alice")
			if (err != nil) != tt.wantErr {
				t.Fatalf("chatFromFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("chatFromFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
