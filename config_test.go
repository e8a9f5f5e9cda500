package autogroup

import (
	"errors"
	"testing"
)

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"all set", Config{AutoManage: true, APIID: 1, APIHash: "h"}, true},
		{"switched off", Config{APIID: 1, APIHash: "h"}, false},
		{"no api id", Config{AutoManage: true, APIHash: "h"}, false},
		{"no api hash", Config{AutoManage: true, APIID: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (&Config{APIHash: "h"}).validate(); !errors.Is(err, ErrMissingAPIID) {
		t.Errorf("validate() = %v, want ErrMissingAPIID", err)
	}
	if err := (&Config{APIID: 1}).validate(); !errors.Is(err, ErrMissingAPIHash) {
		t.Errorf("validate() = %v, want ErrMissingAPIHash", err)
	}
	if err := (&Config{APIID: 1, APIHash: "h"}).validate(); err != nil {
		t.Errorf("validate() = %v, want nil", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.setDefaults()

	if cfg.SessionDir != "./session" {
		t.Errorf("SessionDir = %q", cfg.SessionDir)
	}
	if cfg.MasterChannelID != DefaultMasterChannelID {
		t.Errorf("MasterChannelID = %q", cfg.MasterChannelID)
	}
	if cfg.Logger == nil {
		t.Error("Logger is nil")
	}
	if cfg.Device.DeviceModel != "autogroup" || cfg.Device.LangCode != "en" {
		t.Errorf("Device = %+v", cfg.Device)
	}

	custom := Config{}
	custom.Device.DeviceModel = "bridge"
	custom.setDefaults()
	if custom.Device.DeviceModel != "bridge" {
		t.Errorf("DeviceModel = %q, want it kept", custom.Device.DeviceModel)
	}
}

func TestConfigFolderTitle(t *testing.T) {
	cfg := Config{FolderTitles: map[ChatType]string{
		TypePrivate: "Friends",
		TypeMP:      "Subscriptions",
	}}

	tests := []struct {
		name string
		chat Chat
		want string
	}{
		{"private", Chat{Type: TypePrivate}, "Friends"},
		{"mp wins", Chat{Type: TypePrivate, IsMP: true}, "Subscriptions"},
		{"group without folder", Chat{Type: TypeGroup}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.folderTitle(tt.chat); got != tt.want {
				t.Errorf("folderTitle() = %q, want %q", got, tt.want)
			}
		})
	}

	noMP := Config{FolderTitles: map[ChatType]string{TypePrivate: "Friends"}}
	if got := noMP.folderTitle(Chat{Type: TypePrivate, IsMP: true}); got != "Friends" {
		t.Errorf("folderTitle() without MP folder = %q, want base type folder", got)
	}
}
