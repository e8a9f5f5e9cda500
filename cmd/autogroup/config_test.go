package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/en9inerd/autogroup"
	"github.com/google/go-cmp/cmp"
)

const testConfig = `
auto_manage_tg: true
tg_api_id: 12345
tg_api_hash: abcdef
auto_create_tg_group: [private, "2"]
mq_auto_link_group_id: -100123
auto_add_group_to_folder:
  private: Friends
  mp: Rooms
auto_archive_create_tg_group: [system]
auto_mute_created_tg_group: [group, mp]
bot_token: "1:token"
channels: [blueset.wechat]
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if !cfg.AutoManageTG || cfg.APIID != 12345 || cfg.APIHash != "abcdef" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
	if cfg.BotToken != "1:token" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if diff := cmp.Diff([]string{"blueset.wechat"}, cfg.Channels); diff != "" {
		t.Errorf("Channels mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxSize != 100 {
		t.Errorf("log config = %+v", cfg.Log)
	}
	if cfg.HTTP.Addr != "127.0.0.1:8484" {
		t.Errorf("HTTP.Addr = %q, want default", cfg.HTTP.Addr)
	}
	if cfg.MasterChannelID != autogroup.DefaultMasterChannelID {
		t.Errorf("MasterChannelID = %q", cfg.MasterChannelID)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AutoManageTG {
		t.Error("auto management enabled without a config file")
	}
	if cfg.Database != "./autogroup.db" {
		t.Errorf("Database = %q, want default", cfg.Database)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AUTOGROUP_TG_API_HASH", "fromenv")
	t.Setenv("AUTOGROUP_HTTP_ADDR", ":9000")

	cfg, err := loadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIHash != "fromenv" {
		t.Errorf("APIHash = %q, want env value", cfg.APIHash)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("HTTP.Addr = %q, want env value", cfg.HTTP.Addr)
	}
}

func TestManagerConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	got, err := cfg.managerConfig()
	if err != nil {
		t.Fatalf("managerConfig: %v", err)
	}

	if !got.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	if got.MPLinkGroupID != -100123 {
		t.Errorf("MPLinkGroupID = %d", got.MPLinkGroupID)
	}
	if diff := cmp.Diff(autogroup.TypeSet{autogroup.TypePrivate, autogroup.TypeGroup}, got.AutoCreate); diff != "" {
		t.Errorf("AutoCreate mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(autogroup.TypeSet{autogroup.TypeSystem}, got.Archive); diff != "" {
		t.Errorf("Archive mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(autogroup.TypeSet{autogroup.TypeGroup, autogroup.TypeMP}, got.Mute); diff != "" {
		t.Errorf("Mute mismatch (-want +got):\n%s", diff)
	}
	wantFolders := map[autogroup.ChatType]string{
		autogroup.TypePrivate: "Friends",
		autogroup.TypeMP:      "Rooms",
	}
	if diff := cmp.Diff(wantFolders, got.FolderTitles); diff != "" {
		t.Errorf("FolderTitles mismatch (-want +got):\n%s", diff)
	}
}

func TestManagerConfigInvalidType(t *testing.T) {
	cfg := &fileConfig{AutoCreate: []string{"channel"}}
	if _, err := cfg.managerConfig(); err == nil {
		t.Fatal("managerConfig accepted an unknown chat type")
	}
}
