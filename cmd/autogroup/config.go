package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/en9inerd/autogroup"
	"github.com/spf13/viper"
)

// configPathEnv overrides the config file location.
const configPathEnv = "AUTOGROUP_CONFIG_FILE"

// fileConfig mirrors the bridge's auto_manage_tg_config block plus the
// settings this command needs to run on its own.
type fileConfig struct {
	AutoManageTG  bool              `mapstructure:"auto_manage_tg"`
	APIID         int               `mapstructure:"tg_api_id"`
	APIHash       string            `mapstructure:"tg_api_hash"`
	AutoCreate    []string          `mapstructure:"auto_create_tg_group"`
	MPLinkGroupID int64             `mapstructure:"mq_auto_link_group_id"`
	Folders       map[string]string `mapstructure:"auto_add_group_to_folder"`
	Archive       []string          `mapstructure:"auto_archive_create_tg_group"`
	Mute          []string          `mapstructure:"auto_mute_created_tg_group"`
	PhotoViaUser  bool              `mapstructure:"photo_via_user"`

	BotToken        string   `mapstructure:"bot_token"`
	SessionDir      string   `mapstructure:"session_dir"`
	Database        string   `mapstructure:"database"`
	AvatarDir       string   `mapstructure:"avatar_dir"`
	MasterChannelID string   `mapstructure:"master_channel_id"`
	Channels        []string `mapstructure:"channels"`

	Log  logConfig  `mapstructure:"log"`
	HTTP httpConfig `mapstructure:"http"`
}

type httpConfig struct {
	Addr string `mapstructure:"addr"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".autogroup"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("AUTOGROUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper, so env overrides apply
	// even when the file omits them.
	v.SetDefault("auto_manage_tg", false)
	v.SetDefault("tg_api_id", 0)
	v.SetDefault("tg_api_hash", "")
	v.SetDefault("mq_auto_link_group_id", 0)
	v.SetDefault("photo_via_user", false)
	v.SetDefault("bot_token", "")
	v.SetDefault("session_dir", "./session")
	v.SetDefault("database", "./autogroup.db")
	v.SetDefault("avatar_dir", "")
	v.SetDefault("master_channel_id", autogroup.DefaultMasterChannelID)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.verbose", false)
	v.SetDefault("http.addr", "127.0.0.1:8484")

	return v
}

// loadConfig reads the config file at path, or searches the default
// locations when path is empty. A missing file is not an error.
func loadConfig(path string) (*fileConfig, error) {
	v := newViper()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(configPathEnv))
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// managerConfig converts the file config to the library config.
func (c *fileConfig) managerConfig() (autogroup.Config, error) {
	autoCreate, err := autogroup.ParseTypeSet(c.AutoCreate)
	if err != nil {
		return autogroup.Config{}, fmt.Errorf("auto_create_tg_group: %w", err)
	}
	archive, err := autogroup.ParseTypeSet(c.Archive)
	if err != nil {
		return autogroup.Config{}, fmt.Errorf("auto_archive_create_tg_group: %w", err)
	}
	mute, err := autogroup.ParseTypeSet(c.Mute)
	if err != nil {
		return autogroup.Config{}, fmt.Errorf("auto_mute_created_tg_group: %w", err)
	}

	folders := make(map[autogroup.ChatType]string, len(c.Folders))
	for k, title := range c.Folders {
		t, err := autogroup.ParseChatType(k)
		if err != nil {
			return autogroup.Config{}, fmt.Errorf("auto_add_group_to_folder: %w", err)
		}
		folders[t] = title
	}

	return autogroup.Config{
		AutoManage:      c.AutoManageTG,
		APIID:           c.APIID,
		APIHash:         c.APIHash,
		SessionDir:      c.SessionDir,
		MasterChannelID: c.MasterChannelID,
		AutoCreate:      autoCreate,
		MPLinkGroupID:   c.MPLinkGroupID,
		FolderTitles:    folders,
		Archive:         archive,
		Mute:            mute,
		PhotoViaUser:    c.PhotoViaUser,
		Verbose:         c.Log.Verbose,
	}, nil
}
