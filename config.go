package autogroup

import (
	"log/slog"

	"github.com/gotd/td/telegram"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultMasterChannelID is the channel ID of the bridge's Telegram side.
const DefaultMasterChannelID = "blueset.telegram"

// Config holds the configuration for the Telegram user client and the
// auto-management policy.
type Config struct {
	// AutoManage enables automatic group management.
	// When false, the Manager never creates or links groups.
	AutoManage bool

	// APIID is the Telegram API ID from https://my.telegram.org
	APIID int

	// APIHash is the Telegram API hash from https://my.telegram.org
	APIHash string

	// SessionDir is the directory for storing session data.
	// Defaults to "./session" if empty.
	SessionDir string

	// MasterChannelID is the channel ID used for Telegram chats in
	// association keys. Defaults to DefaultMasterChannelID.
	MasterChannelID string

	// AutoCreate lists the chat types that get a group created for them.
	AutoCreate TypeSet

	// MPLinkGroupID, when set, links every MP chat to this existing group
	// (Bot API chat ID) instead of creating one per chat.
	MPLinkGroupID int64

	// FolderTitles maps chat types to the title of the folder
	// (dialog filter) new groups are added to.
	FolderTitles map[ChatType]string

	// Archive lists the chat types whose new groups are archived.
	Archive TypeSet

	// Mute lists the chat types whose new groups are muted.
	Mute TypeSet

	// PhotoViaUser sets the group photo with the user account instead of
	// the bridge bot.
	PhotoViaUser bool

	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Device is reported to Telegram when the session is created.
	// Empty fields get autogroup defaults.
	Device telegram.DeviceConfig

	// MTProtoLogger receives the MTProto client logs. If nil, a console
	// logger on stderr is built from Verbose.
	MTProtoLogger *zap.Logger

	// Verbose enables debug logging for the MTProto client.
	Verbose bool
}

// Enabled reports whether the configuration allows a user client at all.
func (c *Config) Enabled() bool {
	return c.AutoManage && c.APIID != 0 && c.APIHash != ""
}

func (c *Config) setDefaults() {
	if c.SessionDir == "" {
		c.SessionDir = "./session"
	}
	if c.MasterChannelID == "" {
		c.MasterChannelID = DefaultMasterChannelID
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	d := &c.Device
	for field, def := range map[*string]string{
		&d.DeviceModel:    "autogroup",
		&d.SystemVersion:  "1.0",
		&d.AppVersion:     "1.0.0",
		&d.LangCode:       "en",
		&d.SystemLangCode: "en",
	} {
		if *field == "" {
			*field = def
		}
	}
}

func (c *Config) validate() error {
	if c.APIID == 0 {
		return ErrMissingAPIID
	}
	if c.APIHash == "" {
		return ErrMissingAPIHash
	}
	return nil
}

// folderTitle returns the folder title configured for chat.
// The MP title wins over the base type's title.
func (c *Config) folderTitle(chat Chat) string {
	for _, t := range chat.kinds() {
		if title := c.FolderTitles[t]; title != "" {
			return title
		}
	}
	return ""
}

// zapLogger returns MTProtoLogger, or a console logger on stderr at debug
// level when Verbose and warn level otherwise.
func (c *Config) zapLogger() *zap.Logger {
	if c.MTProtoLogger != nil {
		return c.MTProtoLogger
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	if !c.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("mtproto")
}
