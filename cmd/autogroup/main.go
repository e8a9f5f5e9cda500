// Package main is the entry point for the autogroup CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/en9inerd/autogroup"
	"github.com/en9inerd/autogroup/sqlitestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Set by ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "autogroup",
		Short:         "Create and configure Telegram groups for bridged chats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "config file (default: ./config.yaml or ~/.autogroup/config.yaml)")
	root.AddCommand(versionCmd(), loginCmd(), createCmd(), linkCmd(), foldersCmd(), serveCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("autogroup %s\n", version)
		},
	}
}

// app holds everything a command may need. Fields are nil when the
// configuration does not allow them.
type app struct {
	cfg      *fileConfig
	config   autogroup.Config
	logs     *loggers
	store    *sqlitestore.Store
	client   *autogroup.Client
	manager  *autogroup.Manager
	sources  map[string]*autogroup.DirSource
	registry *prometheus.Registry
}

type setupOptions struct {
	// needBot connects the bridge bot and builds the manager.
	needBot bool
	// needClient requires API credentials even when auto management is off.
	needClient bool
	// channels are chat sources to add to the configured ones.
	channels []string
}

func setup(ctx context.Context, cmd *cobra.Command, opts setupOptions) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	logs, err := newLoggers(cfg.Log)
	if err != nil {
		return nil, err
	}

	config, err := cfg.managerConfig()
	if err != nil {
		logs.Close()
		return nil, err
	}
	config.Logger = logs.app
	config.MTProtoLogger = logs.mtproto

	a := &app{
		cfg:      cfg,
		config:   config,
		logs:     logs,
		sources:  make(map[string]*autogroup.DirSource),
		registry: prometheus.NewRegistry(),
	}

	a.store, err = sqlitestore.Open(ctx, cfg.Database)
	if err != nil {
		a.Close()
		return nil, err
	}

	if config.Enabled() || opts.needClient {
		a.client, err = autogroup.NewClient(config)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	for _, channelID := range append(cfg.Channels, opts.channels...) {
		if _, ok := a.sources[channelID]; !ok {
			a.sources[channelID] = autogroup.NewDirSource(channelID, cfg.AvatarDir)
		}
	}

	if !opts.needBot {
		return a, nil
	}

	mopts := autogroup.Options{
		Config:  config,
		Store:   a.store,
		Sources: make(map[string]autogroup.ChatSource, len(a.sources)),
		Metrics: autogroup.NewMetrics(a.registry),
	}
	for id, src := range a.sources {
		mopts.Sources[id] = src
	}
	if config.Enabled() {
		if cfg.BotToken == "" {
			a.Close()
			return nil, errors.New("bot_token is required when auto_manage_tg is on")
		}
		bot, err := autogroup.NewBotAPI(cfg.BotToken, logs.app)
		if err != nil {
			a.Close()
			return nil, err
		}
		mopts.Bot = bot
		mopts.Client = a.client
	}

	a.manager, err = autogroup.NewManager(mopts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	a.logs.Close()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
