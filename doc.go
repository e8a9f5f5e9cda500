// Package autogroup creates and configures Telegram groups for chats bridged
// from other platforms, using a Telegram user account via gotd/td.
//
// When an external chat needs a Telegram counterpart, the Manager decides from
// its Config whether to create one, creates a basic group with the bridge bot,
// promotes the bot, and optionally places the group in a folder, archives it,
// mutes it and copies the external chat's avatar. The new group is then linked
// to the external chat in the association Store.
//
// Basic usage:
//
//	client, err := autogroup.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	m, err := autogroup.NewManager(autogroup.Options{
//	    Config: cfg,
//	    Client: client,
//	    Bot:    bot,
//	    Store:  store,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	key, err := m.CreateGroupIfNeeded(ctx, autogroup.Chat{
//	    ChannelID: "blueset.wechat",
//	    UID:       "wxid_123",
//	    Name:      "Alice",
//	    Type:      autogroup.TypePrivate,
//	})
package autogroup
