package main

import (
	"fmt"

	"github.com/en9inerd/autogroup"
	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create CHANNEL_ID CHAT_UID",
		Short: "Create the Telegram group of an external chat if the policy asks for one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			chat, err := chatFromFlags(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			a, err := setup(ctx, cmd, setupOptions{needBot: true, channels: []string{chat.ChannelID}})
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.manager.Enabled() {
				return fmt.Errorf("auto group management is disabled")
			}
			a.sources[chat.ChannelID].Remember(chat)

			key, err := a.manager.CreateGroupIfNeeded(ctx, chat)
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Println("No group needed for", chat.Key())
				return nil
			}
			fmt.Println(key)
			return nil
		},
	}
	cmd.Flags().String("name", "", "chat display name")
	cmd.Flags().String("alias", "", "chat alias, preferred over the name")
	cmd.Flags().String("type", "private", "chat type: private, group or system")
	cmd.Flags().Bool("mp", false, "chat is an official/public account")
	return cmd
}

func chatFromFlags(cmd *cobra.Command, channelID, uid string) (autogroup.Chat, error) {
	name, _ := cmd.Flags().GetString("name")
	alias, _ := cmd.Flags().GetString("alias")
	typeName, _ := cmd.Flags().GetString("type")
	mp, _ := cmd.Flags().GetBool("mp")

	t, err := autogroup.ParseChatType(typeName)
	if err != nil {
		return autogroup.Chat{}, err
	}
	if t == autogroup.TypeMP {
		return autogroup.Chat{}, fmt.Errorf("use --mp with a base type instead of type %q", typeName)
	}

	return autogroup.Chat{
		ChannelID: channelID,
		UID:       uid,
		Name:      name,
		Alias:     alias,
		Type:      t,
		IsMP:      mp,
	}, nil
}

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link CHANNEL_ID CHAT_UID",
		Short: "Show the Telegram group linked to an external chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), cmd, setupOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			masters, err := a.store.Masters(cmd.Context(), autogroup.ChatKey(args[0], args[1]))
			if err != nil {
				return err
			}
			if len(masters) == 0 {
				fmt.Println("Not linked")
				return nil
			}
			for _, m := range masters {
				fmt.Println(m)
			}
			return nil
		},
	}
}

func foldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List the user account's chat folders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := setup(ctx, cmd, setupOptions{needClient: true})
			if err != nil {
				return err
			}
			defer a.Close()

			folders, err := autogroup.ListFolders(ctx, a.client)
			if err != nil {
				return err
			}
			for _, f := range folders {
				fmt.Printf("%d\t%s\t%d chats\n", f.ID, f.Title, f.Chats)
			}
			return nil
		},
	}
}
