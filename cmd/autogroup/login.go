package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in the Telegram user account that creates groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := setup(ctx, cmd, setupOptions{needClient: true})
			if err != nil {
				return err
			}
			defer a.Close()

			phone, _ := cmd.Flags().GetString("phone")
			self, err := a.client.Login(ctx, newTerminalAuth(phone, os.Stdin, os.Stdout))
			if err != nil {
				return err
			}

			name := self.FirstName
			if self.Username != "" {
				name = fmt.Sprintf("%s (@%s)", name, self.Username)
			}
			fmt.Println("Logged in as", name)
			return nil
		},
	}
	cmd.Flags().String("phone", "", "phone number in international format")
	return cmd
}

// terminalAuth prompts for login data on a terminal.
type terminalAuth struct {
	phone  string
	in     *bufio.Reader
	inFile *os.File
	out    io.Writer
}

var _ auth.UserAuthenticator = (*terminalAuth)(nil)

func newTerminalAuth(phone string, in *os.File, out io.Writer) *terminalAuth {
	return &terminalAuth{
		phone:  phone,
		in:     bufio.NewReader(in),
		inFile: in,
		out:    out,
	}
}

func (a *terminalAuth) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *terminalAuth) Phone(_ context.Context) (string, error) {
	if a.phone != "" {
		return a.phone, nil
	}
	return a.prompt("Phone number: ")
}

func (a *terminalAuth) Password(_ context.Context) (string, error) {
	fd := int(a.inFile.Fd())
	if !term.IsTerminal(fd) {
		return a.prompt("2FA password: ")
	}

	fmt.Fprint(a.out, "2FA password: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pass)), nil
}

func (a *terminalAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return a.prompt("Code: ")
}

func (a *terminalAuth) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

func (a *terminalAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("sign up is not supported, register the account with an official app")
}
