package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/accounts"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
)

var (
	registerUsername string
	registerEmail    string
	loginUsername    string
	recoverEmail     string
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  runRegisterCmd,
	}
	cmd.Flags().StringVar(&registerUsername, "username", "", "account username")
	cmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runRegisterCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}
	if isTerminal() {
		confirm, err := readPassword(cmd, "Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	acct, err := a.accounts.Register(cmd.Context(), registerUsername, registerEmail, password)
	switch {
	case errors.Is(err, accounts.ErrDuplicateUsername):
		return fmt.Errorf("username %q is already taken", registerUsername)
	case errors.Is(err, accounts.ErrDuplicateEmail):
		return fmt.Errorf("email %q is already registered", registerEmail)
	case err != nil:
		return err
	}
	return printf(cmd, "Registered %s. Log in with: typetest login --username %s\n", acct.Username, acct.Username)
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the account",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&loginUsername, "username", "", "account username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	acct, err := a.accounts.Login(cmd.Context(), loginUsername, password)
	if err != nil {
		return err
	}
	return printf(cmd, "Logged in as %s\n", acct.Username)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current account",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.accounts.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return printf(cmd, "Logged out\n")
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	acct, ok, err := a.accounts.Current(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}
	if !ok {
		return printf(cmd, "%s (not logged in)\n", model.GuestName)
	}
	return printf(cmd, "%s <%s>, joined %s\n", acct.Username, acct.Email, acct.JoinedAt.Local().Format("2006-01-02"))
}

func newRecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Start password recovery for an email",
		Args:  cobra.NoArgs,
		RunE:  runRecoverCmd,
	}
	cmd.Flags().StringVar(&recoverEmail, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runRecoverCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	acct, ok, err := a.accounts.FindByEmail(cmd.Context(), recoverEmail)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if ok {
		slog.Info("recovery requested", "user_id", acct.ID)
	}
	return printf(cmd, "If an account exists for %s, recovery instructions will follow.\n", recoverEmail)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads a hidden password from a terminal, or one line from piped stdin.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if !isTerminal() {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if _, err := fmt.Fprint(cmd.ErrOrStderr(), prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
