package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
)

func newLoginCmd() *cobra.Command {
	var identifier string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in against the content API and store a console session",
		Long: `Verify credentials the same way the console login form does and store
the resulting session in Redis. The password is read from WISHARA_PASSWORD.

Examples:
  WISHARA_PASSWORD=... wishara-ctl login --identifier ops@wishara.app`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := fromCmd(cmd)
			if err != nil {
				return err
			}
			password := os.Getenv("WISHARA_PASSWORD")
			if strings.TrimSpace(identifier) == "" || password == "" {
				return errors.New("--identifier and WISHARA_PASSWORD are required")
			}
			svc, err := cc.services(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := svc.Auth.Login(cmd.Context(), domainauth.Credentials{Identifier: identifier, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}
	cmd.Flags().StringVar(&identifier, "identifier", "", "email or username")
	return cmd
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and revoke console sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := fromCmd(cmd)
			if err != nil {
				return err
			}
			svc, err := cc.services(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := svc.Auth.GetSession(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <session-id>...",
		Short: "Delete sessions so their cookies stop working",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := fromCmd(cmd)
			if err != nil {
				return err
			}
			svc, err := cc.services(cmd.Context())
			if err != nil {
				return err
			}
			var errs []error
			for _, id := range args {
				if err := svc.Auth.Revoke(cmd.Context(), id); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", id)
			}
			return errors.Join(errs...)
		},
	}

	cmd.AddCommand(show, revoke)
	return cmd
}

func printSession(w io.Writer, sess *domainauth.Session) error {
	_, err := fmt.Fprintf(w, "session:  %s\nuser:     %s (%s)\nadmin:    %t\nexpires:  %s\n",
		sess.ID,
		sess.User.DisplayName(),
		sess.User.ID,
		sess.IsAdmin(),
		sess.ExpiresAt.Format(time.RFC3339),
	)
	return err
}
