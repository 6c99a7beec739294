package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wishara/admin-console/internal/adapters/postgres"
	"github.com/wishara/admin-console/internal/bootstrap"
	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/service"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the admin audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var (
		limit  int
		actor  string
		asJSON bool
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent audit entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := fromCmd(cmd)
			if err != nil {
				return err
			}
			pool, err := cc.postgres(cmd.Context())
			if err != nil {
				return err
			}
			audit := service.NewAuditService(service.AuditServiceOptions{Repo: postgres.NewAuditRepo(pool), Logger: cc.Logger})
			page, err := audit.List(cmd.Context(), model.AuditListOptions{Limit: limit, Actor: actor})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page.Items)
			}
			return printAuditEntries(cmd.OutOrStdout(), page.Items)
		},
	}
	tail.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	tail.Flags().StringVar(&actor, "actor", "", "only entries by this actor")
	tail.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	cmd.AddCommand(tail)
	return cmd
}

func printAuditEntries(w io.Writer, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No audit entries.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTOR\tACTION\tRESOURCE\tDETAIL")
	for _, e := range entries {
		res := e.Resource
		if e.ResourceID != "" {
			res += "/" + e.ResourceID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.At.UTC().Format(time.RFC3339), e.Actor, e.Action, res, e.Detail)
	}
	return tw.Flush()
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the audit log schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := fromCmd(cmd)
			if err != nil {
				return err
			}
			pool, err := cc.postgres(cmd.Context())
			if err != nil {
				return err
			}
			if err := bootstrap.RunMigrations(cmd.Context(), pool, cc.Logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
