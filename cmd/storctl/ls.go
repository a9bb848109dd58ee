// Handles the "storctl ls" command: one combined view of the account's
// tables and shares, fetched concurrently.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/storops/fileservice"
	"github.com/jonwraymond/storops/pipeline"
	"github.com/jonwraymond/storops/tableservice"
)

var lsPrefix string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tables and shares in one pass",
	Long: `Enumerates the account's tables and file shares concurrently and
prints both listings. The first failure cancels the other listing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			tables []tableservice.Table
			shares []fileservice.Share
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			return mgr.run(ctx, "table", "ListTables", func(ctx context.Context, opts ...pipeline.CallOption) error {
				var err error
				tables, err = mgr.tables.List(ctx, tableservice.ListQuery{Prefix: lsPrefix}, opts...)
				return err
			})
		})
		g.Go(func() error {
			return mgr.run(ctx, "file", "ListShares", func(ctx context.Context, opts ...pipeline.CallOption) error {
				var err error
				shares, err = mgr.shares.List(ctx, fileservice.ListQuery{Prefix: lsPrefix}, opts...)
				return err
			})
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("listing account: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tables (%d):\n", len(tables))
		for _, table := range tables {
			fmt.Fprintf(out, "  %s\n", table.Name)
		}
		fmt.Fprintf(out, "shares (%d):\n", len(shares))
		for _, share := range shares {
			printShare(out, "  ", share)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVarP(&lsPrefix, "prefix", "p", "", "list only names starting with this prefix")
}
