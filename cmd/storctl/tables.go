// Handles the "storctl tables" command and its subcommands.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storops/pipeline"
	"github.com/jonwraymond/storops/tableservice"
)

// tablesCmd exists solely to contain the table service subcommands.
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Table service operations",
}

var tablesListCmdConfig struct {
	prefix     string
	maxResults int
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's tables",
	Long: `Enumerates every table in the account, following continuation
tokens until the listing is complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := tableservice.ListQuery{
			Prefix:     tablesListCmdConfig.prefix,
			MaxResults: tablesListCmdConfig.maxResults,
		}

		var tables []tableservice.Table
		err := mgr.run(cmd.Context(), "table", "ListTables", func(ctx context.Context, opts ...pipeline.CallOption) error {
			var err error
			tables, err = mgr.tables.List(ctx, query, opts...)
			return err
		})
		if err != nil {
			return fmt.Errorf("listing tables: %w", err)
		}

		for _, table := range tables {
			fmt.Fprintln(cmd.OutOrStdout(), table.Name)
		}
		return nil
	},
}

var tablesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := mgr.run(cmd.Context(), "table", "CreateTable", func(ctx context.Context, opts ...pipeline.CallOption) error {
			return mgr.tables.Create(ctx, name, opts...)
		})
		if err != nil {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created table %s\n", name)
		return nil
	},
}

var tablesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a table and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := mgr.run(cmd.Context(), "table", "DeleteTable", func(ctx context.Context, opts ...pipeline.CallOption) error {
			return mgr.tables.Delete(ctx, name, opts...)
		})
		if err != nil {
			return fmt.Errorf("deleting table %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted table %s\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesListCmd)
	tablesCmd.AddCommand(tablesCreateCmd)
	tablesCmd.AddCommand(tablesDeleteCmd)

	tablesListCmd.Flags().StringVarP(&tablesListCmdConfig.prefix, "prefix", "p", "", "list only tables whose name starts with this prefix")
	tablesListCmd.Flags().IntVarP(&tablesListCmdConfig.maxResults, "max-results", "m", 0, "page size; 0 lets the service choose")
}
