// Handles the "storctl shares" command and its subcommands.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storops/fileservice"
	"github.com/jonwraymond/storops/pipeline"
)

// sharesCmd exists solely to contain the file service subcommands.
var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "File service operations",
}

var sharesListCmdConfig struct {
	prefix     string
	maxResults int
}

var sharesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's file shares",
	Long: `Enumerates every share in the account, following continuation
tokens until the listing is complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := fileservice.ListQuery{
			Prefix:     sharesListCmdConfig.prefix,
			MaxResults: sharesListCmdConfig.maxResults,
		}

		var shares []fileservice.Share
		err := mgr.run(cmd.Context(), "file", "ListShares", func(ctx context.Context, opts ...pipeline.CallOption) error {
			var err error
			shares, err = mgr.shares.List(ctx, query, opts...)
			return err
		})
		if err != nil {
			return fmt.Errorf("listing shares: %w", err)
		}

		for _, share := range shares {
			printShare(cmd.OutOrStdout(), "", share)
		}
		return nil
	},
}

var sharesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a file share",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := mgr.run(cmd.Context(), "file", "CreateShare", func(ctx context.Context, opts ...pipeline.CallOption) error {
			return mgr.shares.Create(ctx, name, opts...)
		})
		if err != nil {
			return fmt.Errorf("creating share %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created share %s\n", name)
		return nil
	},
}

var sharesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a file share and its contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		err := mgr.run(cmd.Context(), "file", "DeleteShare", func(ctx context.Context, opts ...pipeline.CallOption) error {
			return mgr.shares.Delete(ctx, name, opts...)
		})
		if err != nil {
			return fmt.Errorf("deleting share %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted share %s\n", name)
		return nil
	},
}

func printShare(w io.Writer, indent string, share fileservice.Share) {
	if share.Quota > 0 {
		fmt.Fprintf(w, "%s%s (%d GiB)\n", indent, share.Name, share.Quota)
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, share.Name)
}

func init() {
	rootCmd.AddCommand(sharesCmd)
	sharesCmd.AddCommand(sharesListCmd)
	sharesCmd.AddCommand(sharesCreateCmd)
	sharesCmd.AddCommand(sharesDeleteCmd)

	sharesListCmd.Flags().StringVarP(&sharesListCmdConfig.prefix, "prefix", "p", "", "list only shares whose name starts with this prefix")
	sharesListCmd.Flags().IntVarP(&sharesListCmdConfig.maxResults, "max-results", "m", 0, "page size; 0 lets the service choose")
}
