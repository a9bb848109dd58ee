// Handles the "storctl stats" command.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storops/fileservice"
	"github.com/jonwraymond/storops/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show geo-replication statistics for the file service",
	Long: `Reads replication statistics from the account's read-access
secondary endpoint. The account must have a secondary configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats fileservice.ServiceStats
		err := mgr.run(cmd.Context(), "file", "GetServiceStats", func(ctx context.Context, opts ...pipeline.CallOption) error {
			var err error
			stats, err = mgr.shares.GetServiceStats(ctx, opts...)
			return err
		})
		if err != nil {
			return fmt.Errorf("reading service stats: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "geo-replication: %s\n", stats.Status)
		if stats.Status == fileservice.GeoLive {
			fmt.Fprintf(cmd.OutOrStdout(), "last sync: %s\n", stats.LastSyncTime.Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
