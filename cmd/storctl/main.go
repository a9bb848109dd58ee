// storctl is a command line tool for storage account management: it
// lists, creates, and deletes tables and file shares, and reads the
// account's geo-replication statistics.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	Execute(ctx)
}
