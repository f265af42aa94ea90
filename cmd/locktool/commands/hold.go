package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/usarskyy/sqlock/locking/sqllock"
)

var holdCmd = &cobra.Command{
	Use:   "hold",
	Short: "Acquire a lock and hold it for a duration",
	Run:   hold,
}

func init() {
	RootCmd.AddCommand(holdCmd)

	holdCmd.Flags().String("resource", "", "resource name to lock")
	holdCmd.Flags().Duration("timeout", 30*time.Second, "max acquisition wait; doubles as the lease duration")
	holdCmd.Flags().Duration("for", 10*time.Second, "how long to hold the lock before releasing")

	// Required.
	holdCmd.MarkFlagRequired("resource")
}

func hold(cmd *cobra.Command, _ []string) {
	resource, _ := cmd.Flags().GetString("resource")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	holdFor, _ := cmd.Flags().GetDuration("for")

	st, err := initStore(cmd)
	exitOnErr(err)
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lock, err := sqllock.NewSQLLock(ctx, st)
	exitOnErr(err)

	if err := lock.Acquire(ctx, resource, timeout); err != nil {
		_ = lock.Close()
		exitOnErr(err)
	}

	log.Printf("holding %q for %s (interrupt to release early)", resource, holdFor)
	select {
	case <-time.After(holdFor):
	case <-ctx.Done():
	}

	exitOnErr(lock.Close())
}
