package commands

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/usarskyy/sqlock/locking"
	"github.com/usarskyy/sqlock/locking/sqllock"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List lock records and their computed liveness",
	Run:   list,
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().Duration("stale-after", 30*time.Second, "lease duration used to compute record liveness")
}

func list(cmd *cobra.Command, _ []string) {
	staleAfter, _ := cmd.Flags().GetDuration("stale-after")

	st, err := initStore(cmd)
	exitOnErr(err)
	defer st.Close()

	ctx := cmd.Context()

	var records []sqllock.LockRecord
	err = st.WithinTx(ctx, sql.LevelDefault, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &records,
			fmt.Sprintf("SELECT resource, created_at FROM %s", st.Table()))
	})
	exitOnErr(err)

	// Canonical resource order.
	sort.Slice(records, func(i, j int) bool {
		return locking.CompareByResource(records[i].Resource, records[j].Resource) < 0
	})

	now := time.Now().Unix()
	threshold := now - int64(staleAfter/time.Second)

	for _, r := range records {
		liveness := "stale"
		if r.CreatedAt > threshold {
			liveness = "live"
		}
		fmt.Printf("%s\tcreated_at=%d\tage=%ds\t%s\n", r.Resource, r.CreatedAt, now-r.CreatedAt, liveness)
	}

	if len(records) == 0 {
		fmt.Println("[no lock records]")
	}
}
