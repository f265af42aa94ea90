package commands

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Force-delete the lock records for a resource",
	Long: `Force-delete the lock records for a resource. This is an operator override
for a crashed holder whose lease hasn't expired yet; a healthy holder's lock
will reappear the next time it acquires.`,
	Run: release,
}

func init() {
	RootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().String("resource", "", "resource name to release")

	// Required.
	releaseCmd.MarkFlagRequired("resource")
}

func release(cmd *cobra.Command, _ []string) {
	resource, _ := cmd.Flags().GetString("resource")

	st, err := initStore(cmd)
	exitOnErr(err)
	defer st.Close()

	ctx := cmd.Context()

	var n int64
	err = st.WithinTx(ctx, sql.LevelDefault, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			st.Rebind(fmt.Sprintf("DELETE FROM %s WHERE resource = ?", st.Table())), resource)
		if err != nil {
			return err
		}

		n, err = res.RowsAffected()
		return err
	})
	exitOnErr(err)

	fmt.Printf("removed %d lock record(s) for %q\n", n, resource)
}
