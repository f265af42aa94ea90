package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the lock table if it doesn't exist",
	Run:   initTable,
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func initTable(cmd *cobra.Command, _ []string) {
	st, err := initStore(cmd)
	exitOnErr(err)
	defer st.Close()

	exitOnErr(st.EnsureTable(cmd.Context()))

	fmt.Printf("table %q ready\n", st.Table())
}
