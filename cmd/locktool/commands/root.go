package commands

import (
	"fmt"
	"os"

	"github.com/jamiealquiza/envy"
	"github.com/spf13/cobra"

	"github.com/usarskyy/sqlock/store"
)

var RootCmd = &cobra.Command{
	Use:   "locktool",
	Short: "Operate distributed lock records in a shared SQL store",
	Long: `locktool acquires, releases and inspects the lease-backed lock records
that coordinate mutually-exclusive access to named resources across worker
processes sharing a SQL database.`,
}

func Execute() {
	envy.ParseCobra(RootCmd, envy.CobraConfig{Prefix: "LOCKTOOL", Persistent: true, Recursive: true})

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().String("driver", "sqlite", "database/sql driver name [sqlite, mysql, pgx]")
	RootCmd.PersistentFlags().String("dsn", "file:locks.db", "driver-specific data source name")
	RootCmd.PersistentFlags().String("table", store.DefaultTable, "lock table name")
}

// initStore builds a Store from the persistent flags.
func initStore(cmd *cobra.Command) (*store.Store, error) {
	driver, _ := cmd.Flags().GetString("driver")
	dsn, _ := cmd.Flags().GetString("dsn")
	table, _ := cmd.Flags().GetString("table")

	return store.New(store.Config{Driver: driver, DSN: dsn, Table: table})
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
