package main

import (
	// Database drivers selectable via --driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/usarskyy/sqlock/cmd/locktool/commands"
)

func main() {
	commands.Execute()
}
