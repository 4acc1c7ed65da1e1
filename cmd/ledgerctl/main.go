// Command ledgerctl reads and exports a tenant's books directly from storage.
//
// Usage:
//
//	ledgerctl summary -email admin@adag.org [-year 2024] [-month 3] [-category Dízimos]
//	                  [-start 2024-01-01 -end 2024-03-31] [-income-only] [-sort date|amount|category -direction asc|desc]
//	ledgerctl export  -email admin@adag.org -kind transactions|report|sheets -format csv|xlsx|pdf [-o file]
//	ledgerctl users   -email admin@adag.org
//
// The password is prompted without echo. Storage flags (-storage, -db, -database-url,
// -auth) override the environment.
package main

import (
	"fmt"
	"os"

	"github.com/mmynk/livrocaixa/pkg/logging"
)

func main() {
	logging.Setup()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerctl:", err)
		os.Exit(1)
	}
}
