// invoicectl runs offline maintenance against the invoice database.
//
// Usage:
//
//	invoicectl migrate
//	invoicectl inspect --json
//	invoicectl rename-tables --force
//	invoicectl pdf --id 42 --out invoice-42.pdf
package main

import (
	"fmt"
	"os"

	"invoicestats/cmd/invoicectl/commands"
	"invoicestats/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
