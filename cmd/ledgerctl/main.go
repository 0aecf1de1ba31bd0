// Package main is the entry point for ledgerctl.
package main

import (
	"os"

	"github.com/SscSPs/ledger_engine/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
