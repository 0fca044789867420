package main

import (
	"os"

	// the configured timezone must resolve on hosts without a zoneinfo database
	_ "time/tzdata"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
