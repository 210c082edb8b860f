package main

import (
	"fmt"
	"os"

	"github.com/shashiranjanraj/partsdesk/internal/web"
)

// Minimal entrypoint for deployments that only need the frontend;
// the full CLI lives in cmd/partsdesk.
func main() {
	if err := web.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
