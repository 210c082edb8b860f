package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/partsdesk/internal/web"
)

// partsdesk serve — run the HTML frontend.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTML frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return web.Start()
	},
}
