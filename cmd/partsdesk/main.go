package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/partsdesk/config"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
	"github.com/shashiranjanraj/partsdesk/pkg/session"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "partsdesk",
	Short: "partsdesk — auto parts inventory client",
	Long:  "partsdesk is a client for an auto-parts inventory backend: browse the catalog, manage part records, and serve the HTML frontend.",
}

func init() {
	// Auth
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)

	// Parts
	rootCmd.AddCommand(partsCmd)

	// Frontend
	rootCmd.AddCommand(serveCmd)
}

func sessionStore() *session.Store {
	return session.NewStore(config.TokenPath())
}

func publicClient() *rest.Client {
	return rest.NewPublic(config.APIBaseURL())
}

func authedClient(store *session.Store) *rest.Client {
	return rest.New(config.APIBaseURL(), store)
}
