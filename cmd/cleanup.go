/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/ivanjaven/extension/config"
	"github.com/ivanjaven/extension/internal/db"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/spf13/cobra"
)

// cleanupCmd removes sessions whose last-active timestamp has fallen outside
// the freshness window. Expiry is otherwise enforced lazily at validation
// time, so running this is optional housekeeping.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired sessions",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		sessions := services.NewSessionService(store.NewSessionRepository(dbConn))
		removed, err := sessions.CleanupExpired(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("removed %d expired sessions\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
