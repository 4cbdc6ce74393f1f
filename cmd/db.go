package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/shirtstats/internal/logger"
	"github.com/KaramelBytes/shirtstats/internal/store"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect or prepare the PostgreSQL frequency store",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the color_frequencies table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is not configured")
		}
		timeout := time.Duration(c.DBTimeoutSec) * time.Second
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		s, err := store.Open(ctx, store.Config{URL: c.DatabaseURL, Timeout: timeout})
		if err != nil {
			return err
		}
		defer s.Close()
		log := logger.Named("db")
		if err := s.Migrate(); err != nil {
			log.Error().Err(err).Msg("migrate failed")
			return err
		}
		log.Info().Msg("migrations applied")
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Database schema is up to date")
		return nil
	},
}

var dbCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the stored color frequencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		timeout := time.Duration(c.DBTimeoutSec) * time.Second
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		s, err := store.Open(ctx, store.Config{URL: c.DatabaseURL, Timeout: timeout})
		if err != nil {
			return err
		}
		defer s.Close()
		counts, err := s.Counts(ctx)
		if err != nil {
			return err
		}
		logger.Named("db").Debug().Int("colors", len(counts)).Msg("loaded stored counts")
		out := cmd.OutOrStdout()
		if len(counts) == 0 {
			fmt.Fprintln(out, "No stored frequencies")
			return nil
		}
		for _, kv := range counts {
			fmt.Fprintf(out, "%-12s %d\n", kv.Value, kv.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbCountsCmd)
}
