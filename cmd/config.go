package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
	cfgpkg "github.com/KaramelBytes/shirtstats/internal/config"
	"github.com/KaramelBytes/shirtstats/internal/store"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set shirtstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_input: %s\n", c.DefaultInput)
		fmt.Fprintf(out, "target_label: %s\n", c.TargetLabel)
		if c.DatabaseURL != "" {
			fmt.Fprintf(out, "database_url: %s\n", maskURL(c.DatabaseURL))
		}
		fmt.Fprintf(out, "save_to_db: %t\n", c.SaveToDB)
		fmt.Fprintf(out, "merge_policy: %s\n", c.MergePolicy)
		fmt.Fprintf(out, "db_timeout_sec: %d\n", c.DBTimeoutSec)
		fmt.Fprintf(out, "batch_jobs: %d\n", c.BatchJobs)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "default_input":
			cfg.DefaultInput = val
		case "target_label":
			l := analysis.NormalizeLabel(val)
			if l == "" {
				return fmt.Errorf("invalid target_label: %q", val)
			}
			cfg.TargetLabel = string(l)
		case "database_url":
			cfg.DatabaseURL = val
		case "save_to_db":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for save_to_db: %v", val)
			}
			cfg.SaveToDB = b
		case "merge_policy":
			p, err := store.ParseMergePolicy(val)
			if err != nil {
				return err
			}
			cfg.MergePolicy = string(p)
		case "db_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for db_timeout_sec: %v", val)
			}
			cfg.DBTimeoutSec = i
		case "batch_jobs":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for batch_jobs: %v", val)
			}
			cfg.BatchJobs = i
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			cfg.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// maskURL hides the password of a connection URL.
func maskURL(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
