package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codemate/internal/config"
	"codemate/internal/di"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the statement cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c, err := di.InitializeCache(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.Clear(expiredOnly)
			if err != nil {
				return err
			}
			if expiredOnly {
				fmt.Printf("Removed %d expired entries\n", n)
			} else {
				fmt.Printf("Removed %d entries\n", n)
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")

	cmd.AddCommand(clearCmd)
	return cmd
}
