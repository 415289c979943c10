package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"codemate/internal/config"
	"codemate/internal/di"
	"codemate/internal/domain/model"
)

var (
	contestIDPattern = regexp.MustCompile(`^\d+$`)
	indexPattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]?$`)
)

func newScrapeCmd() *cobra.Command {
	var (
		configPath string
		useBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "scrape <contestId> <index>",
		Short: "Fetch one Codeforces statement and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := di.InitializeCache(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mode := model.FetchDirect
			if useBrowser {
				mode = model.FetchBrowser
			}
			statement, err := di.InitializeStatementService(cfg, store).Get(cmd.Context(), ref, mode)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(statement)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "use the headless browser chain")
	return cmd
}

func parseRef(contestID, index string) (model.ProblemRef, error) {
	if !contestIDPattern.MatchString(contestID) {
		return model.ProblemRef{}, fmt.Errorf("invalid contest id %q", contestID)
	}
	if !indexPattern.MatchString(index) {
		return model.ProblemRef{}, fmt.Errorf("invalid problem index %q", index)
	}
	return model.ProblemRef{ContestID: contestID, Index: index}, nil
}
