package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/jobs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot job search across all configured sources",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("title", "t", "", "job title to search for")
	searchCmd.Flags().StringP("location", "l", "", "city, postal code or department number")
	searchCmd.Flags().IntP("radius", "r", 0, "search radius in kilometers")
	searchCmd.Flags().IntP("limit", "n", 0, "maximum results per source")
	searchCmd.Flags().StringSliceP("keyword", "k", nil, "extra keyword, repeatable")
}

func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	criteria := searchCriteria(cmd, config.Search)
	if criteria.Title == "" {
		logger.Fatal("a job title is required", zap.String("hint", "pass --title or set search.title in the configuration file"))
	}

	registry := newRegistry(config, logger)
	searcher := aggregator.New(registry, logger)

	// The aggregator logs the search start with the full criteria.
	response, err := searcher.Search(ctx, criteria)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	logger.Info("search finished",
		zap.Int("total", response.TotalCount),
		zap.Int("sources_ok", len(response.AvailableSources)),
		zap.Int("sources_failed", len(response.FailedSources)),
	)

	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Fatal("encoding results", zap.Error(err))
	}

	fmt.Println(string(pretty))
}

// searchCriteria merges the search config block with command line flags, flags
// winning on conflict.
func searchCriteria(cmd *cobra.Command, cfg *SearchConfig) jobs.SearchCriteria {
	var criteria jobs.SearchCriteria

	if cfg != nil {
		criteria = jobs.SearchCriteria{
			Title:          cfg.Title,
			Location:       cfg.Location,
			RadiusKM:       cfg.RadiusKM,
			Keywords:       cfg.Keywords,
			LimitPerSource: cfg.LimitPerSource,
		}
	}

	if title, _ := cmd.Flags().GetString("title"); title != "" {
		criteria.Title = title
	}
	if location, _ := cmd.Flags().GetString("location"); location != "" {
		criteria.Location = location
	}
	if radius, _ := cmd.Flags().GetInt("radius"); radius > 0 {
		criteria.RadiusKM = radius
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		criteria.LimitPerSource = limit
	}
	if keywords, _ := cmd.Flags().GetStringSlice("keyword"); len(keywords) > 0 {
		criteria.Keywords = keywords
	}

	return criteria
}
