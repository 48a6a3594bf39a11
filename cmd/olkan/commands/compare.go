package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olkan/catalog/internal/quality"
)

const compareLimit = 10000

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare quality scores across the catalog",
	Long: `Compute corpus statistics (mean, median, spread, tier distribution)
over the latest quality report of every dataset. Datasets without a
stored report are assessed on the fly.

Example:
  olkan compare`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	reports, err := collectReports(ctx, rt)
	if err != nil {
		return err
	}

	stats, err := quality.Compare(reports)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

// collectReports prefers stored reports, assessing live as a fallback
func collectReports(ctx context.Context, rt *runtime) ([]*quality.Report, error) {
	if rt.reports != nil {
		reports, err := rt.reports.ListLatest(ctx, compareLimit)
		if err != nil {
			return nil, fmt.Errorf("list stored reports: %w", err)
		}
		if len(reports) > 0 {
			return reports, nil
		}
	}

	datasets, err := rt.storage.List(ctx, 0, compareLimit)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	items := make([]quality.BatchItem, len(datasets))
	for i, d := range datasets {
		items[i] = quality.BatchItem{DatasetID: d.ID, Metadata: d.Metadata()}
	}

	return rt.assessor.AssessBatch(ctx, items, "", rt.cfg.Quality.BatchWorkers)
}
