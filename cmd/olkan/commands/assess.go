package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <dataset-id>",
	Short: "Assess one dataset's metadata quality",
	Long: `Run the quality assessment engine against a single dataset and
print the full report as JSON.

Example:
  olkan assess climate-observations-2024
  olkan assess climate-observations-2024 --context "climate research"`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

var assessContext string

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&assessContext, "context", "", "free-text context to bias the relevance score")
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	dataset, err := rt.storage.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get dataset %s: %w", args[0], err)
	}

	report := rt.assessor.Assess(dataset.ID, dataset.Metadata(), assessContext)

	if rt.reports != nil {
		if err := rt.reports.Save(ctx, report); err != nil {
			rt.log.WithError(err).Warn("Failed to persist quality report")
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
