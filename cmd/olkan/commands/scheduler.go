package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olkan/catalog/internal/scheduler"
	"github.com/olkan/catalog/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background job scheduler",
	Long: `Run scheduled maintenance jobs.

Jobs:
  quality-reassess - periodically re-assess every dataset's quality
                     (schedule from QUALITY_REASSESS_SCHEDULE)

Example:
  olkan scheduler
  olkan scheduler --now   # run the re-assessment once at startup`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "run the re-assessment job immediately at startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	sched := scheduler.New(rt.log)

	reassess := jobs.NewReassessJob(
		rt.storage,
		rt.assessor,
		rt.reports,
		rt.cache,
		rt.cfg.Quality.ReportCacheTTL,
		rt.cfg.Quality.BatchWorkers,
		rt.cfg.Quality.ReassessSchedule,
		rt.log,
	)
	if err := sched.AddJob(reassess); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(reassess.Name()); err != nil {
			return err
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
