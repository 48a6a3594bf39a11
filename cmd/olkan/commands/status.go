package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olkan/catalog/internal/quality"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check service dependencies",
	Long: `Load the configuration and verify connectivity to the configured
storage backend and Redis.

Example:
  olkan status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Printf("env:             %s\n", rt.cfg.Env)
	fmt.Printf("storage backend: %s\n", rt.cfg.Storage.Backend)
	fmt.Printf("assessor:        v%s (weights %+v)\n", quality.Version, rt.assessor.Weights())

	if rt.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rt.db.Ping(pingCtx); err != nil {
			fmt.Printf("postgres:        DOWN (%v)\n", err)
		} else {
			fmt.Println("postgres:        ok")
		}
	}

	if rt.redis != nil && rt.redis.Enabled() {
		fmt.Println("redis:           ok")
	} else {
		fmt.Println("redis:           disabled")
	}

	return nil
}
