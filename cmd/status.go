package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dgqueue/internal/models"
	"dgqueue/internal/queue"
	"dgqueue/pkg/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status [downloadId...]",
	Short: "Check the status of previously submitted Downloads",
	Long: `Check the current status of one or more Downloads by id, for example
after a queue run that was submitted without monitoring or interrupted
partway through.

With --monitor-interval the Downloads are polled until all of them reach a
terminal status.`,
	Example: `  # One-shot status check
  dgqueue status 1041 1042 1043 -u jdoe

  # Keep watching every 2 minutes until everything finishes
  dgqueue status 1041 1042 -u jdoe -m 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	handles := make([]models.DownloadHandle, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid download id %q", arg)
		}
		handles = append(handles, models.DownloadHandle{ID: id, Name: "download " + arg})
	}

	intervalMinutes, _ := cmd.Flags().GetFloat64("monitor-interval")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	client, session, err := gatewayLogin(cmd)
	if err != nil {
		return err
	}

	startTime := time.Now()
	for i := range handles {
		status, err := client.GetStatus(ctx, session, handles[i].ID)
		if err != nil {
			return fmt.Errorf("failed to check download %d: %w", handles[i].ID, err)
		}
		handles[i].Status = status
	}
	printHandleTable(cmd.OutOrStdout(), handles)

	if intervalMinutes > 0 {
		interval := time.Duration(intervalMinutes * float64(time.Minute))
		monitor := queue.NewMonitor(client, interval, statusClassifier(), cmd.OutOrStdout())
		if err := monitor.Run(ctx, session, handles); err != nil {
			return err
		}
		printHandleTable(cmd.OutOrStdout(), handles)
	}

	if isVerbose(cmd) {
		result := models.StatusResult{
			GatewayURL:    getGatewayURL(cmd),
			Downloads:     handles,
			OperationTime: utils.FormatTime(startTime),
		}
		return utils.PrintJSON(result)
	}

	return nil
}

func init() {
	statusCmd.Flags().Float64P("monitor-interval", "m", 0, "Keep monitoring with an interval of this many minutes; non-positive checks once and exits")
}
