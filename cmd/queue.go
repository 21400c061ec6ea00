package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"dgqueue/internal/models"
	"dgqueue/internal/queue"
	"dgqueue/pkg/utils"
)

var queueCmd = &cobra.Command{
	Use:   "queue [input_file]",
	Short: "Submit Download requests for a list of archive file paths",
	Long: `Submit DataGateway Download requests for every file path listed in the
input file, one path per line. The path should match the 'location' field
displayed in the DataGateway UI.

The list is split into parts of up to 10,000 files and one Download is
queued per part. With more than one part, '_part_N' is appended to the
Download name. With --monitor-interval the submitted Downloads are polled
until all of them finish.`,
	Example: `  # Queue Downloads for every path listed in files.txt
  dgqueue queue files.txt -u jdoe

  # Restore to the DLS filesystem and check progress every 5 minutes
  dgqueue queue files.txt -u jdoe --access-method dls -m 5

  # Custom Download name plus email notifications
  dgqueue queue files.txt -u jdoe --download-name run42 --email-address jdoe@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	inputFile := args[0]
	baseName, _ := cmd.Flags().GetString("download-name")
	accessMethod, _ := cmd.Flags().GetString("access-method")
	email, _ := cmd.Flags().GetString("email-address")
	if email == "" {
		email = cfg.Email
	}
	intervalMinutes, _ := cmd.Flags().GetFloat64("monitor-interval")

	startTime := time.Now()
	if baseName == "" {
		baseName = queue.DefaultBaseName(startTime)
	}

	paths, err := queue.ReadPathList(afero.NewOsFs(), inputFile)
	if err != nil {
		return err
	}

	chunks, err := queue.SplitPaths(paths, queue.MaxChunkSize)
	if err != nil {
		return err
	}

	if isVerbose(cmd) {
		cmd.Printf("Loaded %d path(s) from %s, submitting %d part(s) as %q\n",
			len(paths), inputFile, len(chunks), baseName)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	client, session, err := gatewayLogin(cmd)
	if err != nil {
		return err
	}

	submitter := queue.NewSubmitter(client, cmd.OutOrStdout())
	handles, err := submitter.SubmitAll(ctx, session, chunks, queue.SubmitOptions{
		BaseName:     baseName,
		AccessMethod: models.AccessMethod(accessMethod),
		Email:        email,
	})
	if err != nil {
		// The gateway cannot cancel submitted parts, so make sure the user
		// knows which Downloads already exist before failing.
		if len(handles) > 0 {
			cmd.Printf("%d part(s) were already submitted before the failure:\n", len(handles))
			printHandleTable(cmd.OutOrStdout(), handles)
		}
		return err
	}

	result := models.QueueResult{
		GatewayURL:    getGatewayURL(cmd),
		BaseName:      baseName,
		AccessMethod:  accessMethod,
		TotalFiles:    len(paths),
		TotalParts:    len(chunks),
		Downloads:     handles,
		OperationTime: utils.FormatTime(startTime),
	}
	if err := utils.PrintJSON(result); err != nil {
		return err
	}

	if intervalMinutes > 0 {
		interval := time.Duration(intervalMinutes * float64(time.Minute))
		monitor := queue.NewMonitor(client, interval, statusClassifier(), cmd.OutOrStdout())
		if err := monitor.Run(ctx, session, handles); err != nil {
			// Every part is already queued; a monitoring failure must not
			// turn the run into a non-zero exit.
			utils.PrintError(err, "queue")
		}
		printHandleTable(cmd.OutOrStdout(), handles)
	}

	return nil
}

func init() {
	queueCmd.Flags().String("download-name", "", "Custom name for the Download(s); defaults to the current date and time")
	queueCmd.Flags().String("access-method", string(models.AccessMethodDLS), "Access method for the data: https (browser download), globus (Globus Online) or dls (restore to the DLS filesystem)")
	queueCmd.Flags().String("email-address", "", "Optional address to email status messages to")
	queueCmd.Flags().Float64P("monitor-interval", "m", 0, "Monitor the submitted Downloads with an interval of this many minutes; non-positive disables monitoring")
}
