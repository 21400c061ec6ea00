package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dgqueue/config"
	"dgqueue/internal/gateway"
	"dgqueue/internal/models"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dgqueue",
	Short: "Bulk download queuing tool for DataGateway",
	Long: `dgqueue submits DataGateway Download requests for a list of specific
filepaths. The list is split into separate parts of up to 10,000 files for
performance reasons. Once submitted, Downloads will be visible in the
DataGateway UI as usual.
Connection settings are loaded from a .env file or environment variables and
can be overridden with flags.`,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(statusCmd)

	rootCmd.PersistentFlags().String("url", "", "Override the DataGateway instance URL from config")
	rootCmd.PersistentFlags().StringP("authenticator", "a", "", "Authentication mechanism to use for DataGateway login")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Username used for DataGateway login")
	rootCmd.PersistentFlags().StringP("password-file", "p", "", "File containing the password for DataGateway login")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getGatewayURL(cmd *cobra.Command) string {
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		return url
	}
	return cfg.GatewayURL
}

func getAuthenticator(cmd *cobra.Command) string {
	if auth, _ := cmd.Flags().GetString("authenticator"); auth != "" {
		return auth
	}
	return cfg.Authenticator
}

func getUsername(cmd *cobra.Command) string {
	if username, _ := cmd.Flags().GetString("username"); username != "" {
		return username
	}
	return cfg.Username
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func statusClassifier() *models.StatusClassifier {
	if len(cfg.NonTerminalStatuses) == 0 {
		return models.DefaultStatusClassifier()
	}
	statuses := make([]models.Status, 0, len(cfg.NonTerminalStatuses))
	for _, s := range cfg.NonTerminalStatuses {
		statuses = append(statuses, models.Status(s))
	}
	return models.NewStatusClassifier(statuses...)
}

// gatewayLogin resolves credentials and authenticates once; the returned
// session is shared by everything else the command does.
func gatewayLogin(cmd *cobra.Command) (gateway.Client, gateway.Session, error) {
	username := getUsername(cmd)
	if username == "" {
		return nil, "", fmt.Errorf("username is required (use -u or DG_USERNAME)")
	}

	password, err := resolvePassword(cmd)
	if err != nil {
		return nil, "", err
	}

	client := gateway.New(getGatewayURL(cmd))
	session, err := client.Login(cmd.Context(), username, password, getAuthenticator(cmd))
	if err != nil {
		return nil, "", fmt.Errorf("failed to log in to %s: %w", getGatewayURL(cmd), err)
	}

	return client, session, nil
}

// resolvePassword reads the first line of the password file when one is
// configured, otherwise prompts on the terminal without echo.
func resolvePassword(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("password-file")
	if path == "" {
		path = cfg.PasswordFile
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		line, _, _ := strings.Cut(string(data), "\n")
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func printHandleTable(w io.Writer, handles []models.DownloadHandle) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Status"})
	for _, h := range handles {
		status := string(h.Status)
		if status == "" {
			status = "UNKNOWN"
		}
		table.Append([]string{strconv.FormatInt(h.ID, 10), h.Name, status})
	}
	table.Render()
}
