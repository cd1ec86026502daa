// Command facilityctl imports, exports and migrates facility records from
// the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/facilitydesk/internal/client"
	_ "github.com/JonMunkholm/facilitydesk/internal/core/tables" // Register equipment and supplies
	"github.com/JonMunkholm/facilitydesk/internal/logging"
)

type globalFlags struct {
	apiURL   string
	token    string
	timeout  time.Duration
	logLevel string
}

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "facilityctl",
		Short:         "Facility equipment and supplies management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(os.Stderr, g.logLevel, "text"))
		},
	}

	root.PersistentFlags().StringVar(&g.apiURL, "api-url", envOr("FACILITYDESK_API_URL", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&g.token, "token", os.Getenv("FACILITYDESK_API_TOKEN"), "API bearer token")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 2*time.Minute, "request timeout")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newImportCmd(g),
		newExportCmd(g),
		newTemplateCmd(g),
		newFacilitiesCmd(g),
		newMigrateCmd(),
	)
	return root
}

func (g *globalFlags) client() *client.Client {
	return client.New(client.Config{
		BaseURL: g.apiURL,
		Token:   g.token,
		Timeout: g.timeout,
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
