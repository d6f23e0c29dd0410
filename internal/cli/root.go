package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/branding"
	"github.com/chenchenpp/springboot-code-mcp/internal/config"
	"github.com/chenchenpp/springboot-code-mcp/internal/logging"
	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` adds Maven dependencies to Spring Boot pom.xml files without
touching anything else in the file. Dependencies that are already declared are skipped.

Use it directly from the command line, or run "serve" to expose the same
operations as MCP tools over stdio or HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadCatalog returns the built-in presets merged with the configured overlay.
func loadCatalog() (*presets.Catalog, error) {
	return presets.Load(config.PresetsFile(), logger)
}
