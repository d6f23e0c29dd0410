package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/branding"
	"github.com/chenchenpp/springboot-code-mcp/internal/config"
	"github.com/chenchenpp/springboot-code-mcp/internal/pomfile"
	"github.com/chenchenpp/springboot-code-mcp/internal/server"
	"github.com/chenchenpp/springboot-code-mcp/internal/tools"
)

var (
	serveHTTP  bool
	serveStdio bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server exposing the dependency tools.

The transport comes from the mode config key (env MCP_MODE), stdio by default.
--http and --stdio override it. In HTTP mode the server listens on http.port
(MCP_HTTP_PORT, default 3000) and accepts JSON-RPC on http.path (MCP_HTTP_PATH,
default /mcp), with a health probe on /health.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "Serve over HTTP")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Serve over stdin/stdout")
	serveCmd.MarkFlagsMutuallyExclusive("http", "stdio")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Server()
	if err != nil {
		return err
	}
	switch {
	case serveHTTP:
		settings.Mode = config.ModeHTTP
	case serveStdio:
		settings.Mode = config.ModeStdio
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	registry, err := tools.New(tools.Deps{
		Catalog:  cat,
		Injector: pomfile.NewInjector(logger, pomfile.WriteOptions{Backup: config.Backup()}),
		Log:      logger,
	})
	if err != nil {
		return fmt.Errorf("building tools: %w", err)
	}

	srv := server.New(registry, server.Options{
		Name:    branding.ServerName(),
		Version: buildVersion,
		Log:     logger,
	})

	logger.Info("starting server", zap.String("mode", settings.Mode))
	if settings.Mode == config.ModeHTTP {
		return srv.ListenAndServeHTTP(cmd.Context(), settings.Addr(), settings.Path)
	}
	return srv.ServeStdio(cmd.Context(), os.Stdin, os.Stdout)
}
