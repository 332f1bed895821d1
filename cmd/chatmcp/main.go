package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Terrib1e/awt-chat-mcp-server/internal"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/config"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/prompts"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/resources"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/tools"
	"github.com/Terrib1e/awt-chat-mcp-server/mcp"
)

var rootCmd = &cobra.Command{
	Use:   "chatmcp",
	Short: "A demonstration MCP server with calculator, file, web, and data tools",
	Long: `chatmcp is an MCP stdio server. It processes JSON-RPC requests from stdin
and returns JSON-RPC responses on stdout, exposing calculator, unit
conversion, file, web, and data analysis tools together with file and
system resources and a set of prompt templates.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		logBuffer := resources.NewLogBuffer(0)
		var logSink io.Writer = logBuffer
		level := slog.LevelInfo
		if verbose {
			logSink = io.MultiWriter(os.Stderr, logBuffer)
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{
			Level: level,
		}))

		g.Go(func() error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if timeout > 0 {
				cfg.RequestTimeout = timeout
			}
			if concurrency > 0 {
				cfg.MaxConcurrentRequests = int64(concurrency)
			}

			retryClient := retryablehttp.NewClient()
			retryClient.RetryMax = retries
			retryClient.RetryWaitMin = 1 * time.Second
			retryClient.RetryWaitMax = 30 * time.Second
			retryClient.HTTPClient.Timeout = cfg.RequestTimeout
			retryClient.HTTPClient.Transport = &internal.HeaderTransport{
				Headers: http.Header{"User-Agent": []string{"chatmcp/" + version}},
			}
			retryClient.Logger = logger
			client := retryClient.StandardClient()

			registry := tools.NewRegistry(logger)
			err = tools.NewCatalog(tools.Toolbox{
				Files: tools.NewFileOps(cfg.RestrictedPaths, cfg.AllowedExtensions),
				Web: tools.NewWebOps(tools.WebOpsConfig{
					Client:           client,
					MaxResponseBytes: cfg.MaxResponseBytes,
					MaxConcurrent:    cfg.MaxConcurrentRequests,
					SearchEndpoint:   cfg.SearchEndpoint,
					AllowedDomains:   cfg.AllowedDomains,
					Logger:           logger,
				}),
			}, registry)
			if err != nil {
				return fmt.Errorf("error building tool catalog: %w", err)
			}

			catalog := resources.NewCatalog(cfg.DataDir, resources.StatusInfo{
				ServerName: "chatmcp",
				Version:    version,
				ToolCount:  registry.Len(),
				StartedAt:  time.Now(),
			}, logBuffer, logger)

			server, err := mcp.NewServer(
				mcp.WithRegistry(registry),
				mcp.WithResources(catalog),
				mcp.WithPrompts(prompts.NewLibrary()),
				mcp.WithServerInfo("chatmcp", version),
				mcp.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("error creating server: %w", err)
			}

			logger.Info("server ready", "tools", registry.Len(), "data_dir", cfg.DataDir)

			transport := mcp.NewStdioTransport(os.Stdin, os.Stdout, os.Stderr)
			return transport.Run(ctx, server.Handle)
		})

		return g.Wait()
	},
}

var (
	configPath  string
	dataDir     string
	verbose     bool
	retries     int
	timeout     time.Duration
	concurrency int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory scanned for file resources (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for failed requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout (overrides config)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent outbound requests (overrides config)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
