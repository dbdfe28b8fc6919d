package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpAdapter "github.com/formpilot/formpilot/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the assistant as an MCP Server.
This allows AI agents (like Claude Desktop) to drive template matching,
discovery and elicitation as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")

		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.MCPPort, _ = cmd.Flags().GetInt("port")
		}

		logger := newLogger(cfg)
		slog.SetDefault(logger)

		assistant, err := buildAssistant(cfg, logger)
		if err != nil {
			log.Fatalf("Error initializing formpilot: %v", err)
		}

		srv, err := mcpAdapter.NewServer(assistant.Sessions(), assistant.Catalog())
		if err != nil {
			log.Fatalf("Error building MCP server: %v", err)
		}

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Formpilot MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Formpilot MCP Server (SSE)", "port", cfg.MCPPort)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, cfg.MCPPort); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 0, "Port to listen on (only for SSE, overrides config)")
}
