package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/unlatch-ai/poke-daddy/internal/gateway"
	"github.com/unlatch-ai/poke-daddy/internal/logging"
)

const serverVersion = "1.0.0"

// The gateway is the one caller the server's admin surface trusts. It
// speaks MCP over stdio to the external decision-making agent and
// forwards tool calls to the HTTP API.
func main() {
	logging.Setup()

	serverURL := os.Getenv("POKEDADDY_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	adminToken := os.Getenv("ADMIN_TOKEN")

	client := gateway.NewClient(serverURL, adminToken)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pokedaddy-gateway",
		Version: serverVersion,
	}, nil)
	gateway.RegisterTools(server, client)

	slog.Info("gateway starting", "server_url", serverURL)
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		slog.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}
