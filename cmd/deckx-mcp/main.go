package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/deckx/internal/game"
	deckxmcp "github.com/peterkuimelis/deckx/internal/mcp"
)

func main() {
	setupPath := flag.String("setup", "", "path to setup YAML file (default: built-in two-player setup)")
	verbose := flag.Bool("verbose", false, "log every game event to stderr")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	cfg := zap.NewProductionConfig()
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *setupPath != "" {
		sf, err := game.ParseSetupFile(*setupPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		deckxmcp.SetSetup(sf)
	}
	deckxmcp.SetLogger(logger)

	s := server.NewMCPServer("deckx", "1.0.0")
	deckxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
