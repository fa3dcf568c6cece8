package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/mcpserver"
	"github.com/thamam/talk-to-me-claude-cli/session"
	"github.com/thamam/talk-to-me-claude-cli/voice"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "settings.json", "Path to the settings file")
	flag.Parse()

	// Stdout carries the MCP protocol, so all logging goes to stderr.
	if err := godotenv.Load(".env.local"); err != nil {
		core.GetLogger().Debugf("No .env.local file found: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		core.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}

	logger := core.NewDevelopmentLogger()
	if cfg.LogLevel != "development" && cfg.LogLevel != "debug" {
		zl, err := core.NewProductionLogger()
		if err != nil {
			core.GetLogger().Fatalf("Failed to build logger: %v", err)
		}
		logger = zl
	}
	core.SetLogger(*logger)
	defer logger.Sync()

	sessions := session.NewManager(cfg.Defaults)
	voiceCtl := voice.NewController(cfg, logger)
	srv := mcpserver.New(cfg, sessions, voiceCtl, logger)

	if err := srv.Run(); err != nil {
		logger.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
