package main

import (
	"flag"
	"os"

	"github.com/df07/go-gargantua/pkg/config"
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/renderer"
	"github.com/df07/go-gargantua/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	configPath := flag.String("config", "", "Path to a TOML config file")
	assets := flag.String("assets", "", "Directory holding the texture assets (overrides config)")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			core.Errorf(logger, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *assets != "" {
		cfg.AssetDir = *assets
	}

	// Create and start web server
	webServer := server.NewServer(*port, cfg, logger)

	logger.Printf("Gargantua Web Server\n")
	logger.Printf("Visit http://localhost:%d to start rendering\n", *port)

	if err := webServer.Start(); err != nil {
		core.Errorf(logger, "Error starting server: %v\n", err)
		os.Exit(1)
	}
}
