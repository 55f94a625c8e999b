package main

import (
	"flag"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/seyeddanesh/startupcapmodel/internal/config"
	"github.com/seyeddanesh/startupcapmodel/internal/server"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	configLocation := flag.String("config", "", "path to server configuration file")
	address := flag.String("addr", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	serverConfig, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server config\", \"error\": \"%v\"}\n", err)
		return
	}

	logger, err := config.BuildLogger(serverConfig.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	listenAddress := serverConfig.Address
	if *address != "" {
		listenAddress = *address
	}

	handler := server.NewHandler(logger, serverConfig.BodySizeBytes(), version)

	logger.Info("starting cap table server",
		zap.String("op", "main"),
		zap.String("address", listenAddress),
		zap.String("version", version),
	)

	if err := http.ListenAndServe(listenAddress, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
