package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/seyeddanesh/startupcapmodel/internal/config"
	"github.com/seyeddanesh/startupcapmodel/internal/engine"
	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/output"
	"github.com/seyeddanesh/startupcapmodel/pkg/validation"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to model file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the model file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load model at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := config.BuildLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate the model and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Model warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Build the domain model, reconstructing order keys for legacy files.
	capModel, err := conf.BuildModel()
	if err != nil {
		logger.Fatal("failed to build cap table model",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the full recalculation pipeline.
	timeline := engine.NewTimeline(engine.New(logger), capModel, conf.RateTable())
	timeline.Recalculate()

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(capModel.Events, capModel.FounderName)
	case constants.OutputFormatCSV:
		output.CsvFormat(capModel.Events, capModel.FounderName)
	}
}
