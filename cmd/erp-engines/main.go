package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/erp-engines/internal/config"
	"github.com/iwvelando/erp-engines/internal/logging"
	"github.com/iwvelando/erp-engines/internal/workbook"
	"github.com/iwvelando/erp-engines/pkg/constants"
	"github.com/iwvelando/erp-engines/pkg/output"
	"github.com/iwvelando/erp-engines/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to workbook file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load workbook at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over the workbook
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	conf.Output.Format = outputFormat

	report, err := workbook.Evaluate(logger, *conf)
	if err != nil {
		logger.Fatal("failed to evaluate workbook",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, report)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
