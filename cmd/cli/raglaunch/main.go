package main

import (
	"context"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/rag-tools/rag-launcher-go/pkg/launcher"
	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

type flagOptions struct {
	Config    string `long:"config" description:"path to the launcher YAML configuration file"`
	Yes       bool   `long:"yes" short:"y" description:"skip the install confirmation prompt"`
	NoBrowser bool   `long:"no-browser" description:"do not open the front end in a browser"`
	LogLevel  string `long:"log-level" description:"log level (debug, info, warn, error)"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	config := launcher.DefaultConfig()
	if opts.Config != "" {
		loaded, err := launcher.LoadConfigFromFile(opts.Config)
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		config = *loaded
	}
	if opts.Yes {
		config.AutoConfirm = true
	}
	if opts.NoBrowser {
		config.SkipBrowser = true
	}
	if opts.LogLevel != "" {
		config.LogLevel = opts.LogLevel
	}

	zapConfig := logging.DefaultZapConfig()
	zapConfig.Level = config.LogLevel
	zapConfig.Format = config.LogFormat
	logger, sync, err := logging.NewZapLogger(zapConfig)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	exitCode := launcher.NewLauncher(config, logger).Run(context.Background())
	sync()
	os.Exit(exitCode)
}
