// Command-line tool that masks no-data pixels in 2d rasters.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/janelia-flyem/maskview"
	"github.com/janelia-flyem/maskview/core"
	"github.com/janelia-flyem/maskview/mask"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Path to TOML configuration file.
	configFile = flag.String("config", "", "")

	// Number of goroutines for edge mask construction and rasterization.
	useWorkers = flag.Int("workers", -1, "")

	// Edge mask strategy: scan or flood.
	useStrategy = flag.String("strategy", "", "")
)

const helpMessage = `
edgemask masks "no data" pixels of 2d rasters and writes the result with an alpha channel.

Usage: edgemask [options] <command>

      -config     =string   Path to TOML configuration file.
      -workers    =number   Number of goroutines used to build masks.
      -strategy   =string   Edge mask strategy: "scan" (default) or "flood".
      -verbose    (flag)    Run in verbose mode.
  -h, -help       (flag)    Show help message

Commands:

	edge   <input> <output.png>            Mask zero pixels reaching in from the image edges.
	create <input> <output.png>            Mask every pixel equal to the configured nodata value.
	apply  <input> <output.png>            Edge mask, then replace masked pixels with the fill value.
	copy   <input> <reference> <output.png> Mask input wherever the reference is transparent.
	info   <input>                          Print size and edge mask statistics.
	version

Inputs may be PNG, TIFF, BMP, or JPEG.  8-bit and 16-bit grayscale rasters keep their
depth; all other images are converted to 8-bit grayscale.
`

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = func() {
		fmt.Print(helpMessage)
	}
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *runVerbose {
		core.Verbose = true
	}

	config, err := loadConfig(*configFile, *useWorkers, *useStrategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edgemask: %v\n", err)
		os.Exit(1)
	}
	config.Logging.SetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, config, flag.Args(), os.Stdout)
	stop()
	core.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "edgemask: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional TOML file and applies command-line overrides.
func loadConfig(filename string, workers int, strategy string) (*core.Config, error) {
	config := core.DefaultConfig()
	if filename != "" {
		var err error
		if config, err = core.LoadConfig(filename); err != nil {
			return nil, err
		}
	}
	if workers >= 0 {
		config.Mask.Workers = workers
	}
	if strategy != "" {
		config.Mask.Strategy = strategy
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := mask.ParseStrategy(config.Mask.Strategy); err != nil {
		return nil, err
	}
	return config, nil
}

func versionString() string {
	return fmt.Sprintf("edgemask %s", maskview.Version)
}
