package main

import (
	"errors"
	"flag"
	"io"
)

const (
	usageArgs = "ERROR: Incorrect number of arguments passed to main(), need in following order: #1 Name of CSV File\n" +
		"                                                                                #2 Name of ticker\n" +
		"                                                                                #3 Choice of matching algorithm (1 for FIFO, 2 for Pro-Rata)\n"
	usageAlgo = "ERROR: Invalid choice of algorithm, please pick from the following (FIFO: 1, Pro-Rata: 2)"
)

var (
	errUsage     = errors.New(usageArgs)
	errUsageAlgo = errors.New(usageAlgo)
)

type options struct {
	configFile string
	input      string
	ticker     string
	algo       string
	format     string
}

// parseArgs accepts the positional form "<orders.csv> <ticker> <1|2>" as
// well as flags. Positional values win over flags.
func parseArgs(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("matcher", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configFile, "config-file", "", "Specify config file path")
	fs.StringVar(&opts.input, "input", "", "Order file to load")
	fs.StringVar(&opts.ticker, "ticker", "", "Instrument to match")
	fs.StringVar(&opts.algo, "algo", "", "Matching algorithm (1 for FIFO, 2 for Pro-Rata)")
	fs.StringVar(&opts.format, "format", "", "Order file format (csv or fix)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 3:
		opts.input, opts.ticker, opts.algo = fs.Arg(0), fs.Arg(1), fs.Arg(2)
	default:
		return opts, errUsage
	}

	return opts, nil
}
