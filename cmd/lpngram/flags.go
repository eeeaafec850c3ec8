package main

import "github.com/urfave/cli/v3"

var (
	configPath string
	logLevel   string
	dbPath     string

	inputPath  string
	trainPath  string
	outputPath string

	order      int
	minOrder   int
	skipGap    int
	positional bool
	pad        string
	padding    string
	chars      bool

	method     string
	bins       int
	gamma      float64
	confidence float64
	seed       uint64
	format     string
	top        int
	archive    bool
	label      string
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to the configuration file (.json, .yaml or .yml)",
			Value:       "lpngram.json",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Destination: &logLevel,
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "input corpus, or - for stdin",
			Value:       "-",
			Destination: &inputPath,
		},
		&cli.BoolFlag{
			Name:        "chars",
			Usage:       "use characters as symbols and lines as sequences",
			Destination: &chars,
		},
	}
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "order",
			Aliases:     []string{"n"},
			Usage:       "n-gram order",
			Value:       2,
			Destination: &order,
		},
		&cli.StringFlag{
			Name:        "pad",
			Usage:       "padding symbol",
			Destination: &pad,
		},
		&cli.StringFlag{
			Name:        "padding",
			Usage:       "padded sides (both, left, right, none)",
			Destination: &padding,
		},
	}
}

func smoothingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "method",
			Aliases:     []string{"m"},
			Usage:       "smoothing method (see 'lpngram methods')",
			Destination: &method,
		},
		&cli.IntFlag{
			Name:        "bins",
			Usage:       "alphabet size for smoothing (0 = derive from the input)",
			Destination: &bins,
		},
		&cli.Float64Flag{
			Name:        "gamma",
			Usage:       "additive constant for lidstone",
			Destination: &gamma,
		},
		&cli.Float64Flag{
			Name:        "confidence",
			Usage:       "Good-Turing confidence level (z score)",
			Destination: &confidence,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "random seed for the random method (0 = time based)",
			Destination: &seed,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml, tsv)",
			Destination: &format,
		},
		&cli.IntFlag{
			Name:        "top",
			Usage:       "only print the K most frequent entries (0 = all)",
			Destination: &top,
		},
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db",
			Usage:       "path to the results archive",
			Destination: &dbPath,
		},
	}
}
