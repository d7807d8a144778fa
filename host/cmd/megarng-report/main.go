package main

import (
	"flag"
	"fmt"
	"os"

	"megarng/host/logger"
	"megarng/host/report"
)

var (
	verbose = flag.Bool("verbose", false, "Enable verbose output")
	jsonLog = flag.Bool("json", false, "Log JSON lines instead of console text")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: megarng-report [-verbose] [-json] <session.bin|session.csv>...")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *jsonLog {
		logger.SetWriter(os.Stderr)
	}
	logger.SetVerbose(*verbose)
	log := logger.Log()

	failed := 0
	for _, path := range flag.Args() {
		out, err := report.Build(path)
		if err != nil {
			log.Error().Err(err).Str("input", path).Msg("report failed")
			failed++
			continue
		}
		log.Info().Str("input", path).Str("output", out).Msg("report written")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
