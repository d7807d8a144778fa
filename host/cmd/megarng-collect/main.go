package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"megarng/host/collect"
	"megarng/host/config"
	"megarng/host/logger"
	"megarng/host/mcu"
	"megarng/host/naming"
	"megarng/host/serial"
	"megarng/rng"
)

var (
	configPath = flag.String("config", "", "JSON config file")
	device     = flag.String("device", "", "Serial device path (default: auto-detect)")
	baud       = flag.Int("baud", serial.DefaultBaud, "Baud rate")
	bitsFlag   = flag.Int("bits", 2048, "Bits per sample")
	interval   = flag.Int("interval", 1, "Seconds between samples")
	samples    = flag.Int("samples", 0, "Stop after this many samples (0 = until interrupted)")
	outDir     = flag.String("outdir", "data", "Output directory")
	source     = flag.String("source", "", "Expected source: analog or motion")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	jsonLog    = flag.Bool("json", false, "Log JSON lines instead of console text")
	listPorts  = flag.Bool("list", false, "List serial ports and exit")
)

const identifyTimeout = 5 * time.Second

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *jsonLog {
		logger.SetWriter(os.Stderr)
	}
	logger.SetVerbose(cfg.Verbose)
	log := logger.Log()

	if *listPorts {
		if err := printPorts(); err != nil {
			log.Fatal().Err(err).Msg("listing ports")
		}
		return
	}

	if cfg.Device == "" {
		cfg.Device, err = serial.FindBoard()
		if err != nil {
			log.Fatal().Err(err).Msg("no device given and none detected")
		}
		log.Info().Str("device", cfg.Device).Msg("detected board")
	}

	board, err := mcu.ConnectWithConfig(&serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: serial.DefaultConfig(cfg.Device).ReadTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer board.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src := resolveSource(ctx, board, cfg.Source)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("creating outdir")
	}
	binPath, csvPath, err := naming.BuildBinCSVPaths(cfg.OutDir, time.Now(), src, cfg.Bits, cfg.Interval)
	if err != nil {
		log.Fatal().Err(err).Msg("build filenames")
	}

	binFile, err := os.Create(binPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open bin file")
	}
	defer binFile.Close()
	csvFile, err := os.Create(csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv file")
	}
	defer csvFile.Close()

	binBuf := bufio.NewWriter(binFile)
	csvBuf := bufio.NewWriter(csvFile)
	defer binBuf.Flush()
	defer csvBuf.Flush()

	c := &collect.Collector{
		Bits:     cfg.Bits,
		Interval: time.Duration(cfg.Interval) * time.Second,
		Samples:  cfg.Samples,
		Bin:      binBuf,
		CSV:      csvBuf,
		OnBatch: func(n, ones int) {
			_ = binBuf.Flush()
			_ = csvBuf.Flush()
			log.Info().Int("sample", n).Int("ones", ones).Int("bits", cfg.Bits).Msg("sample")
		},
	}

	log.Info().Str("bin", binPath).Str("csv", csvPath).Str("source", string(src)).
		Msgf("collecting %d bits every %ds", cfg.Bits, cfg.Interval)
	runErr := c.Run(ctx, board.Reader(ctx))

	st := board.Stats()
	log.Info().
		Int("blocks", st.Blocks).
		Int("missed", st.Missed).
		Int("resets", st.Resets).
		Int("bad_crc", st.Frames.BadCRC).
		Int("bad_length", st.Frames.BadLength).
		Int("discarded", st.Frames.Discarded).
		Msg("done")
	if runErr != nil {
		log.Error().Err(runErr).Msg("collection stopped")
	}
}

// loadConfig reads -config if given, then lets explicitly set flags override it.
func loadConfig() (*config.CollectConfig, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "baud":
			cfg.Baud = *baud
		case "bits":
			cfg.Bits = *bitsFlag
		case "interval":
			cfg.Interval = *interval
		case "samples":
			cfg.Samples = *samples
		case "outdir":
			cfg.OutDir = *outDir
		case "source":
			cfg.Source = naming.Source(*source)
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	if cfg.Bits <= 0 || cfg.Interval <= 0 {
		return nil, fmt.Errorf("-bits and -interval must be > 0")
	}
	return cfg, cfg.Validate()
}

// resolveSource waits for the board to announce its generator. A board that
// was not reset on open never sends one; fall back to the expected source.
func resolveSource(ctx context.Context, board *mcu.MCU, want naming.Source) naming.Source {
	log := logger.Log()
	idCtx, cancel := context.WithTimeout(ctx, identifyTimeout)
	defer cancel()

	if _, err := board.Identify(idCtx); err != nil {
		log.Warn().Err(err).Msg("board did not identify")
		if want == "" {
			return naming.SourceFor(rng.ModeAnalog)
		}
		return want
	}

	mode, _ := board.Mode()
	got := naming.SourceFor(mode)
	if want != "" && want != got {
		log.Fatal().Str("expected", string(want)).Str("board", string(got)).Msg("source mismatch")
	}
	return got
}

func printPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	for _, p := range ports {
		mark := " "
		if p.IsBoard() {
			mark = "*"
		}
		if p.USB {
			fmt.Printf("%s %s  %s:%s  %s %s\n", mark, p.Name, p.VID, p.PID, p.Product, p.Serial)
		} else {
			fmt.Printf("%s %s\n", mark, p.Name)
		}
	}
	return nil
}
