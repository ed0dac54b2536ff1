package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cwsl/nr_uplink/nr/frame"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/google/uuid"
)

// Global debug flag
var DebugMode bool

func main() {
	startTime := time.Now()

	// Parse command line flags
	configDir := flag.String("config-dir", ".", "Directory containing configuration files")
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	seed := flag.Int64("seed", 0, "Seed for preamble identity draws (overrides generation.seed)")
	preambleID := flag.Int("preamble", -1, "Fixed preamble identity (overrides generation.preamble_id)")
	count := flag.Int("count", 0, "Number of preambles to generate (overrides generation.count)")
	out := flag.String("out", "", "Write preamble samples to this file (overrides output.path)")
	flag.Parse()

	// Set global debug mode - check environment variable first, then CLI flag
	DebugMode = *debug
	if debugEnv := os.Getenv("DEBUG"); debugEnv != "" {
		// Environment variable takes precedence
		DebugMode = debugEnv == "true" || debugEnv == "1" || debugEnv == "yes"
	}
	frame.DebugMode = DebugMode
	if DebugMode {
		log.Println("Debug mode enabled")
	}

	runID := uuid.New().String()
	log.Printf("nr_uplink %s starting, run %s", Version, runID)

	// Load configuration
	configPath := *configFile
	if *configDir != "." {
		configPath = filepath.Join(*configDir, *configFile)
	}
	config, err := LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) && !flagSet("config") {
		log.Printf("Warning: %s not found, using built-in defaults", configPath)
		config, err = ParseConfig(nil)
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command line overrides
	if flagSet("seed") {
		config.Generation.Seed = *seed
	}
	if flagSet("preamble") {
		if *preambleID < 0 {
			config.Generation.PreambleID = nil
		} else {
			config.Generation.PreambleID = preambleID
		}
	}
	if flagSet("count") {
		config.Generation.Count = *count
	}
	if flagSet("out") {
		config.Output.Path = *out
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	metrics := NewPrometheusMetrics()
	cores := cpuCores()
	metrics.SetCPUCores(cores)
	if DebugMode {
		log.Printf("DEBUG: %d CPU cores, %d workers", cores, config.Generation.Workers)
	}

	ul, err := config.UplinkConfig()
	if err != nil {
		log.Fatalf("Invalid uplink configuration: %v", err)
	}
	frameConfig, err := frame.NewConfig(ul, config.DuplexMode())
	if err != nil {
		log.Fatalf("Invalid frame configuration: %v", err)
	}
	metrics.SetFrameConfig(frameConfig)

	bwp := ul.InitialUplinkCommon.GenericParameters
	grid := frameConfig.Grid()
	log.Printf("Frame: %s, reference numerology %s, grid %d RBs, FFT size %d, %d symbols per SFN",
		frameConfig.DuplexMode, frameConfig.Reference.Numerology, frameConfig.Reference.GridSize,
		grid.FFTSize, grid.TotalSymbols())
	log.Printf("Initial UL BWP: start %d, size %d RBs at %s, %s cyclic prefix",
		bwp.Start, bwp.Size, bwp.SubcarrierSpacing, bwp.CyclicPrefix)
	if DebugMode {
		slot := allocateEmptySlot(grid)
		log.Printf("DEBUG: Empty slot: %d symbols x %d subcarriers (%d bytes), %d slots per SFN",
			len(slot), grid.FFTSize, slotBytes(grid), grid.TotalSlots())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &BatchRunner{
		Duplex:     frameConfig.DuplexMode,
		RACH:       ul.InitialUplinkCommon.RACHConfigCommon,
		Workers:    config.Generation.Workers,
		Seed:       config.Generation.Seed,
		PreambleID: config.Generation.PreambleID,
		Metrics:    metrics,
	}
	preambles, runErr := runner.Run(ctx, config.Generation.Count)
	if runErr != nil {
		log.Printf("ERROR: Preamble generation failed: %v", runErr)
	} else {
		first := preambles[0]
		log.Printf("Generated %d preambles: format %s, L_RA %d, N_CS %d, first preamble ID %d (root %d, cyclic shift %d)",
			len(preambles), first.Format, first.LRA, first.NCS, first.PreambleID,
			first.PhysicalRootSequence, first.CyclicShift)

		if config.Output.Path != "" {
			if err := writePreambles(config.Output.Path, preambles, config.Output.Compress); err != nil {
				log.Printf("ERROR: %v", err)
				runErr = err
			} else if err := writeRunReport(config.Output.Path+".json", runID, preambles); err != nil {
				log.Printf("ERROR: %v", err)
				runErr = err
			}
		}
	}
	metrics.MarkRunComplete()

	exportMetrics(config, metrics, runID)

	if runErr != nil {
		os.Exit(1)
	}
	log.Printf("Run %s finished in %v", runID, time.Since(startTime))
}

// allocateEmptySlot allocates one zeroed slot of the SFN grid. The whole SFN is
// never held in memory.
func allocateEmptySlot(grid frame.Grid) [][]complex64 {
	return grid.NewSlot()
}

// slotBytes is the memory taken by one slot of complex64 samples
func slotBytes(grid frame.Grid) int {
	return grid.SymbolsPerSlot * grid.FFTSize * 8
}

// flagSet reports whether the named flag was given on the command line
func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func writePreambles(path string, preambles []*prach.Preamble, compress bool) error {
	encoder := NewIQBinaryEncoder(compress)
	defer encoder.Close()

	data, err := encoder.EncodeBatch(preambles)
	if err != nil {
		return fmt.Errorf("failed to encode preambles: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote %d preambles (%d bytes) to %s", len(preambles), len(data), path)
	if DebugMode {
		log.Printf("DEBUG: IQ encoder stats: %v", encoder.GetStats())
	}
	return nil
}

// exportMetrics runs every configured exporter; failures are logged, not fatal
func exportMetrics(config *Config, metrics *PrometheusMetrics, runID string) {
	if config.Prometheus.Textfile != "" {
		if err := metrics.WriteTextfile(config.Prometheus.Textfile); err != nil {
			log.Printf("ERROR: %v", err)
		}
	}

	if config.Prometheus.Pushgateway.Enabled {
		if err := metrics.PushToGateway(config, runID); err != nil {
			log.Printf("ERROR: Failed to push metrics to Pushgateway: %v", err)
		}
	}

	if config.MQTT.Enabled {
		if config.MQTT.Broker == "" {
			log.Printf("Warning: MQTT enabled but no broker configured")
			return
		}
		publisher, err := NewMQTTPublisher(&config.MQTT, metrics)
		if err != nil {
			log.Printf("ERROR: %v", err)
			return
		}
		defer publisher.Disconnect()

		labels := map[string]string{
			"run_id":  runID,
			"duplex":  config.DuplexMode().String(),
			"version": Version,
		}
		if err := publisher.PublishRunSummary(labels); err != nil {
			log.Printf("MQTT ERROR: %v", err)
		}
	}
}
