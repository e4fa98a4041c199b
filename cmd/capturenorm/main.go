// Command capturenorm normalizes captured images (EXIF orientation + size
// bound) into thumbnails, for a single file or a whole capture directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"capture-thumb-editor/internal/batch"
	"capture-thumb-editor/internal/config"
	"capture-thumb-editor/internal/logging"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("input", "", "Capture file or directory")
	output := flag.String("output", "", "Output directory (default: thumbs)")
	maxDim := flag.Int("max", 0, "Max output dimension (default: 1500)")
	format := flag.String("format", "", "Output format: webp or jpeg (default: webp)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Debug logging to stderr")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *input,
		OutputDir: *output,
		MaxDim:    *maxDim,
		Format:    *format,
		Quality:   *quality,
		Workers:   *workers,
	})

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input. Use -input or config.json.")
		os.Exit(1)
	}

	// Single file or directory
	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var paths []string
	if info.IsDir() {
		paths, err = batch.CollectCaptures(cfg.InputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		paths = []string{cfg.InputDir}
	}

	if len(paths) == 0 {
		fmt.Println("No captures to normalize.")
		os.Exit(0)
	}

	fmt.Printf("Capture normalizer → %s\n", cfg.Format)
	fmt.Printf("Captures: %d, Workers: %d, Max dimension: %d\n", len(paths), cfg.Workers, cfg.MaxDimension)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		MaxDimension: cfg.MaxDimension,
		Format:       cfg.Format,
		JPEGQuality:  cfg.JPEGQuality,
		Workers:      cfg.Workers,
		Progress: func(done, total int, rate float64) {
			fmt.Printf("  [%d/%d] %.1f captures/sec\n", done, total, rate)
		},
	}

	results := batch.Run(batchCfg, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Normalized: %d/%d\n", success, len(paths))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Source, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
