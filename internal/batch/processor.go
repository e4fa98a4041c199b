// Package batch normalizes a set of captured images into upright,
// size-bounded thumbnails using a worker pool.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"capture-thumb-editor/internal/imgio"
	"capture-thumb-editor/internal/logging"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir    string
	MaxDimension int
	Format       string
	JPEGQuality  int
	Workers      int
	HEIC         imgio.HEICDecoder

	// Progress, when non-nil, receives a line every couple of seconds.
	Progress func(done, total int, rate float64)
}

// Result holds the outcome of processing one capture.
type Result struct {
	Source      string `json:"source"`
	Output      string `json:"output,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// Run normalizes all capture files using a worker pool. Results keep the
// input order.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && cfg.Progress != nil {
					elapsed := time.Since(start).Seconds()
					cfg.Progress(int(p), total, float64(p)/elapsed)
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Worker pool
	pathChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pathChan {
				results[idx] = processCapture(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	return results
}

func processCapture(cfg Config, path string) Result {
	loader := &imgio.Loader{MaxDimension: cfg.MaxDimension, HEIC: cfg.HEIC}

	src, err := loader.LoadFile(path)
	if err != nil {
		logging.Logger().Debug("capture failed", "path", path, "err", err)
		return Result{Source: path, Error: err.Error()}
	}

	encode := imgio.EncoderFor(cfg.Format, cfg.JPEGQuality)
	data, err := encode(src.Bitmap)
	if err != nil {
		return Result{Source: path, Error: err.Error()}
	}

	outPath := filepath.Join(cfg.OutputDir, outputName(path, cfg.Format))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{Source: path, Error: err.Error()}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return Result{Source: path, Error: err.Error()}
	}

	return Result{
		Source:      path,
		Output:      outPath,
		Width:       src.NaturalWidth,
		Height:      src.NaturalHeight,
		Orientation: src.Orientation.String(),
		Success:     true,
	}
}

// outputName swaps the capture's extension for the output format's.
func outputName(path, format string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".webp"
	if format == "jpeg" || format == "jpg" {
		ext = ".jpg"
	}
	return base + ext
}

// CollectCaptures lists the supported capture files under dir,
// lexicographically ordered.
func CollectCaptures(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp", ".tga", ".heic", ".heif":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
