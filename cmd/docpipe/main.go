package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"docpipe/internal/common"
	"docpipe/internal/pipeline"
)

// docpipe processes the given PDF files once and prints one JSON
// DocumentResult per line.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.pdf> [more.pdf ...]\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	proc, err := pipeline.Build(cfg, logger)
	if err != nil {
		logger.Error("build pipeline failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	exitCode := 0
	for _, path := range os.Args[1:] {
		pdf, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read file failed", "path", path, "error", err)
			exitCode = 1
			continue
		}

		runCtx := ctx
		if cfg.Pipeline.ProcessTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, cfg.Pipeline.ProcessTimeout)
			defer cancel()
		}

		res, err := proc.Process(runCtx, pdf)
		if err != nil {
			logger.Error("processing failed", "path", path, "error", err)
			exitCode = 1
			// fall through: a DocumentResult is still produced
		}
		raw, err := json.Marshal(res)
		if err != nil {
			logger.Error("marshal result failed", "path", path, "error", err)
			exitCode = 1
			continue
		}
		fmt.Println(string(raw))
	}
	os.Exit(exitCode)
}
