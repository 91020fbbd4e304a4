package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"docpipe/internal/async"
	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/export"
	"docpipe/internal/ingest"
	"docpipe/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if len(cfg.Ingest.WatchRoots) == 0 {
		logger.Error("ingest.watch_roots is required for the daemon")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := pipeline.Build(cfg, logger)
	if err != nil {
		logger.Error("build pipeline failed", "error", err)
		os.Exit(1)
	}

	exporter := export.NewService(logger)
	onDone := func(path string, res *entity.DocumentResult) {
		writeResult(logger, cfg, exporter, path, res)
	}

	queue := async.NewProcessorQueue(proc, onDone, logger,
		async.WithWorkers(cfg.Pipeline.DocWorkers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	// Discovery: the scanner dedups by content hash so rewritten files are not
	// processed twice, across both the initial scan and watcher events.
	scanner := ingest.NewScanner()
	enqueue := func(path string) {
		_ = queue.Enqueue(ctx, async.Job{
			Path:        path,
			SubmittedAt: time.Now().UTC(),
			TraceID:     uuid.NewString(),
		})
	}

	if cfg.Ingest.InitialScan {
		for _, root := range cfg.Ingest.WatchRoots {
			_, stats, err := scanner.ScanDirectory(ctx, root, cfg.Ingest.SkipHidden, enqueue)
			if err != nil {
				logger.Error("initial scan failed", "root", root, "error", err)
				os.Exit(1)
			}
			logger.Info("initial scan complete", "root", root,
				"matched", stats.Matched, "queued", stats.Succeeded-stats.Deduplicated,
				"deduplicated", stats.Deduplicated, "failed", stats.Failed)
		}
	}

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    cfg.Ingest.WatchRoots,
		Debounce: cfg.Ingest.Debounce,
	})
	if err != nil {
		logger.Error("start watcher failed", "error", err)
		os.Exit(1)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-evCh:
				if !ok {
					return
				}
				res, err := scanner.Accept(path)
				if err != nil || res.Deduplicated {
					continue
				}
				enqueue(path)
			case err, ok := <-errCh:
				if ok && err != nil {
					logger.Warn("watcher error", "error", err)
				}
			}
		}
	}()

	// gRPC server: health + reflection for probes and grpcurl.
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("grpc serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(drainCtx)
	logger.Info("stopped")
}

func writeResult(logger *slog.Logger, cfg *common.Config, exporter *export.Service, path string, res *entity.DocumentResult) {
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		logger.Error("create output dir failed", "dir", cfg.Export.OutputDir, "error", err)
		return
	}
	base := filepath.Join(cfg.Export.OutputDir,
		fmt.Sprintf("%s-%s", filepath.Base(path), res.DocumentID))

	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("marshal result failed", "document_id", res.DocumentID, "error", err)
		return
	}
	if err := os.WriteFile(base+".json", raw, 0o644); err != nil {
		logger.Error("write result failed", "path", base+".json", "error", err)
		return
	}

	if cfg.Export.XLSX {
		wb, err := exporter.ResultXLSX(res)
		if err != nil {
			logger.Error("export xlsx failed", "document_id", res.DocumentID, "error", err)
			return
		}
		if err := os.WriteFile(base+".xlsx", wb, 0o644); err != nil {
			logger.Error("write xlsx failed", "path", base+".xlsx", "error", err)
		}
	}
}
