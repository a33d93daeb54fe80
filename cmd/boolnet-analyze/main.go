package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/biocircuits/boolnet/pkg/analysis"
	"github.com/biocircuits/boolnet/pkg/bnd"
	"github.com/biocircuits/boolnet/pkg/config"
	"github.com/biocircuits/boolnet/pkg/metrics"
	"github.com/biocircuits/boolnet/pkg/report"
)

func main() {
	modelPath := flag.String("model", "", "Path to the .bnd network model (required)")
	configPath := flag.String("config", "", "Optional YAML config file")
	outPath := flag.String("out", "", "Report output path (default stdout)")
	metricsAddr := flag.String("metrics-listen", "", "Optional address to serve Prometheus metrics on")
	workers := flag.Int("workers", 0, "Override simulation worker count")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *modelPath == "" {
		logger.Error("missing required -model flag")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	logger.Info("loading network model", "path", *modelPath)
	network, err := bnd.LoadFile(*modelPath)
	if err != nil {
		logger.Error("failed to load model", "path", *modelPath, "error", err)
		os.Exit(1)
	}
	logger.Info("network model loaded",
		"network", network.Name,
		"nodes", network.Size(),
		"logic_nodes", network.LogicCount(),
	)

	registry := metrics.NewRegistry()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry.PrometheusRegistry(), promhttp.HandlerOpts{}))
		go func() {
			logger.Info("metrics listener starting", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stages := analysis.DefaultRegistry(cfg.Workers, logger, registry)
	controller, err := analysis.NewController(cfg, stages, logger, registry)
	if err != nil {
		logger.Error("failed to build controller", "error", err)
		os.Exit(1)
	}

	outcome, err := controller.Run(ctx, network)
	if err != nil {
		logger.Error("analysis run failed", "error", err)
		os.Exit(1)
	}

	doc := report.Build(network, outcome)
	data, err := yaml.Marshal(doc)
	if err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}

	if *outPath == "" {
		os.Stdout.Write(data)
	} else {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			logger.Error("failed to write report", "path", *outPath, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *outPath)
	}

	if outcome.Reason == analysis.StopAnalysisError {
		os.Exit(1)
	}
}
