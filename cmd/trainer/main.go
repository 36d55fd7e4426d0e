package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/config"
	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/forest"
	"github.com/autobid-ai/winpredict/pkg/queue/nats"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
	"github.com/autobid-ai/winpredict/pkg/store/duckdb"
	"github.com/autobid-ai/winpredict/pkg/train"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting trainer worker",
		zap.String("nats_url", cfg.NATSURL),
		zap.String("db_path", cfg.DBPath),
		zap.String("model_dir", cfg.ModelDir),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	duckClient, err := duckdb.NewClient(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to connect to duckdb", zap.Error(err))
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(duckClient); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	store, err := artifact.NewStore(cfg.ModelDir)
	if err != nil {
		logger.Fatal("failed to open model store", zap.Error(err))
	}

	trainCfg := train.Config{
		MinSamples: cfg.MinSamples,
		Forest: forest.Config{
			Trees:           cfg.Trees,
			MinSamplesSplit: 2,
			Seed:            cfg.Seed,
		},
	}
	engine := train.NewEngine(store, feature.NewBuilder(), trainCfg, logger).
		WithSource(duckdb.NewBidRepo(duckClient)).
		WithTrainingLog(duckdb.NewModelLogRepo(duckClient))

	natsClient, err := nats.NewClient(nats.Config{
		URL:        cfg.NATSURL,
		StreamName: cfg.NATSStream,
	})
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	if err := natsClient.CreateStream(ctx, []string{nats.SubjectRetrain}); err != nil {
		logger.Fatal("failed to create stream", zap.Error(err))
	}

	consumer, err := natsClient.Subscribe(ctx, nats.SubjectRetrain, "retrain-worker", func(msg jetstream.Msg) error {
		trigger, err := nats.DecodeRetrain(msg.Data())
		if err != nil {
			// Redelivery cannot fix a malformed trigger; drop it.
			logger.Warn("dropping undecodable retrain trigger", zap.Error(err))
			return nil
		}
		if trigger.TenantID == "" {
			logger.Warn("dropping retrain trigger without tenant id")
			return nil
		}

		outcome := engine.TrainFromSource(ctx, trigger.TenantID)
		logger.Info("retrain finished",
			zap.String("tenant_id", trigger.TenantID),
			zap.String("reason", trigger.Reason),
			zap.String("status", outcome.Status),
			zap.Int("total_samples", outcome.TotalSamples),
			zap.String("outcome_reason", outcome.Reason),
		)
		// A failed fit is an outcome, not a delivery problem; ack it.
		return nil
	})
	if err != nil {
		logger.Fatal("failed to subscribe to retrain triggers", zap.Error(err))
	}
	defer consumer.Stop()

	logger.Info("trainer worker ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down trainer worker")
}
