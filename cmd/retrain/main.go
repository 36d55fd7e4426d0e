package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/config"
	"github.com/autobid-ai/winpredict/pkg/queue/nats"
)

// retrain enqueues a fire-and-forget retrain trigger for one tenant, the
// same message the upload and bulk-update flows publish.
func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	tenantID := flag.String("tenant", "", "tenant id (required)")
	reason := flag.String("reason", nats.ReasonManual, "trigger reason")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "usage: retrain -tenant <id> [-reason r]")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	client, err := nats.NewClient(nats.Config{
		URL:        cfg.NATSURL,
		StreamName: cfg.NATSStream,
	})
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.CreateStream(ctx, []string{nats.SubjectRetrain}); err != nil {
		logger.Fatal("failed to create stream", zap.Error(err))
	}
	if err := client.PublishRetrain(ctx, nats.RetrainMsg{
		TenantID: *tenantID,
		Reason:   *reason,
	}); err != nil {
		logger.Fatal("failed to publish retrain trigger", zap.Error(err))
	}

	logger.Info("retrain trigger enqueued",
		zap.String("tenant_id", *tenantID),
		zap.String("reason", *reason),
	)
}
