package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/autobid-ai/winpredict/pkg/config"
	"github.com/autobid-ai/winpredict/pkg/feature"
	"github.com/autobid-ai/winpredict/pkg/predict"
	"github.com/autobid-ai/winpredict/pkg/store/artifact"
)

// score runs a one-off prediction against a tenant's stored model. Missing
// flags are left nil so the engine applies its neutral defaults, the same
// behavior a caller gets when upstream extraction comes back empty.
func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	tenantID := flag.String("tenant", "", "tenant id (required)")
	industry := flag.String("industry", "", "tender industry")
	budget := flag.String("budget", "", "tender budget")
	techScore := flag.String("tech", "", "technical match score, 0-100")
	deadline := flag.String("deadline", "", "submission deadline, YYYY-MM-DD")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "usage: score -tenant <id> [-industry s] [-budget n] [-tech n] [-deadline YYYY-MM-DD]")
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

	store, err := artifact.NewStore(cfg.ModelDir)
	if err != nil {
		logger.Fatal("failed to open model store", zap.Error(err))
	}

	in := feature.TenderInput{
		Industry:       optString(*industry),
		Budget:         optFloat(*budget, logger, "budget"),
		TechnicalScore: optFloat(*techScore, logger, "tech"),
		Deadline:       feature.ParseDeadline(*deadline),
	}

	engine := predict.NewEngine(store, feature.NewBuilder(), logger)
	prediction, err := engine.Predict(context.Background(), *tenantID, in)
	if err != nil {
		logger.Fatal("prediction unavailable", zap.Error(err))
	}

	out, err := json.MarshalIndent(prediction, "", "  ")
	if err != nil {
		logger.Fatal("failed to encode prediction", zap.Error(err))
	}
	fmt.Println(string(out))
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(s string, logger *zap.Logger, name string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("ignoring unparsable flag", zap.String("flag", name), zap.String("value", s))
		return nil
	}
	return &v
}
