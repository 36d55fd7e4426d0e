package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the workers and CLIs
type Config struct {
	NATSURL    string
	NATSStream string
	DBPath     string
	ModelDir   string

	Trees      int
	MinSamples int
	Seed       int64
}

// Load reads configuration from an optional YAML file and WINPREDICT_*
// environment variables (e.g. WINPREDICT_NATS_URL), with defaults suitable
// for local development
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream", "winpredict")
	v.SetDefault("db.path", "winpredict.db")
	v.SetDefault("models.dir", "models_storage")
	v.SetDefault("training.trees", 100)
	v.SetDefault("training.min_samples", 5)
	v.SetDefault("training.seed", 42)

	v.SetEnvPrefix("WINPREDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		NATSURL:    v.GetString("nats.url"),
		NATSStream: v.GetString("nats.stream"),
		DBPath:     v.GetString("db.path"),
		ModelDir:   v.GetString("models.dir"),
		Trees:      v.GetInt("training.trees"),
		MinSamples: v.GetInt("training.min_samples"),
		Seed:       v.GetInt64("training.seed"),
	}, nil
}
