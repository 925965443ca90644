package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the auction server. Values come from
// defaults overridden by AUCTION_-prefixed environment variables, e.g.
// AUCTION_SERVER_PORT or AUCTION_SWEEP_SCHEDULE.
type Config struct {
	ServerPort      string
	BidMaxAttempts  int
	BidRetryDelay   time.Duration
	BidHistoryLimit int
	SweepSchedule   string
}

// Load reads the configuration from the environment.
func Load() Config {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("bidding.max_attempts", 3)
	v.SetDefault("bidding.retry_delay", 20*time.Millisecond)
	v.SetDefault("bidding.history_limit", 50)
	// cron spec with a seconds field
	v.SetDefault("sweep.schedule", "*/5 * * * * *")

	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		ServerPort:      v.GetString("server.port"),
		BidMaxAttempts:  v.GetInt("bidding.max_attempts"),
		BidRetryDelay:   v.GetDuration("bidding.retry_delay"),
		BidHistoryLimit: v.GetInt("bidding.history_limit"),
		SweepSchedule:   v.GetString("sweep.schedule"),
	}
}
