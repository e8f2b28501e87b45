package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the agent.
type Config struct {
	AppName           string
	AppEnv            string
	ListenAddr        string
	RemoteBaseURL     string
	RemoteTimeout     time.Duration
	TokenPath         string
	RedisURL          string
	SnapshotCacheTTL  time.Duration
	DashboardInterval time.Duration
	PurgeViewInterval time.Duration
	ProgressWindow    time.Duration
	ConfirmTicketTTL  time.Duration
	MaxUploadMB       int
}

// HTTPAddress returns the address the local dashboard server listens on.
func (c Config) HTTPAddress() string {
	if strings.Contains(c.ListenAddr, ":") {
		return c.ListenAddr
	}

	return fmt.Sprintf("127.0.0.1:%s", c.ListenAddr)
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DRAFTGUARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "DraftGuard Agent")
	v.SetDefault("app.env", "development")
	v.SetDefault("listen.addr", "127.0.0.1:7340")
	v.SetDefault("remote.timeout", "30s")
	v.SetDefault("token.path", ".draftguard/token")
	v.SetDefault("snapshot.cache_ttl", "5m")
	v.SetDefault("poll.dashboard_interval", "10s")
	v.SetDefault("poll.purge_interval", "15s")
	v.SetDefault("progress.window", "24h")
	v.SetDefault("purge.ticket_ttl", "2m")
	v.SetDefault("upload.max_mb", 25)

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		ListenAddr:    v.GetString("listen.addr"),
		RemoteBaseURL: strings.TrimRight(v.GetString("remote.base_url"), "/"),
		TokenPath:     v.GetString("token.path"),
		RedisURL:      v.GetString("redis.url"),
		MaxUploadMB:   v.GetInt("upload.max_mb"),
	}

	if cfg.RemoteBaseURL == "" {
		return Config{}, fmt.Errorf("remote base url must be provided")
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{"remote.timeout", &cfg.RemoteTimeout},
		{"snapshot.cache_ttl", &cfg.SnapshotCacheTTL},
		{"poll.dashboard_interval", &cfg.DashboardInterval},
		{"poll.purge_interval", &cfg.PurgeViewInterval},
		{"progress.window", &cfg.ProgressWindow},
		{"purge.ticket_ttl", &cfg.ConfirmTicketTTL},
	}

	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid duration for %s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("duration for %s must be positive", d.key)
		}
		*d.dest = parsed
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 25
	}

	return cfg, nil
}
