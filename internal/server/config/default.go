package config

// Default configuration values.
const (
	DefaultRedisAddr = "127.0.0.1:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns Default as a flat koanf key map, for seeding a loader
// before file and environment sources are applied.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server.redis.addr":      d.Server.Redis.Addr,
		"server.redis.ratelimit": d.Server.Redis.RateLimit,
		"server.redis.rateburst": d.Server.Redis.RateBurst,
		"metrics.addr":           d.Metrics.Addr,
		"log.level":              d.Log.Level,
		"log.format":             d.Log.Format,
	}
}
