package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// PublicBaseURL prefixes the photo URLs handed back to clients.
	PublicBaseURL  string `env:"PUBLIC_BASE_URL,  default=http://localhost:8080"`
	UploadDir      string `env:"UPLOAD_DIR,       default=uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=5242880"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Geocode  GeocodeConfig
	Evidence EvidenceConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civicfix"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GeocodeConfig controls the Nominatim client. MinInterval must respect the
// public instance's one request per second usage policy.
type GeocodeConfig struct {
	BaseURL     string        `env:"GEOCODE_BASE_URL,     default=https://nominatim.openstreetmap.org"`
	UserAgent   string        `env:"GEOCODE_USER_AGENT,   default=CivicFixApp/1.0"`
	Zoom        int           `env:"GEOCODE_ZOOM,         default=18"`
	MinInterval time.Duration `env:"GEOCODE_MIN_INTERVAL, default=1s"`
	Timeout     time.Duration `env:"GEOCODE_TIMEOUT,      default=5s"`
	CacheTTL    time.Duration `env:"GEOCODE_CACHE_TTL,    default=24h"`
}

// EvidenceConfig controls photo verification.
type EvidenceConfig struct {
	MaxDistanceMeters float64       `env:"EVIDENCE_MAX_DISTANCE_METERS, default=1000"`
	MaxPhotoAge       time.Duration `env:"EVIDENCE_MAX_PHOTO_AGE,       default=48h"`
	ExtractTimeout    time.Duration `env:"EVIDENCE_EXTRACT_TIMEOUT,     default=5s"`
	ExtractWorkers    int           `env:"EVIDENCE_EXTRACT_WORKERS,     default=2"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
