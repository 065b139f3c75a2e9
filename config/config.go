package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"debate-tab-system/draw"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from the environment with an
// optional YAML tuning file for the draw engine and the public endpoint.
type Config struct {
	Port           string
	DatabaseURL    string
	ServiceToken   string
	AllowedOrigins []string
	R2             R2Config
	Draw           draw.Config
	Public         PublicConfig
}

// R2Config holds the Cloudflare R2 credentials used to publish released draws.
// Publishing is disabled when Bucket is empty.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether a bucket was configured.
func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

// PublicConfig tunes the unauthenticated draw endpoint.
type PublicConfig struct {
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// Tuning is the layout of the file named by DRAW_CONFIG_PATH.
type Tuning struct {
	Draw   draw.Config  `yaml:"draw"`
	Public PublicConfig `yaml:"public"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Port:         getenv("PORT", "5200"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ServiceToken: os.Getenv("TAB_SERVICE_TOKEN"),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
		Draw: draw.DefaultConfig(),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.ServiceToken == "" {
		return nil, fmt.Errorf("TAB_SERVICE_TOKEN environment variable not set")
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		origins = "http://localhost:3000"
	}
	cfg.AllowedOrigins = splitList(origins)

	if cfg.R2.CDNBaseURL == "" && cfg.R2.AccountID != "" {
		cfg.R2.CDNBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID)
	}

	if path := os.Getenv("DRAW_CONFIG_PATH"); path != "" {
		t, err := LoadTuning(path)
		if err != nil {
			return nil, err
		}
		cfg.Draw = t.Draw
		cfg.Public = t.Public
	}
	cfg.Public = cfg.Public.withDefaults()

	if err := cfg.Draw.Validate(); err != nil {
		return nil, fmt.Errorf("draw config: %w", err)
	}
	return cfg, nil
}

// LoadTuning reads a YAML tuning file. Missing draw fields fall back to
// draw.DefaultConfig.
func LoadTuning(path string) (*Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tuning file: %w", err)
	}
	defer f.Close()

	t := Tuning{Draw: draw.DefaultConfig()}
	if err := yaml.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode tuning file %s: %w", path, err)
	}
	t.Public = t.Public.withDefaults()
	return &t, nil
}

func (p PublicConfig) withDefaults() PublicConfig {
	if p.RateLimitPerSec <= 0 {
		p.RateLimitPerSec = 5
	}
	if p.RateLimitBurst <= 0 {
		p.RateLimitBurst = 10
	}
	if p.CacheTTLSeconds <= 0 {
		p.CacheTTLSeconds = 30
	}
	return p
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
