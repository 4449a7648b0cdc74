package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

const (
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
	SinkNone     = "none"
)

type Config struct {
	// Server
	HTTPAddr    string
	Env         string
	CORSOrigins []string
	// TrustedProxies are the peers allowed to assert the signed-in user via
	// the gateway header. The gateway must drop client supplied copies.
	TrustedProxies []netip.Prefix

	// Logging
	LogLevel  string
	LogFormat string

	// Database, empty means memory mode
	DatabaseURL string
	SessionTTL  time.Duration

	// Analytics
	AnalyticsSink       string
	KafkaBrokers        string
	KafkaAnalyticsTopic string
	NotifyTimeout       time.Duration

	// Pixels
	MetaPixelID       string
	MetaAccessToken   string
	MetaAPIBase       string
	TikTokPixelCode   string
	TikTokAccessToken string
	TikTokAPIBase     string

	// Store
	SalesEnabled  bool
	StoreCurrency currency.Unit
	SiteName      string
	SiteURL       string
	SiteLogoURL   string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cur, err := currency.ParseISO(getEnv("STORE_CURRENCY", "PKR"))
	if err != nil {
		return nil, fmt.Errorf("STORE_CURRENCY: %w", err)
	}

	cfg := &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		Env:                 getEnv("ENV", "development"),
		CORSOrigins:         getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		AnalyticsSink:       strings.ToLower(getEnv("ANALYTICS_SINK", SinkPostgres)),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaAnalyticsTopic: getEnv("KAFKA_ANALYTICS_TOPIC", "storefront-analytics-events"),
		NotifyTimeout:       getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		MetaPixelID:         getEnv("META_PIXEL_ID", ""),
		MetaAccessToken:     getEnv("META_ACCESS_TOKEN", ""),
		MetaAPIBase:         getEnv("META_API_BASE", ""),
		TikTokPixelCode:     getEnv("TIKTOK_PIXEL_CODE", ""),
		TikTokAccessToken:   getEnv("TIKTOK_ACCESS_TOKEN", ""),
		TikTokAPIBase:       getEnv("TIKTOK_API_BASE", ""),
		SalesEnabled:        getEnvAsBool("SALES_ENABLED", true),
		StoreCurrency:       cur,
		SiteName:            getEnv("SITE_NAME", "Storefront"),
		SiteURL:             strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		SiteLogoURL:         getEnv("SITE_LOGO_URL", ""),
	}

	cfg.TrustedProxies, err = parsePrefixes(getEnvAsList("TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	switch cfg.AnalyticsSink {
	case SinkPostgres, SinkKafka, SinkNone:
	default:
		return nil, fmt.Errorf("ANALYTICS_SINK[%s] is not supported", cfg.AnalyticsSink)
	}

	return cfg, nil
}

// MemoryMode reports whether the service runs without Postgres.
func (c *Config) MemoryMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePrefixes accepts CIDRs and bare addresses.
func parsePrefixes(values []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		if prefix, err := netip.ParsePrefix(v); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("address[%s] is not valid", v)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
