package profile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/falaconta/falaconta/internal/version"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Addr is the binding address for the HTTP server.
	Addr string
	// Port is the binding port for the HTTP server.
	Port int
	// Version is the current version of the server.
	Version string
	// MinVersion is an optional deployment floor: the server refuses to
	// start when its own version is below it. Empty disables the gate.
	MinVersion string

	// CatalogOverlay is an optional path to a YAML file that augments the
	// built-in intent catalog with extra keywords and example phrases.
	CatalogOverlay string

	// MetricsEnabled controls whether the Prometheus /metrics endpoint is exposed.
	MetricsEnabled bool

	// NLUHighThreshold overrides the high-confidence threshold (0 keeps the default).
	NLUHighThreshold float64
	// NLUMediumThreshold overrides the medium-confidence threshold (0 keeps the default).
	NLUMediumThreshold float64
	// NLUCacheTTLSeconds overrides the result cache TTL (0 keeps the default).
	NLUCacheTTLSeconds int
	// NLUCacheCapacity overrides the result cache capacity (0 keeps the default).
	NLUCacheCapacity int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// FromEnv loads environment-driven settings into the profile.
// Flag-bound fields (mode, addr, port) are left untouched.
func (p *Profile) FromEnv() {
	p.CatalogOverlay = getEnvOrDefault("FALACONTA_CATALOG_OVERLAY", p.CatalogOverlay)
	p.MinVersion = getEnvOrDefault("FALACONTA_MIN_VERSION", p.MinVersion)
	p.MetricsEnabled = getEnvOrDefaultBool("FALACONTA_METRICS_ENABLED", true)
	p.NLUHighThreshold = getEnvOrDefaultFloat("FALACONTA_NLU_HIGH_THRESHOLD", 0)
	p.NLUMediumThreshold = getEnvOrDefaultFloat("FALACONTA_NLU_MEDIUM_THRESHOLD", 0)
	p.NLUCacheTTLSeconds = getEnvOrDefaultInt("FALACONTA_NLU_CACHE_TTL", 0)
	p.NLUCacheCapacity = getEnvOrDefaultInt("FALACONTA_NLU_CACHE_CAPACITY", 0)
}

// Validate checks the profile for invalid combinations before startup.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.NLUHighThreshold < 0 || p.NLUHighThreshold > 1 {
		return errors.Errorf("invalid high threshold %f, must be in [0,1]", p.NLUHighThreshold)
	}
	if p.NLUMediumThreshold < 0 || p.NLUMediumThreshold > 1 {
		return errors.Errorf("invalid medium threshold %f, must be in [0,1]", p.NLUMediumThreshold)
	}
	if p.NLUHighThreshold > 0 && p.NLUMediumThreshold > 0 && p.NLUMediumThreshold >= p.NLUHighThreshold {
		return errors.New("medium threshold must be below high threshold")
	}
	if p.NLUCacheTTLSeconds < 0 {
		return errors.Errorf("invalid cache TTL %d", p.NLUCacheTTLSeconds)
	}
	if p.CatalogOverlay != "" {
		if _, err := os.Stat(p.CatalogOverlay); err != nil {
			return errors.Wrapf(err, "catalog overlay %q not readable", p.CatalogOverlay)
		}
	}
	if p.MinVersion != "" {
		current := p.Version
		if current == "" {
			current = version.GetCurrentVersion(p.Mode)
		}
		if !version.IsVersionGreaterOrEqualThan(current, p.MinVersion) {
			return errors.Errorf("version %s is below the required minimum %s", current, p.MinVersion)
		}
	}
	return nil
}

// ListenAddr returns the host:port string the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultFloat returns environment variable value as float64 or default value.
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvOrDefaultBool returns environment variable value as bool or default value.
func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
