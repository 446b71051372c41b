// Package config loads the planner configuration from YAML with environment
// variable overlays.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	// Routing configuration for the route provider and local fallback
	Routing *RoutingConfig `json:"routing" yaml:"routing"`

	// Lookup configuration for the nearby-services provider
	Lookup *LookupConfig `json:"lookup" yaml:"lookup"`

	// Access configuration for the placeholder access gate
	Access *AccessConfig `json:"access" yaml:"access"`

	// QRCode configuration for report share links
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the connection for the persisted subset.
type PostgresConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	User         string `json:"user" yaml:"user"`
	Password     string `json:"password" yaml:"password"`
	DBName       string `json:"dbName" yaml:"dbName"`
	SSLMode      string `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns int    `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns int    `json:"maxIdleConns" yaml:"maxIdleConns"`
}

// RoutingConfig defines route provider and fallback-synthesis settings.
type RoutingConfig struct {
	// Base URL of the OSRM-compatible routing service
	ProviderBaseURL string `json:"providerBaseUrl" yaml:"providerBaseUrl"`

	// Per-request timeout for the provider
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`

	// Assumed speed in km/h for duration estimation of fallback routes
	FallbackSpeedKmh float64 `json:"fallbackSpeedKmh" yaml:"fallbackSpeedKmh"`

	// Number of interpolated interior points in a fallback polyline
	FallbackInteriorPoints int `json:"fallbackInteriorPoints" yaml:"fallbackInteriorPoints"`
}

// LookupConfig defines the nearby-services provider settings.
type LookupConfig struct {
	// Base URL of the Overpass-compatible lookup service
	OverpassBaseURL string `json:"overpassBaseUrl" yaml:"overpassBaseUrl"`

	// Search radius used when a request does not specify one
	DefaultRadiusKm float64 `json:"defaultRadiusKm" yaml:"defaultRadiusKm"`

	// Per-request timeout for the lookup service
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
}

// AccessConfig defines the placeholder access-control boundary.
type AccessConfig struct {
	// Bcrypt hash of the shared access code
	CodeHash string `json:"codeHash" yaml:"codeHash"`

	// Secret for signing session tokens
	TokenSecret string `json:"tokenSecret" yaml:"tokenSecret"`

	// Session token lifetime
	TokenTTL time.Duration `json:"tokenTtl" yaml:"tokenTtl"`
}

// QRCodeConfig defines QR code generation for report share links.
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Routing == nil {
		cfg.Routing = &RoutingConfig{}
	}
	if cfg.Routing.FallbackSpeedKmh <= 0 {
		cfg.Routing.FallbackSpeedKmh = 50.0
	}
	if cfg.Routing.FallbackInteriorPoints <= 0 {
		cfg.Routing.FallbackInteriorPoints = 3
	}
	if cfg.Routing.RequestTimeout <= 0 {
		cfg.Routing.RequestTimeout = 10 * time.Second
	}

	if cfg.Lookup == nil {
		cfg.Lookup = &LookupConfig{}
	}
	if cfg.Lookup.DefaultRadiusKm <= 0 {
		cfg.Lookup.DefaultRadiusKm = 40.0
	}
	if cfg.Lookup.RequestTimeout <= 0 {
		cfg.Lookup.RequestTimeout = 25 * time.Second
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
