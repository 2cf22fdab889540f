package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/roadwise/roadwise/constants"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `json:"app" mapstructure:"app"`
	Storage   StorageConfig   `json:"storage" mapstructure:"storage"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Blob      BlobConfig      `json:"blob" mapstructure:"blob"`
	Event     EventConfig     `json:"event" mapstructure:"event"`
	Secrets   SecretsConfig   `json:"secrets" mapstructure:"secrets"`
	HTTP      HTTPConfig      `json:"http" mapstructure:"http"`
	Log       LogConfig       `json:"log" mapstructure:"log"`
	Tracing   TracingConfig   `json:"tracing" mapstructure:"tracing"`
	Providers ProvidersConfig `json:"providers" mapstructure:"providers"`
	// Endpoints restricts the registered operation groups; empty means all.
	Endpoints []string `json:"endpoints" mapstructure:"endpoints"`
}

type AppConfig struct {
	Name     string `json:"name" mapstructure:"name"`
	Profile  string `json:"profile" mapstructure:"profile"`
	Timezone string `json:"timezone" mapstructure:"timezone"`
}

type StorageConfig struct {
	Driver string `json:"driver" mapstructure:"driver"`
	DSN    string `json:"dsn" mapstructure:"dsn"`
}

type CacheConfig struct {
	Driver     string `json:"driver" mapstructure:"driver"`
	URL        string `json:"url" mapstructure:"url"`
	TTLSeconds int    `json:"ttl_seconds" mapstructure:"ttl_seconds"`
}

type BlobConfig struct {
	Driver    string `json:"driver" mapstructure:"driver"`
	Directory string `json:"directory" mapstructure:"directory"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	Region    string `json:"region" mapstructure:"region"`
}

type EventConfig struct {
	Driver    string `json:"driver" mapstructure:"driver"`
	URL       string `json:"url" mapstructure:"url"`
	ClusterID string `json:"cluster_id" mapstructure:"cluster_id"`
	ClientID  string `json:"client_id" mapstructure:"client_id"`
}

type SecretsConfig struct {
	Driver string `json:"driver" mapstructure:"driver"`
	Region string `json:"region,omitempty" mapstructure:"region"`
	Prefix string `json:"prefix,omitempty" mapstructure:"prefix"`
}

type HTTPConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
	CORS bool   `json:"cors" mapstructure:"cors"`
}

type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

type TracingConfig struct {
	Exporter    string `json:"exporter" mapstructure:"exporter"`
	Endpoint    string `json:"endpoint" mapstructure:"endpoint"`
	ServiceName string `json:"service_name" mapstructure:"service_name"`
}

// ProvidersConfig configures the third-party lookups (OCR, routing,
// geocoding, weather). Mock replaces every provider with canned data.
// Strict turns weather lookup failures into request errors instead of
// falling back to default conditions.
type ProvidersConfig struct {
	Mock           bool           `json:"mock" mapstructure:"mock"`
	Strict         bool           `json:"strict" mapstructure:"strict"`
	TimeoutSeconds int            `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	Retries        int            `json:"retries" mapstructure:"retries"`
	OCR            ProviderConfig `json:"ocr" mapstructure:"ocr"`
	Directions     ProviderConfig `json:"directions" mapstructure:"directions"`
	Geocoder       ProviderConfig `json:"geocoder" mapstructure:"geocoder"`
	Weather        ProviderConfig `json:"weather" mapstructure:"weather"`
}

type ProviderConfig struct {
	URL  string `json:"url" mapstructure:"url"`
	Host string `json:"host,omitempty" mapstructure:"host"`
}

// Load builds the configuration for profile. Layers, lowest first: the
// profile defaults, the optional JSON/YAML file at path, ROADWISE_* env
// overrides (ROADWISE_STORAGE_DRIVER, ROADWISE_PROVIDERS_MOCK, ...), then
// DATABASE_URL and REDIS_URL. A missing file at path is not an error.
func Load(profile, path string) (*Config, error) {
	base, err := ForProfile(profile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	seed, err := toMap(base)
	if err != nil {
		return nil, fmt.Errorf("failed to seed profile %q: %w", profile, err)
	}
	if err := v.MergeConfigMap(seed); err != nil {
		return nil, fmt.Errorf("failed to seed profile %q: %w", profile, err)
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// The profile is selected by the caller, never by a file or env var.
	cfg.App.Profile = profile

	applyEnvironment(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyEnvironment honours the conventional connection-string variables set by
// hosting platforms.
func applyEnvironment(cfg *Config) {
	if databaseURL := os.Getenv(constants.EnvDatabaseURL); databaseURL != "" {
		if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
			cfg.Storage.Driver = constants.StorageDriverPostgres
		} else {
			cfg.Storage.Driver = constants.StorageDriverSQLite
		}
		cfg.Storage.DSN = databaseURL
	}
	if redisURL := os.Getenv(constants.EnvRedisURL); redisURL != "" {
		cfg.Cache.Driver = constants.CacheDriverRedis
		cfg.Cache.URL = redisURL
	}
	if endpoints := strings.TrimSpace(os.Getenv(constants.EnvEndpoints)); endpoints != "" {
		cfg.Endpoints = splitList(endpoints)
	}
}

// Validate rejects unknown drivers and incomplete driver settings.
func Validate(cfg *Config) error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: unsupported value %q (supported: %s)", field, value, strings.Join(allowed, ", ")))
	}

	check("storage.driver", cfg.Storage.Driver,
		constants.StorageDriverMemory, constants.StorageDriverSQLite, constants.StorageDriverPostgres)
	check("cache.driver", cfg.Cache.Driver,
		constants.CacheDriverNone, constants.CacheDriverMemory, constants.CacheDriverRedis)
	check("blob.driver", cfg.Blob.Driver,
		constants.BlobDriverFilesystem, constants.BlobDriverS3)
	check("event.driver", cfg.Event.Driver,
		constants.EventDriverMemory, constants.EventDriverNATS)
	check("secrets.driver", cfg.Secrets.Driver,
		constants.SecretsDriverEnv, constants.SecretsDriverAWS)
	check("tracing.exporter", cfg.Tracing.Exporter,
		constants.TracingExporterNone, constants.TracingExporterStdout, constants.TracingExporterOTLP)

	if strings.EqualFold(cfg.Storage.Driver, constants.StorageDriverPostgres) && cfg.Storage.DSN == "" {
		errs = append(errs, errors.New("storage.dsn: required for postgres"))
	}
	if strings.EqualFold(cfg.Cache.Driver, constants.CacheDriverRedis) && cfg.Cache.URL == "" {
		errs = append(errs, errors.New("cache.url: required for redis"))
	}
	if strings.EqualFold(cfg.Blob.Driver, constants.BlobDriverS3) && (cfg.Blob.Bucket == "" || cfg.Blob.Region == "") {
		errs = append(errs, errors.New("blob: s3 driver requires bucket and region"))
	}
	if strings.EqualFold(cfg.Event.Driver, constants.EventDriverNATS) && cfg.Event.URL == "" {
		errs = append(errs, errors.New("event.url: required for nats"))
	}
	if strings.EqualFold(cfg.Secrets.Driver, constants.SecretsDriverAWS) && cfg.Secrets.Region == "" {
		errs = append(errs, errors.New("secrets.region: required for aws-sm"))
	}
	return errors.Join(errs...)
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
