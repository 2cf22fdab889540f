package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/roadwise/roadwise/constants"
)

// Default directories and file paths for roadwise.
const (
	// DefaultConfigDir is the base directory for local roadwise artifacts.
	DefaultConfigDir = ".roadwise"
	// DefaultBlobDir is the default directory for filesystem blobs.
	DefaultBlobDir = DefaultConfigDir + "/files"
	// DefaultSQLiteDSN is the default data source name for SQLite storage.
	DefaultSQLiteDSN = DefaultConfigDir + "/roadwise.db"
	// DefaultConfigPath is where the CLI looks for a config file.
	DefaultConfigPath = constants.ConfigFileName
	// DefaultTimezone is the zone time-of-day rules are evaluated in.
	DefaultTimezone = "Asia/Kolkata"
	// DefaultCacheTTLSeconds bounds how long geocode and weather lookups are reused.
	DefaultCacheTTLSeconds = 600
)

// Upstream endpoints used by the providers.
const (
	DefaultOCRURL         = "https://ocr-extract-text.p.rapidapi.com/ocr"
	DefaultOCRHost        = "ocr-extract-text.p.rapidapi.com"
	DefaultDirectionsURL  = "https://trueway-directions2.p.rapidapi.com/FindDrivingRoute"
	DefaultDirectionsHost = "trueway-directions2.p.rapidapi.com"
	DefaultGeocoderURL    = "https://nominatim.openstreetmap.org"
	DefaultWeatherURL     = "https://wttr.in"
)

var profiles = map[string]func() *Config{
	constants.ProfileDevelopment: developmentProfile,
	constants.ProfileTesting:     testingProfile,
	constants.ProfileProduction:  productionProfile,
}

// Profiles lists the known profile names in sorted order.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForProfile returns a fresh copy of the defaults for the named profile.
func ForProfile(name string) (*Config, error) {
	build, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown configuration profile %q (known: %v)", name, Profiles())
	}
	return build(), nil
}

func baseProfile(name string) *Config {
	return &Config{
		App: AppConfig{
			Name:     constants.ServiceName,
			Profile:  name,
			Timezone: DefaultTimezone,
		},
		Cache:   CacheConfig{Driver: constants.CacheDriverMemory, TTLSeconds: DefaultCacheTTLSeconds},
		Event:   EventConfig{Driver: constants.EventDriverMemory, ClusterID: constants.ServiceName, ClientID: constants.ServiceName + "-client"},
		Secrets: SecretsConfig{Driver: constants.SecretsDriverEnv},
		HTTP:    HTTPConfig{Host: "localhost", Port: 8080, CORS: true},
		Log:     LogConfig{Level: constants.LogModeInfo},
		Tracing: TracingConfig{Exporter: constants.TracingExporterNone, ServiceName: constants.ServiceName},
		Providers: ProvidersConfig{
			TimeoutSeconds: 15,
			Retries:        3,
			OCR:            ProviderConfig{URL: DefaultOCRURL, Host: DefaultOCRHost},
			Directions:     ProviderConfig{URL: DefaultDirectionsURL, Host: DefaultDirectionsHost},
			Geocoder:       ProviderConfig{URL: DefaultGeocoderURL},
			Weather:        ProviderConfig{URL: DefaultWeatherURL},
		},
	}
}

func developmentProfile() *Config {
	cfg := baseProfile(constants.ProfileDevelopment)
	cfg.Storage = StorageConfig{Driver: constants.StorageDriverSQLite, DSN: DefaultSQLiteDSN}
	cfg.Blob = BlobConfig{Driver: constants.BlobDriverFilesystem, Directory: DefaultBlobDir}
	cfg.Log.Level = constants.LogModeDebug
	return cfg
}

func testingProfile() *Config {
	cfg := baseProfile(constants.ProfileTesting)
	cfg.Storage = StorageConfig{Driver: constants.StorageDriverMemory}
	cfg.Blob = BlobConfig{Driver: constants.BlobDriverFilesystem, Directory: filepath.Join(os.TempDir(), "roadwise-test-files")}
	cfg.Log.Level = constants.LogModeWarn
	cfg.Providers.Mock = true
	cfg.Providers.Retries = 1
	return cfg
}

// productionProfile targets serverless hosts: only /tmp is writable, and the
// database comes from DATABASE_URL when set.
func productionProfile() *Config {
	cfg := baseProfile(constants.ProfileProduction)
	cfg.Storage = StorageConfig{Driver: constants.StorageDriverSQLite, DSN: ":memory:"}
	cfg.Blob = BlobConfig{Driver: constants.BlobDriverFilesystem, Directory: filepath.Join(os.TempDir(), "roadwise", "files")}
	cfg.HTTP.Host = "0.0.0.0"
	return cfg
}
