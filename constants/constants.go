package constants

// ============================================================================
// CONFIGURATION
// ============================================================================

// Service identity
const (
	ServiceName = "roadwise"
	EnvPrefix   = "ROADWISE"
)

// Configuration Files
const (
	ConfigFileName = "roadwise.config.json"
)

// Configuration Profiles
const (
	ProfileDevelopment = "development"
	ProfileTesting     = "testing"
	ProfileProduction  = "production"
)

// Environment Variables
const (
	EnvDebug       = "ROADWISE_DEBUG"
	EnvEndpoints   = "ROADWISE_ENDPOINTS"
	EnvConfigPath  = "ROADWISE_CONFIG"
	EnvDatabaseURL = "DATABASE_URL"
	EnvRedisURL    = "REDIS_URL"
	EnvRapidAPIKey = "RAPIDAPI_KEY"
)

// Log Modes
const (
	LogModeDebug = "debug"
	LogModeInfo  = "info"
	LogModeWarn  = "warn"
	LogModeError = "error"
)

// ============================================================================
// DRIVERS
// ============================================================================

// Storage Drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Cache Drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

// Blob Drivers
const (
	BlobDriverFilesystem = "filesystem"
	BlobDriverS3         = "s3"
)

// Event Drivers
const (
	EventDriverMemory = "memory"
	EventDriverNATS   = "nats"
)

// Secrets Drivers
const (
	SecretsDriverEnv = "env"
	SecretsDriverAWS = "aws-sm"
)

// Tracing Exporters
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// ============================================================================
// EVENTS
// ============================================================================

// Event Topics
const (
	TopicPredictionCreated = "predictions.created"
)

// ============================================================================
// OPERATION GROUPS
// ============================================================================

const (
	GroupSystem      = "system"
	GroupLicense     = "license"
	GroupRoute       = "route"
	GroupWeather     = "weather"
	GroupPredictions = "predictions"
)
