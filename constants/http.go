package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// HTTP Headers
const (
	HeaderContentType  = "Content-Type"
	HeaderAccept       = "Accept"
	HeaderUserAgent    = "User-Agent"
	HeaderRequestID    = "X-Request-ID"
	HeaderRapidAPIKey  = "X-RapidAPI-Key"
	HeaderRapidAPIHost = "X-RapidAPI-Host"
)

// CORS
const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	CORSAllowHeaders = "Content-Type, Authorization"
)

// Default Values
const (
	DefaultUserAgent  = "roadwise/1.0 (+https://github.com/roadwise/roadwise)"
	DefaultJSONAccept = "application/json, text/*;q=0.9, */*;q=0.8"
)

// Upload limits
const (
	MaxLicenseUploadBytes = 10 << 20
	LicenseFormField      = "license"
)
