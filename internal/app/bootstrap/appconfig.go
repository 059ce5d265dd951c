// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to fitted. Values
// come from config files, FITTED_* environment variables, or flags,
// loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // signing key, must be strong in production
	SessionName   string // cookie name
	SessionDomain string // cookie domain, blank means current host

	// File storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string // local storage path for uploaded images
	StorageLocalURL  string // URL prefix for serving local files

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region string
	StorageS3Bucket string
	StorageS3Prefix string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL is the externally visible origin, used for the OAuth
	// callback URL.
	BaseURL string
}
