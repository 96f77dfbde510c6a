package models

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int // in seconds
	WriteTimeout    int // in seconds
	ShutdownTimeout int // in seconds
	// TrustedProxies are CIDRs or addresses allowed to set X-Forwarded-For.
	// Empty means the socket peer is the client.
	TrustedProxies []string
}

// DatabaseConfig contains database connection configuration.
// Driver selects the persistence backend: postgres, sqlite or dynamodb.
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int

	// SQLitePath is the database file used when Driver is sqlite
	SQLitePath string

	// DynamoDB settings used when Driver is dynamodb
	DynamoRegion   string
	DynamoTable    string
	DynamoEndpoint string
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	Expiration    int // access token lifetime in minutes
	RefreshExpiry int // refresh token lifetime in hours
	RefreshGrace  int // seconds a just-rotated refresh token is still accepted
}

// CookieConfig controls the auth cookies set on login
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
	MaxAge   int // in seconds
}

// CORSConfig lists the frontends allowed to call the API with credentials
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig configures the Redis backed limiter on auth endpoints
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Period  int // in seconds
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	AccessPath string
}
