package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads the .env file at configPath for local runs and builds the config
// from the environment.
func InitConfig(configPath string) *models.Config {
	local := os.Getenv("APP_ENV")
	if local == "" || local == "local" {
		// Load config from file
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return loadConfig(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "bahikhata")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_VERSION", "development")

	v.SetDefault("SERVER_PORT", 4444)
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)
	v.SetDefault("DB_SQLITE_PATH", "bahikhata.db")
	v.SetDefault("DYNAMODB_REGION", "us-east-1")
	v.SetDefault("DYNAMODB_TABLE", "ledger")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("JWT_ISSUER", "bahikhata")
	v.SetDefault("JWT_EXPIRATION", 15)
	v.SetDefault("JWT_REFRESH_EXPIRATION", 24*365)
	v.SetDefault("JWT_REFRESH_GRACE", 10)

	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_SAME_SITE", "none")
	v.SetDefault("COOKIE_MAX_AGE", 365*24*60*60)

	v.SetDefault("FRONTEND_URLS", "http://localhost:3000")

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_LIMIT", 20)
	v.SetDefault("RATE_LIMIT_PERIOD", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_PATH", "logs/bahikhata.log")
	v.SetDefault("LOG_ACCESS_PATH", "logs/access.log")
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config. PORT wins for platforms that inject it.
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	if port := v.GetInt("PORT"); port > 0 {
		configs.Server.Port = port
	}
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")
	configs.Server.TrustedProxies = splitList(v.GetString("TRUSTED_PROXIES"))

	// Database config
	configs.Database.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")
	configs.Database.SQLitePath = v.GetString("DB_SQLITE_PATH")
	configs.Database.DynamoRegion = v.GetString("DYNAMODB_REGION")
	configs.Database.DynamoTable = v.GetString("DYNAMODB_TABLE")
	configs.Database.DynamoEndpoint = v.GetString("DYNAMODB_ENDPOINT")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// JWT config
	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.RefreshExpiry = v.GetInt("JWT_REFRESH_EXPIRATION")
	configs.JWT.RefreshGrace = v.GetInt("JWT_REFRESH_GRACE")

	// Cookie config
	configs.Cookie.Secure = v.GetBool("COOKIE_SECURE")
	configs.Cookie.SameSite = strings.ToLower(v.GetString("COOKIE_SAME_SITE"))
	configs.Cookie.Domain = v.GetString("COOKIE_DOMAIN")
	configs.Cookie.MaxAge = v.GetInt("COOKIE_MAX_AGE")

	// CORS config
	configs.CORS.AllowedOrigins = splitList(v.GetString("FRONTEND_URLS"))

	// Rate limit config
	configs.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	configs.RateLimit.Limit = v.GetInt("RATE_LIMIT_LIMIT")
	configs.RateLimit.Period = v.GetInt("RATE_LIMIT_PERIOD")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.AccessPath = v.GetString("LOG_ACCESS_PATH")

	return configs
}

// splitList turns a comma separated env value into a trimmed list without empties
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
