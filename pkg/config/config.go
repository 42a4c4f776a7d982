package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ec"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "EC_DB_DSN"
	EnvDBHost = "EC_DB_HOST"
	EnvDBUser = "EC_DB_USER"
	EnvDBName = "EC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Storefront   StorefrontConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EC_APP_ENV" required:"true"`
	Port         string `envconfig:"EC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EC_DB_DSN"`
	Driver string `envconfig:"EC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EC_DB_HOST"`
	LegacyPort     int    `envconfig:"EC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EC_DB_USER"`
	LegacyPassword string `envconfig:"EC_DB_PASSWORD"`
	LegacyName     string `envconfig:"EC_DB_NAME"`
	LegacySSLMode  string `envconfig:"EC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EC_REDIS_ADDR"`
	Password     string        `envconfig:"EC_REDIS_PASSWORD"`
	DB           int           `envconfig:"EC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EC_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EC_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EC_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EC_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EC_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EC_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EC_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EC_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"EC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"EC_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EC_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// StorefrontConfig configures the API client used by the storefront core.
type StorefrontConfig struct {
	BaseURL string        `envconfig:"EC_STOREFRONT_BASE_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"EC_STOREFRONT_TIMEOUT" default:"10s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
