package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Arrivals     ArrivalsConfig
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
	Env          string `envconfig:"KIRANAKART_APP_ENV" required:"true"`
	Port         string `envconfig:"KIRANAKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIRANAKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIRANAKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIRANAKART_DB_DSN"`
	Driver string `envconfig:"KIRANAKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KIRANAKART_DB_HOST"`
	LegacyPort     int    `envconfig:"KIRANAKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KIRANAKART_DB_USER"`
	LegacyPassword string `envconfig:"KIRANAKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"KIRANAKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"KIRANAKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIRANAKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIRANAKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIRANAKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIRANAKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIRANAKART_REDIS_URL" required:"true"`
	Password     string        `envconfig:"KIRANAKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIRANAKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIRANAKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIRANAKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIRANAKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIRANAKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIRANAKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIRANAKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIRANAKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KIRANAKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KIRANAKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KIRANAKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KIRANAKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KIRANAKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KIRANAKART_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KIRANAKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KIRANAKART_AUTO_MIGRATE" default:"false"`
}

type ArrivalsConfig struct {
	PollInterval time.Duration `envconfig:"KIRANAKART_ARRIVALS_POLL_INTERVAL" default:"30s"`
	APIBaseURL   string        `envconfig:"KIRANAKART_ARRIVALS_API_BASE_URL"`
	APIToken     string        `envconfig:"KIRANAKART_ARRIVALS_API_TOKEN"`
	MetricsAddr  string        `envconfig:"KIRANAKART_ARRIVALS_METRICS_ADDR"`
	SoundEnabled bool          `envconfig:"KIRANAKART_ARRIVALS_SOUND" default:"true"`
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
