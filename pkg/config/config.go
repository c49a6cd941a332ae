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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Uploads      UploadsConfig
	FormSessions FormSessionsConfig
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
	Env          string `envconfig:"MADEBUY_APP_ENV" required:"true"`
	Port         string `envconfig:"MADEBUY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MADEBUY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MADEBUY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MADEBUY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MADEBUY_DB_DSN"`
	Driver string `envconfig:"MADEBUY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MADEBUY_DB_HOST"`
	LegacyPort     int    `envconfig:"MADEBUY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MADEBUY_DB_USER"`
	LegacyPassword string `envconfig:"MADEBUY_DB_PASSWORD"`
	LegacyName     string `envconfig:"MADEBUY_DB_NAME"`
	LegacySSLMode  string `envconfig:"MADEBUY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MADEBUY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MADEBUY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MADEBUY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MADEBUY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MADEBUY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MADEBUY_REDIS_ADDR"`
	Password     string        `envconfig:"MADEBUY_REDIS_PASSWORD"`
	DB           int           `envconfig:"MADEBUY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MADEBUY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MADEBUY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MADEBUY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MADEBUY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MADEBUY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MADEBUY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MADEBUY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MADEBUY_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MADEBUY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MADEBUY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"MADEBUY_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL     string        `envconfig:"MADEBUY_GCS_PUBLIC_BASE_URL"`
	DownloadURLExpiry time.Duration `envconfig:"MADEBUY_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type UploadsConfig struct {
	MaxUploadMB     int           `envconfig:"MADEBUY_UPLOAD_MAX_MB" default:"25"`
	RateLimit       int           `envconfig:"MADEBUY_UPLOAD_RATE_LIMIT" default:"30"`
	RateLimitWindow time.Duration `envconfig:"MADEBUY_UPLOAD_RATE_WINDOW" default:"1m"`
}

type FormSessionsConfig struct {
	TTL           time.Duration `envconfig:"MADEBUY_FORM_SESSION_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"MADEBUY_FORM_SESSION_SWEEP_INTERVAL" default:"10m"`
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
