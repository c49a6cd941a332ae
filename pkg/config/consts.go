package config

// EnvPrefix namespaces every configuration variable.
const EnvPrefix = "MADEBUY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "MADEBUY_APP_ENV"
	EnvPort   = "MADEBUY_APP_PORT"

	EnvDBDSN  = "MADEBUY_DB_DSN"
	EnvDBHost = "MADEBUY_DB_HOST"
	EnvDBUser = "MADEBUY_DB_USER"
	EnvDBName = "MADEBUY_DB_NAME"

	EnvRedisURL = "MADEBUY_REDIS_URL"

	EnvGCPProjectID = "MADEBUY_GCP_PROJECT_ID"
	EnvGCSBucket    = "MADEBUY_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
