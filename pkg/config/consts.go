package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ROCKLIME"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ROCKLIME_APP_ENV"
	EnvPort     = "ROCKLIME_APP_PORT"
	EnvRedisURL = "ROCKLIME_REDIS_URL"

	EnvDBDSN  = "ROCKLIME_DB_DSN"
	EnvDBHost = "ROCKLIME_DB_HOST"
	EnvDBUser = "ROCKLIME_DB_USER"
	EnvDBName = "ROCKLIME_DB_NAME"

	EnvQuotationDefaultCreatedBy = "ROCKLIME_QUOTATION_DEFAULT_CREATED_BY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
