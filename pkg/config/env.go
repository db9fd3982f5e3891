package config

// EnvPrefix namespaces all environment variables consumed by the service.
const EnvPrefix = "BUYNOW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BUYNOW_DB_DSN"
	EnvDBHost = "BUYNOW_DB_HOST"
	EnvDBUser = "BUYNOW_DB_USER"
	EnvDBName = "BUYNOW_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
