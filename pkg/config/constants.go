package config

const (
	// EnvPrefix is the envconfig prefix for all CodeCup settings.
	EnvPrefix = "CODECUP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)
