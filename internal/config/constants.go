package config

const (
	// DefaultDatabasePath is the default path for the sqlite records database
	DefaultDatabasePath = "./university.db"

	// DefaultSessionsDatabasePath stores browser sessions (scs sqlite3store)
	DefaultSessionsDatabasePath = "./university-sessions.db"

	// DefaultExportDir is where snapshots go when no bucket is configured
	DefaultExportDir = "./exports"

	// DefaultDotEnvFile is loaded before the environment is read, if present
	DefaultDotEnvFile = ".env"
)
