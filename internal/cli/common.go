package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/university/internal/config"
	"github.com/mrlokans/university/internal/database"
)

// dbFlags selects the records store for a command. Defaults come from the
// environment so the CLI and the server read the same database.
type dbFlags struct {
	Driver string
	Path   string
	DSN    string
}

func (f *dbFlags) register(fs *flag.FlagSet) {
	cfg := config.NewConfig()
	fs.StringVar(&f.Driver, "driver", cfg.Database.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&f.Path, "db", cfg.Database.Path, "Path to the sqlite database file")
	fs.StringVar(&f.DSN, "dsn", cfg.Database.DSN, "Postgres connection string (with -driver postgres)")
}

func (f *dbFlags) open() (*database.Database, error) {
	db, err := database.Open(database.Options{
		Driver:   f.Driver,
		Path:     f.Path,
		DSN:      f.DSN,
		LogLevel: logger.Silent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
