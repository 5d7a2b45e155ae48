package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// SeedCommand inserts the sample students, subjects, books and classroom
// into an empty records database.
type SeedCommand struct {
	DB  dbFlags
	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	cmd.DB.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert sample records into the database. Nothing is written when\n")
		fmt.Fprintf(os.Stderr, "students already exist.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	out := stdout(cmd.Out)

	db, err := cmd.DB.open()
	if err != nil {
		return err
	}
	defer db.Close()

	seeded, err := db.Seed()
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if !seeded {
		fmt.Fprintln(out, "Database already contains students, nothing to seed")
		return nil
	}
	fmt.Fprintln(out, "Seeded sample records")
	return nil
}
