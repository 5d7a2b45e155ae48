package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/university/internal/database"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

// SearchCommand runs one of the four association queries and prints the
// matching rows.
type SearchCommand struct {
	DB        dbFlags
	Kind      entities.Kind
	Condition string
	Format    string
	Out       io.Writer
}

func NewSearchCommand() *SearchCommand {
	return &SearchCommand{}
}

func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cmd.DB.register(fs)

	var kind string
	fs.StringVar(&kind, "kind", "", "Record kind: students, subjects, books or classrooms (required)")
	fs.StringVar(&cmd.Condition, "condition", "", "Search condition")
	fs.StringVar(&cmd.Format, "format", formatTable, "Output format: table, json or markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search -kind <kind> -condition <value> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search records by association. The condition means:\n")
		for _, k := range entities.Kinds {
			fmt.Fprintf(os.Stderr, "  %-11s %s\n", k, search.Label(k))
		}
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Students attending Matematyka:\n")
		fmt.Fprintf(os.Stderr, "  %s search -kind students -condition Matematyka\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Books by authors containing \"Orwell\" as JSON:\n")
		fmt.Fprintf(os.Stderr, "  %s search -kind books -condition Orwell -format json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if kind == "" {
		return fmt.Errorf("required flag -kind not provided")
	}
	parsed, ok := entities.ParseKind(kind)
	if !ok {
		return fmt.Errorf("unknown kind %q", kind)
	}
	cmd.Kind = parsed

	format, err := parseOutputFormat(cmd.Format)
	if err != nil {
		return err
	}
	cmd.Format = format
	return nil
}

func (cmd *SearchCommand) Run() error {
	db, err := cmd.DB.open()
	if err != nil {
		return err
	}
	defer db.Close()

	dispatcher := search.NewDispatcher(database.NewStore(db.DB), nil)
	dispatcher.Select(cmd.Kind)
	if err := dispatcher.Search(cmd.Condition); err != nil {
		return err
	}

	return renderResults(stdout(cmd.Out), cmd.Kind, dispatcher.Results(), cmd.Format)
}
