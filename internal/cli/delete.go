package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mrlokans/university/internal/audit"
	"github.com/mrlokans/university/internal/database"
	auditrepo "github.com/mrlokans/university/internal/database/audit"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

// DeleteCommand removes one record after asking for confirmation on the
// terminal. The attempt is written to the audit log either way.
type DeleteCommand struct {
	DB   dbFlags
	Kind entities.Kind
	ID   uint
	Yes  bool

	In  io.Reader
	Out io.Writer
	// Interactive reports whether In is a terminal that can answer the
	// prompt. Defaults to checking stdin.
	Interactive func() bool
}

func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{}
}

func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	cmd.DB.register(fs)

	var kind string
	var id uint
	fs.StringVar(&kind, "kind", "", "Record kind: students, subjects, books or classrooms (required)")
	fs.UintVar(&id, "id", 0, "Record ID (required)")
	fs.BoolVar(&cmd.Yes, "yes", false, "Delete without asking for confirmation")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete -kind <kind> -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete a record. You are asked to confirm unless -yes is given;\n")
		fmt.Fprintf(os.Stderr, "without a terminal and without -yes the delete is declined.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
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
	if id == 0 {
		return fmt.Errorf("required flag -id not provided")
	}
	cmd.Kind = parsed
	cmd.ID = id
	return nil
}

func (cmd *DeleteCommand) Run() error {
	out := stdout(cmd.Out)

	db, err := cmd.DB.open()
	if err != nil {
		return err
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()

	dispatcher := search.NewDispatcher(database.NewStore(db.DB), cmd.confirmer(out), auditService)
	dispatcher.Select(cmd.Kind)

	outcome, err := dispatcher.Delete(cmd.ID)
	if err != nil {
		return err
	}

	switch outcome {
	case search.OutcomeIgnored:
		return fmt.Errorf("%s %d not found", cmd.Kind.Singular(), cmd.ID)
	case search.OutcomeDeclined:
		fmt.Fprintln(out, "Delete cancelled")
	case search.OutcomeDeleted:
		fmt.Fprintf(out, "Deleted %s %d\n", cmd.Kind.Singular(), cmd.ID)
	}
	return nil
}

func (cmd *DeleteCommand) confirmer(out io.Writer) search.ConfirmFunc {
	if cmd.Yes {
		return func(string) bool { return true }
	}

	interactive := cmd.Interactive
	if interactive == nil {
		interactive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}
	in := cmd.In
	if in == nil {
		in = os.Stdin
	}

	return func(label string) bool {
		if !interactive() {
			fmt.Fprintf(out, "Not a terminal; refusing to delete %s without -yes\n", label)
			return false
		}
		fmt.Fprintf(out, "Are you sure you want to delete %s? [y/N] ", label)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
