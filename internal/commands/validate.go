package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/midata/internal/accounts"
	"github.com/cleared-dev/midata/internal/midata"
)

// errInvalid is returned after the issue report has been printed.
var errInvalid = errors.New("statement is not valid")

func newValidateCommand() *cobra.Command {
	var showClean bool

	cmd := &cobra.Command{
		Use:   "validate <statement.csv>",
		Short: "Check a raw statement without archiving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], showClean)
		},
	}

	cmd.Flags().BoolVar(&showClean, "clean", false, "print the cleaned rows as CSV")

	return cmd
}

func runValidate(path string, showClean bool) error {
	tbl, err := accounts.ReadStatement(path)
	if err != nil {
		return err
	}

	raw, err := midata.NewRaw(tbl)
	if err != nil {
		return report(path, err)
	}

	clean, err := raw.Clean()
	if err != nil {
		return report(path, err)
	}

	fmt.Printf("%s: valid, %d rows, %d complete\n", path, raw.Len(), clean.Len())
	if showClean {
		if err := midata.WriteArchive(os.Stdout, clean); err != nil {
			return fmt.Errorf("writing clean rows: %w", err)
		}
	}
	return nil
}

func report(path string, err error) error {
	var schemaErr *midata.SchemaError
	if !errors.As(err, &schemaErr) {
		return err
	}
	fmt.Printf("%s: %v\n", path, schemaErr)
	fmt.Print(schemaErr.Report())
	return errInvalid
}
