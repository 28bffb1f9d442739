package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"library-inventory/library"

	"github.com/spf13/cobra"
)

func main() {
	if err := newImportCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newImportCmd() *cobra.Command {
	var (
		store    string
		dataPath string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:           "import_books FILE.csv",
		Short:         "Add books from a CSV file of id,title,author rows to the catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			kind, err := library.ParseStoreKind(store)
			if err != nil {
				return err
			}
			st, err := library.OpenStore(kind, dataPath)
			if err != nil {
				return err
			}
			lib := library.NewLibrary(st, library.WithLogger(logger))
			defer lib.Close()

			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importing books from %s...\n", args[0])
			report, err := importBooks(lib, f, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nImport complete!\n")
			fmt.Fprintf(out, "Successfully imported: %d books\n", report.Imported)
			fmt.Fprintf(out, "Errors: %d\n", report.Errors)
			if report.SaveWarnings > 0 {
				fmt.Fprintf(out, "Warning: the catalog could not be saved %d time(s); imported books are kept until the next successful save\n", report.SaveWarnings)
			}

			if report.Imported > 0 {
				printCatalog(out, lib.DisplayBooks())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", string(library.StoreSQLite), "catalog store: sqlite or json")
	cmd.Flags().StringVar(&dataPath, "data", "", "catalog file (default library.db or books.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// importReport counts the outcome of an import. A row whose save failed is
// still imported: the Library keeps it and writes it with the next save.
type importReport struct {
	Imported     int
	Errors       int
	SaveWarnings int
}

// importBooks adds every id,title,author row of r to lib. A first row whose
// id column is not a number is treated as a header.
func importBooks(lib *library.Library, r io.Reader, out io.Writer) (importReport, error) {
	var report importReport
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			fmt.Fprintf(out, "Line %d: ERROR - %v\n", line, parseErr.Err)
			report.Errors++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("read import file: %w", err)
		}

		id, convErr := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if convErr != nil {
			if line == 1 {
				continue
			}
			fmt.Fprintf(out, "Line %d: ERROR - invalid book ID %q\n", line, record[0])
			report.Errors++
			continue
		}

		title, author := strings.TrimSpace(record[1]), strings.TrimSpace(record[2])
		fmt.Fprintf(out, "Importing: %s by %s... ", title, author)
		report.Imported++
		if err := lib.AddBook(id, title, author); err != nil {
			fmt.Fprintf(out, "SUCCESS (ID: %d), WARNING - catalog not saved: %v\n", id, err)
			report.SaveWarnings++
			continue
		}
		fmt.Fprintf(out, "SUCCESS (ID: %d)\n", id)
	}
}

func printCatalog(out io.Writer, books []library.Book) {
	fmt.Fprintln(out, "\nCatalog:")
	fmt.Fprintf(out, "%-5s %-50s %-30s %s\n", "ID", "Title", "Author", "Available")
	fmt.Fprintln(out, strings.Repeat("-", 96))
	for _, b := range books {
		fmt.Fprintf(out, "%-5d %-50s %-30s %t\n", b.ID, truncateString(b.Title, 50), truncateString(b.Author, 30), b.Available)
	}
}

// truncateString shortens s to at most maxLen runes.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
