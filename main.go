package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"library-inventory/library"
	"library-inventory/menu"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// config holds the settings shared by the console and the importer.
type config struct {
	store    string
	dataPath string
	logLevel string
}

func (c *config) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.store, "store", string(library.StoreSQLite), "catalog store: sqlite or json")
	cmd.Flags().StringVar(&c.dataPath, "data", "", "catalog file (default library.db or books.json)")
	cmd.Flags().StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (c *config) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.logLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// openLibrary builds the single Library instance for this process.
func (c *config) openLibrary() (*library.Library, error) {
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	kind, err := library.ParseStoreKind(c.store)
	if err != nil {
		return nil, err
	}
	store, err := library.OpenStore(kind, c.dataPath)
	if err != nil {
		return nil, err
	}
	return library.NewLibrary(store, library.WithLogger(logger)), nil
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:           "library",
		Short:         "Track books, users and loans from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := cfg.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			return menu.NewConsole(lib, cmd.InOrStdin(), cmd.OutOrStdout(), interactive).Run()
		},
	}
	cfg.bind(cmd)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
