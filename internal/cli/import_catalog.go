package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/services"
)

func newImportCatalogCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-catalog",
		Short: "Load books, contributors and genres from a JSON file",
		Long: `Reads a JSON array of book records:

  [{"isbn": "9780441013593", "title": "Dune", "length": 604, "audience": "Adults",
    "release_date": "1965-08-01", "authors": ["Frank Herbert"],
    "publishers": ["Chilton Books"], "genres": ["Science Fiction"]}]

Books already present are updated and their links replaced. Any invalid
record aborts the whole import.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			db, err := database.NewDatabase(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := importCatalog(cmd.Context(), f, catalog.NewRepository(db.DB))
			if err != nil {
				return err
			}

			logger.Info("Catalog imported", zap.String("file", file), zap.Int("books", n))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d books\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with book records")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func importCatalog(ctx context.Context, r io.Reader, importer services.CatalogImporter) (int, error) {
	var records []catalog.BookRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return importer.ImportBooks(ctx, records)
}
