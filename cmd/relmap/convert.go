package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dd0wney/biocatalog/pkg/catalog"
	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var dataset, output string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write a cleaned copy of a dataset; .gz and .sz outputs are compressed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("--output is required")
			}

			cat, err := a.loadCatalog(cmd.Context(), dataset)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			enc := catalog.EncodingFor(output)
			if err := catalog.Encode(f, enc, cat.Entries()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}

			a.logger.Info("catalog converted",
				logging.Path(output), logging.String("encoding", enc.String()), logging.Count(cat.Len()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "all_matches.json", "catalog source")
	cmd.Flags().StringVar(&output, "output", "", "destination file")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the PostgreSQL table definition read by postgres:// datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(a.out, catalog.Schema)
			return err
		},
	}
}
