package cmd

import (
	"fmt"

	"github.com/handiism/bookshelf/internal/export"
	"github.com/spf13/cobra"
)

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add every book listed in a YAML or JSON file",
		Long: `Add every book listed in a YAML or JSON file.

Ids in the file are ignored; the service assigns new ones. Entries missing
a required field are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := export.ReadDrafts(args[0])
			if err != nil {
				return err
			}

			coord, err := e.coordinator(cmd)
			if err != nil {
				return err
			}

			result := coord.Import(cmd.Context(), drafts)
			w := cmd.OutOrStdout()
			for _, f := range result.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "entry %d: %v\n", f.Index+1, f.Err)
			}
			if result.RefreshErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: refresh after import failed: %v\n", result.RefreshErr)
			}
			fmt.Fprintf(w, "Imported %d of %d book(s)\n", len(result.Created), len(drafts))

			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d entries failed", len(result.Failed), len(drafts))
			}
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var (
		format string // "json", "yaml", "csv"
		output string // file path or "-" for stdout
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection to JSON, YAML or CSV",
		Long: `Export the collection to JSON, YAML or CSV.

Without --format the format follows the extension of --output, and
defaults to JSON on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}

			coord, err := e.coordinator(cmd)
			if err != nil {
				return err
			}

			books := coord.Store().Snapshot()
			data, err := export.NewExporter(f).Export(books)
			if err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}

			if output == "-" || output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := export.WriteFile(output, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d book(s) to %s\n", len(books), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: json, yaml, csv")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (default: stdout)")

	return cmd
}

func resolveFormat(format, output string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if output == "-" || output == "" {
		return export.FormatJSON, nil
	}
	return export.FormatFromPath(output)
}
