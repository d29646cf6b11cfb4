package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/handiism/bookshelf/internal/export"
	"github.com/handiism/bookshelf/internal/model"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newListCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the collection",
		Long: `List every book held by the service.

Examples:
  bookshelf list              # Table
  bookshelf list -o json      # JSON, same shape as the API
  bookshelf list -o csv       # CSV with a header row`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, e, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json, yaml, csv")

	return cmd
}

func runList(cmd *cobra.Command, e *env, output string) error {
	// Reject a bad format before any call.
	var exporter *export.Exporter
	if output != "table" {
		format, err := export.ParseFormat(output)
		if err != nil {
			return err
		}
		exporter = export.NewExporter(format)
	}

	coord, err := e.coordinator(cmd)
	if err != nil {
		return err
	}
	books := coord.Store().Snapshot()

	if exporter != nil {
		data, err := exporter.Export(books)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	w := cmd.OutOrStdout()
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		fmt.Fprintln(w, "Use 'bookshelf add' or 'bookshelf import <file>' to add books.")
		return nil
	}

	fmt.Fprintln(w, renderTable(books))
	fmt.Fprintf(w, "\nTotal: %d book(s)\n", len(books))
	return nil
}

func renderTable(books []model.Book) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Author", "Year", "Genre").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, b := range books {
		t.Row(b.ID, truncate(b.Title, 40), truncate(b.Author, 30), string(b.PublishedYear), b.Genre)
	}
	return t.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
