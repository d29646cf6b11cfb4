package cmd

import (
	"errors"
	"fmt"

	"github.com/handiism/bookshelf/internal/model"
	"github.com/spf13/cobra"
)

// draftFlags binds one flag per book field.
type draftFlags struct {
	values map[model.Field]*string
}

var flagNames = map[model.Field]string{
	model.FieldTitle:         "title",
	model.FieldAuthor:        "author",
	model.FieldPublishedYear: "year",
	model.FieldGenre:         "genre",
}

func bindDraftFlags(cmd *cobra.Command) *draftFlags {
	f := &draftFlags{values: make(map[model.Field]*string, len(model.Fields))}
	for _, field := range model.Fields {
		f.values[field] = cmd.Flags().String(flagNames[field], "", "Book "+field.Label())
	}
	return f
}

// overlay copies every flag the user set onto draft.
func (f *draftFlags) overlay(cmd *cobra.Command, draft model.Draft) model.Draft {
	for _, field := range model.Fields {
		if cmd.Flags().Changed(flagNames[field]) {
			draft[field] = *f.values[field]
		}
	}
	return draft
}

func newAddCmd(e *env) *cobra.Command {
	var flags *draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Example: `  bookshelf add --title Dune --author "Frank Herbert" --year 1965 --genre SciFi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := flags.overlay(cmd, model.NewDraft())
			if err := draft.Validate(); err != nil {
				return err
			}

			coord, err := e.coordinator(cmd)
			if err != nil {
				return err
			}

			result := coord.Create(cmd.Context(), draft)
			if err := result.Err; err != nil {
				return fmt.Errorf("add: %w", err)
			}
			warnRefresh(cmd, result)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", result.ID, result.Book)
			return nil
		},
	}

	flags = bindDraftFlags(cmd)
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	var flags *draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book",
		Long: `Edit a book. Fields not given keep their current value; the whole
record is sent to the service.`,
		Example: `  bookshelf edit 64f1c2 --title "Dune Messiah" --year 1969`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			coord, err := e.coordinator(cmd)
			if err != nil {
				return err
			}

			book, err := coord.BeginEdit(id)
			if err != nil {
				return err
			}

			draft := flags.overlay(cmd, model.DraftOf(book))
			if err := draft.Validate(); err != nil {
				coord.CancelEdit()
				return err
			}

			result := coord.Update(cmd.Context(), id, draft)
			if err := result.Err; err != nil {
				return fmt.Errorf("edit %s: %w", id, err)
			}
			warnRefresh(cmd, result)

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", id, draft.Book(id))
			return nil
		},
	}

	flags = bindDraftFlags(cmd)
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more books",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := e.coordinator(cmd)
			if err != nil {
				return err
			}

			var errs []error
			for _, id := range args {
				result := coord.Delete(cmd.Context(), id)
				if result.Err != nil {
					errs = append(errs, fmt.Errorf("delete %s: %w", id, result.Err))
					continue
				}
				warnRefresh(cmd, result)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}

			return errors.Join(errs...)
		},
	}
}
