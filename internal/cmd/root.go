package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/handiism/bookshelf/internal/config"
	"github.com/handiism/bookshelf/internal/shelf"
	"github.com/handiism/bookshelf/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// env holds what every subcommand needs once flags are parsed.
type env struct {
	configPath string
	apiURL     string
	settings   *config.Settings
}

// load resolves settings: file, then environment, then --api-url.
func (e *env) load() error {
	path := e.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings.ApplyEnv()
	if e.apiURL != "" {
		settings.APIURL = e.apiURL
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	glog.V(1).Infof("[cmd] using %s (config %s)", settings.APIURL, path)
	e.settings = settings
	return nil
}

// coordinator returns a Coordinator with the initial snapshot loaded.
func (e *env) coordinator(cmd *cobra.Command) (*shelf.Coordinator, error) {
	coord := shelf.New(e.settings, nil)
	if err := coord.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return coord, nil
}

// NewRootCmd creates the root command for bookshelf.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Manage a remote book collection",
		Long: `List, add, edit and delete books held by a REST book service.

Run without a subcommand to open the interactive UI (or print the list
when output is not a terminal).

bookshelf provides tools to:
- List books as a table, JSON, YAML or CSV
- Add, edit and delete books
- Import books from YAML or JSON files
- Export the collection to a file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(cmd.OutOrStdout()) {
				return tui.Run(e.settings)
			}
			return runList(cmd, e, "table")
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&e.apiURL, "api-url", "", "Book collection URL (overrides config and "+config.EnvAPIURL+")")
	// glog flags: -v, --logtostderr, --log_dir, ...
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(newListCmd(e))
	root.AddCommand(newAddCmd(e))
	root.AddCommand(newEditCmd(e))
	root.AddCommand(newDeleteCmd(e))
	root.AddCommand(newImportCmd(e))
	root.AddCommand(newExportCmd(e))
	root.AddCommand(newTUICmd(e))

	return root
}

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(e.settings)
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// warnRefresh reports a failed follow-up refresh. The mutation itself
// already happened on the server.
func warnRefresh(cmd *cobra.Command, r shelf.Result) {
	if r.RefreshErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: refresh after %s failed: %v\n", r.Op, r.RefreshErr)
	}
}
