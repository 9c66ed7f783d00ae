package cmd

import (
	"context"
	"fmt"

	"refsync/core/reconcile"
	"refsync/feature/library"
	"refsync/feature/markdown"

	"github.com/spf13/cobra"
)

var (
	forceSync   bool
	dryRunSync  bool
	collections string
	onConflict  string
)

// syncCmd is the parent command for all sync operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one batch sync",
	Long: `Run one batch sync. Database arguments default to the sync.* values of
the configuration.`,
}

var syncRefsCmd = &cobra.Command{
	Use:   "refs [database]",
	Short: "Mirror library items into the references database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibrarySync(cmdContext(cmd), func(svc *library.Service, run reconcile.Options) (*reconcile.Report, error) {
			return svc.SyncRefs(cmdContext(cmd), library.Options{
				Database:            argAt(args, 0),
				CollectionsDatabase: collections,
				Force:               forceSync,
			}, run)
		})
	},
}

var syncCollectionsCmd = &cobra.Command{
	Use:   "collections [database]",
	Short: "Mirror library collections into the collections database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibrarySync(cmdContext(cmd), func(svc *library.Service, run reconcile.Options) (*reconcile.Report, error) {
			return svc.SyncCollections(cmdContext(cmd), library.Options{
				Database: argAt(args, 0),
				Force:    forceSync,
			}, run)
		})
	},
}

var syncMarkdownCmd = &cobra.Command{
	Use:   "markdown [database] [dir]",
	Short: "Sync a directory of markdown files with a database of pages",
	Long: `Sync a directory of markdown files with a database of pages.

Files moved under <dir>/deleted archive their page. Pages edited on both sides
since the last sync are settled by --on-conflict:
  skip    leave both untouched and report a conflict (default)
  local   keep the file
  remote  keep the page`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := markdown.ParseConflictPolicy(onConflict)
		if err != nil {
			return err
		}

		a, err := setup(cmdContext(cmd))
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.markdownService(nil).SyncPages(cmdContext(cmd), markdown.Options{
			Database: argAt(args, 0),
			Dir:      argAt(args, 1),
			Force:    forceSync,
			Conflict: policy,
		}, reconcile.Options{DryRun: dryRunSync})
		if report != nil {
			printReport(a.logger, report)
		}
		if err != nil {
			return fmt.Errorf("markdown sync failed: %w", err)
		}
		return nil
	},
}

func runLibrarySync(ctx context.Context, run func(*library.Service, reconcile.Options) (*reconcile.Report, error)) error {
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := run(a.libraryService(), reconcile.Options{DryRun: dryRunSync})
	if report != nil {
		printReport(a.logger, report)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// cmdContext returns the command context, which is nil when a command is
// executed without ExecuteContext.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	for _, c := range []*cobra.Command{syncRefsCmd, syncCollectionsCmd, syncMarkdownCmd} {
		c.Flags().BoolVar(&forceSync, "force", false, "Push every record regardless of versions and timestamps")
		c.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan and report without writing")
		syncCmd.AddCommand(c)
	}
	syncRefsCmd.Flags().StringVar(&collections, "collections", "", "Collections database to link references to")
	syncMarkdownCmd.Flags().StringVar(&onConflict, "on-conflict", string(markdown.ConflictSkip), "Conflict policy: skip, local or remote")

	RootCmd.AddCommand(syncCmd)
}
