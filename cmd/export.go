package cmd

import (
	"fmt"

	"refsync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportPrefix string

var exportCmd = &cobra.Command{
	Use:   "export [database]",
	Short: "Upload every page of a database as markdown to object storage",
	Long: `Render every page of a database as markdown and upload it to
<bucket>/<prefix>/<name>.md. Objects under the prefix without a page are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmdContext(cmd))
		if err != nil {
			return err
		}
		defer a.close()

		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}

		result, err := a.markdownService(client).Export(cmdContext(cmd), argAt(args, 0), exportPrefix)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		a.logger.Info("Export finished",
			zap.String("bucket", a.cfg.Storage.Bucket),
			zap.Int("uploaded", len(result.Uploaded)),
			zap.Int("removed", len(result.Removed)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Object key prefix (defaults to sync.export_prefix)")
	RootCmd.AddCommand(exportCmd)
}
