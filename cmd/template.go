package cmd

import (
	"fmt"

	"refsync/core/notion"
	"refsync/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	templatePage        string
	templateCollections string
)

var templateCmd = &cobra.Command{
	Use:       "template refs|collections",
	Short:     "Create a database with the schema a library sync needs",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{library.TemplateRefs, library.TemplateCollections},
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := notion.ParseID(templatePage)
		if err != nil {
			return fmt.Errorf("invalid --page: %w", err)
		}

		a, err := setup(cmdContext(cmd))
		if err != nil {
			return err
		}
		defer a.close()

		links := templateCollections
		if links == "" {
			links = a.cfg.Sync.CollectionsDatabase
		}

		db, err := library.NewTemplates(a.notion).Create(cmdContext(cmd), args[0], parent, links)
		if err != nil {
			return err
		}
		a.logger.Info("Database created",
			zap.String("template", args[0]),
			zap.String("id", db.ID),
			zap.String("url", db.URL),
		)
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVar(&templatePage, "page", "", "Page (id or URL) the database is created under")
	templateCmd.Flags().StringVar(&templateCollections, "collections", "", "Collections database references link to")
	_ = templateCmd.MarkFlagRequired("page")

	RootCmd.AddCommand(templateCmd)
}
