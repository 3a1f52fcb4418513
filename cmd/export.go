package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/export"
	"github.com/sells-group/agrigrant-cli/internal/filter"
)

var (
	exportOut          string
	exportGrantsFilter filter.ProgramCriteria
	exportCSPFlags     enhancementFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write listings to .xlsx or a detail panel to .docx",
}

func exported(cmd *cobra.Command, path string) {
	zap.L().Info("export: written", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
}

var exportGrantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Export grant programs to a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := "Grant Programs"
		if c := exportGrantsFilter.Category; c != "" {
			category, err := cat.Category(c)
			if err != nil {
				return err
			}
			title = category.Title
		}
		path, err := export.Resolve(exportOut, cfg.Export.Dir, title, export.ExtXlsx)
		if err != nil {
			return err
		}
		if err := export.SaveProgramsSheet(path, filter.Programs(cat.Programs(), exportGrantsFilter)); err != nil {
			return err
		}
		exported(cmd, path)
		return nil
	},
}

var exportCSPCmd = &cobra.Command{
	Use:   "csp",
	Short: "Export CSP enhancements to a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := exportCSPFlags.criteria()
		if err != nil {
			return err
		}
		path, err := export.Resolve(exportOut, cfg.Export.Dir, "CSP Enhancements", export.ExtXlsx)
		if err != nil {
			return err
		}
		if err := export.SaveEnhancementsSheet(path, filter.Enhancements(cat.Enhancements(), c)); err != nil {
			return err
		}
		exported(cmd, path)
		return nil
	},
}

var exportProgramCmd = &cobra.Command{
	Use:   "program <id>",
	Short: "Export one grant program to a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cat.Program(args[0])
		if err != nil {
			return err
		}
		path, err := export.Resolve(exportOut, cfg.Export.Dir, p.Name, export.ExtDocx)
		if err != nil {
			return err
		}
		if err := export.ProgramDoc(path, p, cat.Acronyms()); err != nil {
			return err
		}
		exported(cmd, path)
		return nil
	},
}

var exportEnhancementCmd = &cobra.Command{
	Use:   "enhancement <code>",
	Short: "Export one CSP enhancement to a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := cat.Enhancement(args[0])
		if err != nil {
			return err
		}
		path, err := export.Resolve(exportOut, cfg.Export.Dir, e.Code+" "+e.Name, export.ExtDocx)
		if err != nil {
			return err
		}
		if err := export.EnhancementDoc(path, e, cat.Acronyms()); err != nil {
			return err
		}
		exported(cmd, path)
		return nil
	},
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "", "output file (default AgriGrant_SC_<title> in export.dir)")

	g := exportGrantsCmd.Flags()
	g.StringVar(&exportGrantsFilter.Search, "search", "", "case-insensitive text in name, details or eligibility")
	g.StringVar(&exportGrantsFilter.Category, "category", "", "category key")
	g.StringVar(&exportGrantsFilter.Agency, "agency", "", "exact agency name")
	exportCSPFlags.register(exportCSPCmd)

	exportCmd.AddCommand(exportGrantsCmd, exportCSPCmd, exportProgramCmd, exportEnhancementCmd)
	rootCmd.AddCommand(exportCmd)
}
