package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agrigrant-cli/internal/annotate"
	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/dashboard"
	"github.com/sells-group/agrigrant-cli/internal/model"
)

var (
	acronymsFormat  string
	annotateFormat  string
	dashboardFormat string
)

var acronymsCmd = &cobra.Command{
	Use:   "acronyms [term]",
	Short: "List the acronym glossary or define one term",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(acronymsFormat); err != nil {
			return err
		}
		table := cat.Acronyms()
		entries := table.Entries()
		if len(args) == 1 {
			def, ok := table.Lookup(args[0])
			if !ok {
				return eris.Wrapf(catalog.ErrNotFound, "acronym %q", args[0])
			}
			entries = []model.GlossaryEntry{{Term: strings.ToUpper(args[0]), Definition: def}}
		}
		if acronymsFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		return write(cmd, newRenderer(cmd).Glossary(entries))
	},
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <text...>",
	Short: "Mark known acronyms in free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(annotateFormat); err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if annotateFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), annotate.Annotate(text, cat.Acronyms()))
		}
		return write(cmd, newRenderer(cmd).Text(text))
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List key program forms and where to get them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return write(cmd, newRenderer(cmd).Forms(cat.Forms()))
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the overview: summary, counts, success-rate chart and contacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(dashboardFormat); err != nil {
			return err
		}
		d := dashboard.Build(cat)
		if dashboardFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), d)
		}
		return write(cmd, newRenderer(cmd).Dashboard(d))
	},
}

func init() {
	addFormatFlag(acronymsCmd, &acronymsFormat)
	addFormatFlag(annotateCmd, &annotateFormat)
	addFormatFlag(dashboardCmd, &dashboardFormat)

	rootCmd.AddCommand(acronymsCmd, annotateCmd, formsCmd, dashboardCmd)
}
