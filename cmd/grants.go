package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/agrigrant-cli/internal/dashboard"
	"github.com/sells-group/agrigrant-cli/internal/filter"
)

var grantsListOpts struct {
	criteria filter.ProgramCriteria
	format   string
}

var grantsShowFormat string

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Browse grant programs",
}

var grantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List grant programs, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(grantsListOpts.format); err != nil {
			return err
		}
		c := grantsListOpts.criteria
		if c.Category != "" {
			if _, err := cat.Category(c.Category); err != nil {
				return err
			}
		}

		programs := filter.Programs(cat.Programs(), c)
		if grantsListOpts.format == formatJSON {
			return printJSON(cmd.OutOrStdout(), programs)
		}
		return write(cmd, newRenderer(cmd).Programs(programs))
	},
}

var grantsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a grant program with acronym footnotes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(grantsShowFormat); err != nil {
			return err
		}
		p, err := cat.Program(args[0])
		if err != nil {
			return err
		}
		if grantsShowFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), p)
		}
		return write(cmd, newRenderer(cmd).Program(p))
	},
}

var grantsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List program categories with counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return write(cmd, newRenderer(cmd).Categories(dashboard.Build(cat).Categories))
	},
}

func init() {
	f := grantsListCmd.Flags()
	f.StringVar(&grantsListOpts.criteria.Search, "search", "", "case-insensitive text in name, details or eligibility")
	f.StringVar(&grantsListOpts.criteria.Category, "category", "", "category key (nrcs, ams, scda, nifa, other)")
	f.StringVar(&grantsListOpts.criteria.Agency, "agency", "", "exact agency name")
	addFormatFlag(grantsListCmd, &grantsListOpts.format)
	addFormatFlag(grantsShowCmd, &grantsShowFormat)

	grantsCmd.AddCommand(grantsListCmd, grantsShowCmd, grantsCategoriesCmd)
	rootCmd.AddCommand(grantsCmd)
}
