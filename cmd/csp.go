package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/agrigrant-cli/internal/filter"
)

// enhancementFlags are the raw filter flags shared by csp list and export csp.
type enhancementFlags struct {
	search  string
	landUse string
	csaf    string
}

func (f *enhancementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive text in name, code or details")
	cmd.Flags().StringVar(&f.landUse, "land-use", "", "Crop, Pasture/Range, Forest, Associated Ag Land/Farmstead or All")
	cmd.Flags().StringVar(&f.csaf, "csaf", "all", "all, csaf or non-csaf")
}

func (f *enhancementFlags) criteria() (filter.EnhancementCriteria, error) {
	lu, err := filter.ParseLandUse(f.landUse)
	if err != nil {
		return filter.EnhancementCriteria{}, err
	}
	csaf, err := filter.ParseTriState(f.csaf)
	if err != nil {
		return filter.EnhancementCriteria{}, err
	}
	return filter.EnhancementCriteria{Search: f.search, LandUse: lu, CSAF: csaf}, nil
}

var (
	cspListFlags  enhancementFlags
	cspListFormat string
	cspShowFormat string
)

var cspCmd = &cobra.Command{
	Use:   "csp",
	Short: "Browse Conservation Stewardship Program enhancements",
}

var cspListCmd = &cobra.Command{
	Use:   "list",
	Short: "List CSP enhancements, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(cspListFormat); err != nil {
			return err
		}
		c, err := cspListFlags.criteria()
		if err != nil {
			return err
		}

		es := filter.Enhancements(cat.Enhancements(), c)
		if cspListFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), es)
		}
		return write(cmd, newRenderer(cmd).Enhancements(es))
	},
}

var cspShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a CSP enhancement with acronym footnotes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(cspShowFormat); err != nil {
			return err
		}
		e, err := cat.Enhancement(args[0])
		if err != nil {
			return err
		}
		if cspShowFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), e)
		}
		return write(cmd, newRenderer(cmd).Enhancement(e))
	},
}

func init() {
	cspListFlags.register(cspListCmd)
	addFormatFlag(cspListCmd, &cspListFormat)
	addFormatFlag(cspShowCmd, &cspShowFormat)

	cspCmd.AddCommand(cspListCmd, cspShowCmd)
	rootCmd.AddCommand(cspCmd)
}
