package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/config"
	"github.com/sells-group/agrigrant-cli/internal/render"
)

var (
	cfg *config.Config
	cat *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "agrigrant",
	Short: "South Carolina small-farm grant guide",
	Long: "Browse USDA, state and partner grant programs and CSP enhancements for small South Carolina farms, " +
		"look up program acronyms, export listings and ask an AI provider for personalized recommendations.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		cat, err = catalog.Open(cfg.Catalog.DataDir)
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

const (
	formatTable = "table"
	formatJSON  = "json"
)

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "format", formatTable, "output format: table or json")
}

func checkFormat(f string) error {
	if f != formatTable && f != formatJSON {
		return eris.Errorf("unknown format %q (want table or json)", f)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

func newRenderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), cat.Acronyms())
}

func write(cmd *cobra.Command, s string) error {
	_, err := io.WriteString(cmd.OutOrStdout(), s)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
