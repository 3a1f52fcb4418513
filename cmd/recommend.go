package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/export"
	"github.com/sells-group/agrigrant-cli/internal/model"
	"github.com/sells-group/agrigrant-cli/internal/recommend"
	"github.com/sells-group/agrigrant-cli/internal/server"
)

var recommendOpts struct {
	profile model.FarmProfile
	out     string
	format  string
}

// newRecommender builds the configured provider; tests swap it for a fake.
var newRecommender = func(ctx context.Context) (server.Recommender, error) {
	svc, err := recommend.NewServiceFromConfig(ctx, cat, cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Ask the AI provider for personalized grant recommendations",
	Long: "Sends the farm profile with the grant and CSP catalogs to the configured provider " +
		"(ai.provider) and prints the recommended programs, enhancements and next steps.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(recommendOpts.format); err != nil {
			return err
		}
		if err := cfg.Validate("recommend"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newRecommender(ctx)
		if err != nil {
			return err
		}
		rec, err := svc.Recommend(ctx, recommendOpts.profile)
		if err != nil {
			return err
		}

		if recommendOpts.out != "" {
			path, err := export.Resolve(recommendOpts.out, cfg.Export.Dir, "Recommendations", export.ExtDocx)
			if err != nil {
				return err
			}
			if err := export.RecommendationDoc(path, rec, cat.Acronyms()); err != nil {
				return err
			}
			zap.L().Info("recommend: report written", zap.String("path", path))
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", path)
		}

		if recommendOpts.format == formatJSON {
			return printJSON(cmd.OutOrStdout(), rec)
		}
		return write(cmd, newRenderer(cmd).Recommendation(rec))
	},
}

func init() {
	f := recommendCmd.Flags()
	p := &recommendOpts.profile
	f.StringVar(&p.SizeAcres, "size", "", "farm size in acres")
	f.StringVar(&p.County, "county", "", "South Carolina county")
	f.StringVar(&p.Experience, "experience", model.DefaultExperience, "years farming: 0-2, 3-9 or 10+")
	f.BoolVar(&p.Underserved, "underserved", false, "socially disadvantaged, veteran or limited-resource producer")
	f.StringArrayVar(&p.Goals, "goal", nil, "farm goal (repeatable)")
	f.StringVar(&recommendOpts.out, "out", "", "also write a .docx report to this path")
	addFormatFlag(recommendCmd, &recommendOpts.format)

	rootCmd.AddCommand(recommendCmd)
}
