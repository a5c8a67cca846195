package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/infrastructure/static"
	"github.com/petfit/backend/internal/usecase"
)

type scoreOptions struct {
	input       string
	asJSON      bool
	showReasons bool
	concurrency int
	debug       bool
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank the products in a scenario file",
		Example: `  petfit score --input scenario.yaml
  petfit score --input scenario.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to a YAML scenario file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full recommendation run as JSON")
	cmd.Flags().BoolVar(&opts.showReasons, "reasons", false, "print the reason trail under each product")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "max candidates scored in parallel (default 8)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log nutrition calculations")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runScore(cmd *cobra.Command, opts *scoreOptions) error {
	scenario, err := LoadScenario(opts.input)
	if err != nil {
		return err
	}

	run, err := scoreScenario(cmd, scenario, opts)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), run)
	}
	return writeTable(cmd.OutOrStdout(), run, opts.showReasons)
}

// scoreScenario ranks a scenario against its own lists, falling back to the built-in ones
func scoreScenario(cmd *cobra.Command, scenario *Scenario, opts *scoreOptions) (*domain.RecommendationRun, error) {
	tables := usecase.DefaultScoringTables().WithDynamicLists(scenario.HarmfulIngredients, scenario.AllergenKeywords)
	source := static.NewSource(tables.HarmfulIngredients, tables.AllergenKeywords)

	service := usecase.NewRecommendationService(
		nil,
		source,
		usecase.NewScoringService(usecase.ScoringConfig{EnableDebugLogging: opts.debug}),
		usecase.RecommendationServiceConfig{MaxConcurrency: opts.concurrency},
	)

	return service.Recommend(cmd.Context(), scenario.Request())
}

func writeJSON(w io.Writer, run *domain.RecommendationRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, run *domain.RecommendationRun, showReasons bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPRODUCT\tSCORE\tSAFETY\tFITNESS")
	for _, item := range run.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.1f\n",
			item.Rank, item.ProductID, item.Score, item.SafetyScore, item.FitnessScore)
		if showReasons {
			for _, reason := range item.Reasons {
				fmt.Fprintf(tw, "\t  - %s\t\t\t\n", reason)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d ranked, %d excluded (preset %s, run %s)\n",
		len(run.Items), run.Excluded, run.Context.Preferences.WeightsPreset, shortID(run.ID))
	return nil
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
