package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/weftline/weft/internal/document"
	"github.com/weftline/weft/internal/engine"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	RuleFiles []string
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <document>",
		Short: "Report which rules would fire without writing anything",
		Long: `Run the passes in memory and report, per rule, how many
matches would fire, how many one-shot repeats would be suppressed, and
the resulting line-count change. The document is never modified.

Example:
  weft plan --rules marketplace.yaml index.html`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.RuleFiles, "rules", nil, "rule file to evaluate (repeatable, order is pass order)")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runPlan(opts *PlanOptions, docPath string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	doc, err := document.Read(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read document", err)
	}

	report := &RunReport{Document: docPath}

	for _, ruleFile := range opts.RuleFiles {
		set, err := LoadRuleSet(ruleFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load rule set", err)
		}

		res, err := engine.Rewrite(doc.Lines, set)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to evaluate rule set", err)
		}
		slog.Debug("pass evaluated", "rule_set", set.Name)

		report.Passes = append(report.Passes, PassReport{
			RuleSet:     set.Name,
			Fingerprint: set.Fingerprint(),
			Firings:     res.Firings,
			Suppressed:  res.Suppressed,
			LinesBefore: len(doc.Lines),
			LinesAfter:  len(res.Lines),
		})

		doc = doc.WithLines(res.Lines)
	}

	return formatter.Success(report, report.render)
}
