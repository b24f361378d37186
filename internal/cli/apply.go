package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/weftline/weft/internal/document"
	"github.com/weftline/weft/internal/engine"
	"github.com/weftline/weft/internal/journal"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	RuleFiles []string
	Journal   string
	DryRun    bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <document>",
		Short: "Patch a document with one or more rule sets",
		Long: `Apply rule sets to a document, one engine pass per rule file,
in the order the --rules flags are given. Each pass's output feeds the
next pass. The rewritten document replaces the original atomically:
either the fully patched document is committed or nothing changes.

With --journal, passes already recorded for the document's current
content are skipped, so re-running apply over already patched output
does not duplicate one-shot insertions.

Example:
  weft apply --rules marketplace.yaml --rules harvest-form.yaml index.html
  weft apply --rules marketplace.yaml --journal .weft.db index.html
  weft apply --rules marketplace.yaml --dry-run index.html > preview.html`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.RuleFiles, "rules", nil, "rule file to apply (repeatable, order is pass order)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to run journal database (enables skip of already-applied passes)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the rewritten document to stdout instead of committing")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runApply(opts *ApplyOptions, docPath string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := NewFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	doc, err := document.Read(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read document", err)
	}
	slog.Debug("document read", "path", docPath, "lines", len(doc.Lines))

	var jnl *journal.Journal
	if opts.Journal != "" {
		jnl, err = journal.Open(opts.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := jnl.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
	}

	report := &RunReport{Document: docPath, DryRun: opts.DryRun}
	var records []journal.RunRecord
	runID := journal.NewRunID()
	executed := false

	for _, ruleFile := range opts.RuleFiles {
		set, err := LoadRuleSet(ruleFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load rule set", err)
		}
		fp := set.Fingerprint()

		var inputHash string
		if jnl != nil {
			inputHash = journal.ContentHash(doc.Content())
			applied, err := jnl.AlreadyApplied(ctx, fp, inputHash)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to query journal", err)
			}
			if applied {
				slog.Info("pass already applied, skipping", "rule_set", set.Name)
				report.Passes = append(report.Passes, PassReport{
					RuleSet:     set.Name,
					Fingerprint: fp,
					Skipped:     true,
					LinesBefore: len(doc.Lines),
					LinesAfter:  len(doc.Lines),
				})
				continue
			}
		}

		res, err := engine.Rewrite(doc.Lines, set)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to apply rule set", err)
		}
		out := doc.WithLines(res.Lines)
		slog.Debug("pass complete",
			"rule_set", set.Name,
			"lines_before", len(doc.Lines),
			"lines_after", len(out.Lines))

		report.Passes = append(report.Passes, PassReport{
			RuleSet:     set.Name,
			Fingerprint: fp,
			Firings:     res.Firings,
			Suppressed:  res.Suppressed,
			LinesBefore: len(doc.Lines),
			LinesAfter:  len(out.Lines),
		})

		if jnl != nil {
			records = append(records, journal.RunRecord{
				RunID:        runID,
				DocumentPath: docPath,
				RuleSetName:  set.Name,
				Fingerprint:  fp,
				InputHash:    inputHash,
				OutputHash:   journal.ContentHash(out.Content()),
				Firings:      res.Firings,
			})
		}

		doc = out
		executed = true
	}

	if opts.DryRun {
		if _, err := cmd.OutOrStdout().Write(doc.Content()); err != nil {
			return WrapExitError(ExitFailure, "failed to write preview", err)
		}
		report.render(cmd.ErrOrStderr())
		return nil
	}

	if executed {
		if err := document.Commit(docPath, doc); err != nil {
			return WrapExitError(ExitFailure, "failed to commit document", err)
		}
		report.Committed = true

		// Journal records are written after the commit so the journal
		// never claims a pass the document does not have.
		for _, rec := range records {
			if err := jnl.Record(ctx, rec); err != nil {
				return WrapExitError(ExitFailure,
					fmt.Sprintf("document committed but journal update failed for rule set %q", rec.RuleSetName), err)
			}
		}
	}

	return formatter.Success(report, report.render)
}
